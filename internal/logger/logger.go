package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	mu        sync.RWMutex
	debugMode = false
	log       = newLogger(os.Stdout, "console")
)

func newLogger(out io.Writer, format string) zerolog.Logger {
	if format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.DateTime}
	}
	return zerolog.New(out).With().Timestamp().Logger()
}

// Init 设置日志输出格式 ("json" 或 "console")
func Init(out io.Writer, format string) {
	mu.Lock()
	defer mu.Unlock()
	log = newLogger(out, format)
}

// SetDebug 设置是否开启调试模式
func SetDebug(debug bool) {
	mu.Lock()
	defer mu.Unlock()
	debugMode = debug
}

func current() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// L 返回底层 zerolog.Logger，用于需要结构化字段的场景
func L() *zerolog.Logger {
	l := current()
	return &l
}

// Info 打印信息日志
func Info(format string, v ...interface{}) {
	l := current()
	l.Info().Msg(fmt.Sprintf(format, v...))
}

// Warn 打印警告日志
func Warn(format string, v ...interface{}) {
	l := current()
	l.Warn().Msg(fmt.Sprintf(format, v...))
}

// Debug 打印调试日志
func Debug(format string, v ...interface{}) {
	mu.RLock()
	enabled := debugMode
	mu.RUnlock()
	if enabled {
		l := current()
		l.Debug().Msg(fmt.Sprintf(format, v...))
	}
}

// Error 打印错误日志
func Error(format string, v ...interface{}) {
	l := current()
	l.Error().Msg(fmt.Sprintf(format, v...))
}

// Fatal 打印错误日志并退出
func Fatal(format string, v ...interface{}) {
	l := current()
	l.Fatal().Msg(fmt.Sprintf(format, v...))
}
