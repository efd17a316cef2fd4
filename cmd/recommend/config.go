package main

import (
	"flag"
	"os"
	"time"

	"kdrama_recommend/internal/logger"

	"gopkg.in/yaml.v3"
)

// ServerConfig 对应 configs/server.yaml
type ServerConfig struct {
	Server struct {
		Port      string `yaml:"port"`
		Debug     bool   `yaml:"debug"`
		LogFormat string `yaml:"log_format"` // json | console
	} `yaml:"server"`
	Paths struct {
		Catalog   string `yaml:"catalog"`
		Users     string `yaml:"users"`
		Pipelines string `yaml:"pipelines"`
		Profiles  string `yaml:"profiles"`
	} `yaml:"paths"`
	OMDb struct {
		Endpoint string        `yaml:"endpoint"`
		APIKey   string        `yaml:"api_key"` // 为空时不查询 IMDb 链接
		Timeout  time.Duration `yaml:"timeout"`
		Rate     float64       `yaml:"rate"` // 每秒请求数
	} `yaml:"omdb"`
}

func loadServerConfig(path string) (*ServerConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg ServerConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func defaultServerConfig() *ServerConfig {
	cfg := &ServerConfig{}
	cfg.Server.Port = "8080"
	cfg.Server.LogFormat = "console"
	cfg.Paths.Catalog = "data/kdrama.csv"
	cfg.Paths.Users = "configs/users.yaml"
	cfg.Paths.Pipelines = "configs/pipelines.json"
	cfg.Paths.Profiles = "data/profiles.jsonl"
	cfg.OMDb.Timeout = 10 * time.Second
	cfg.OMDb.Rate = 5
	return cfg
}

// merge 用 src 中的非零值覆盖 dst
func merge(dst, src *ServerConfig) {
	setString := func(d *string, s string) {
		if s != "" {
			*d = s
		}
	}
	setString(&dst.Server.Port, src.Server.Port)
	setString(&dst.Server.LogFormat, src.Server.LogFormat)
	setString(&dst.Paths.Catalog, src.Paths.Catalog)
	setString(&dst.Paths.Users, src.Paths.Users)
	setString(&dst.Paths.Pipelines, src.Paths.Pipelines)
	setString(&dst.Paths.Profiles, src.Paths.Profiles)
	setString(&dst.OMDb.Endpoint, src.OMDb.Endpoint)
	setString(&dst.OMDb.APIKey, src.OMDb.APIKey)
	// Debug 默认为 false，只有显式设置了 true 才覆盖
	if src.Server.Debug {
		dst.Server.Debug = true
	}
	if src.OMDb.Timeout > 0 {
		dst.OMDb.Timeout = src.OMDb.Timeout
	}
	if src.OMDb.Rate > 0 {
		dst.OMDb.Rate = src.OMDb.Rate
	}
}

// InitServerConfig 初始化服务器配置，优先级：命令行参数 > 配置文件 > 默认值
func InitServerConfig(fs *flag.FlagSet, args []string) (*ServerConfig, error) {
	// 将默认值设置为空字符串，以便优先使用配置文件中的值
	configPath := fs.String("config", "configs/server.yaml", "Path to server config file")
	flags := &ServerConfig{}
	fs.StringVar(&flags.Server.Port, "port", "", "Server port")
	fs.BoolVar(&flags.Server.Debug, "debug", false, "Enable debug logging")
	fs.StringVar(&flags.Server.LogFormat, "log-format", "", "Log format: json or console")
	fs.StringVar(&flags.Paths.Catalog, "catalog", "", "Path to the catalog CSV")
	fs.StringVar(&flags.Paths.Users, "users", "", "Path to users.yaml")
	fs.StringVar(&flags.Paths.Pipelines, "pipelines", "", "Path to pipelines.json")
	fs.StringVar(&flags.Paths.Profiles, "profiles", "", "Path to profiles.jsonl")
	fs.StringVar(&flags.OMDb.APIKey, "omdb-key", "", "OMDb API key")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg := defaultServerConfig()
	if loaded, err := loadServerConfig(*configPath); err == nil {
		merge(cfg, loaded)
	} else {
		// 配置文件不存在时使用默认值和命令行参数
		logger.Info("Could not load config file '%s': %v. Using defaults or flags.", *configPath, err)
	}
	merge(cfg, flags)
	return cfg, nil
}
