package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONOutputAndDebugGate(t *testing.T) {
	var buf bytes.Buffer
	Init(&buf, "json")
	defer Init(os.Stdout, "console")
	defer SetDebug(false)

	Debug("hidden %d", 1)
	assert.Zero(t, buf.Len())

	SetDebug(true)
	Debug("shown %d", 2)
	Info("loaded %d items", 3)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(lines[1], &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "loaded 3 items", entry["message"])
}
