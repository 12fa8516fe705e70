package utils

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger(&buf)

	l.Info("compiled %d tokens", 3)
	l.Warning("skipping %s", "a.bin")
	l.Debug("trace depth %d", 2)
	l.Error("boom")

	out := buf.String()
	assert.Contains(t, out, "[INFO] ")
	assert.Contains(t, out, "compiled 3 tokens")
	assert.Contains(t, out, "[WARN] ")
	assert.Contains(t, out, "[DEBUG] ")
	assert.Contains(t, out, "[ERROR] ")
}

func TestDebugSuppressed(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger(&buf)
	l.debug = false

	l.Debug("hidden")
	assert.Empty(t, buf.String())
}

func TestInitWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "run.log")
	require.NoError(t, Init(path, false))
	t.Cleanup(func() { GetLogger().Close() })

	Info("hello %s", "file")
	Debug("not written")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello file")
	assert.NotContains(t, string(data), "not written")
}
