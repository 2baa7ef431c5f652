package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekisa-team/voicestudio/internal/env"
)

func TestNew_ProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(env.Production, WithOutput(&buf))

	log.Debug("hidden")
	log.Info("voices fetched", "count", 3)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "voices fetched", rec["msg"])
	assert.EqualValues(t, 3, rec["count"])
}

func TestNew_LevelOverride(t *testing.T) {
	var buf bytes.Buffer
	log := New(env.Production, WithOutput(&buf), WithLevel("error"))

	log.Warn("dropped")
	assert.Empty(t, buf.String())
}

func TestNew_FileSink(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "nested", "studio.log")

	log := New(env.Development, WithOutput(&buf), WithLogToFile(true), WithLogFile(path))
	log.Info("clip rendered", "bytes", 512)

	assert.Contains(t, buf.String(), "clip rendered")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"clip rendered"`)
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		" warn ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range tests {
		got, ok := ParseLevel(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	_, ok := ParseLevel("verbose")
	assert.False(t, ok)
}
