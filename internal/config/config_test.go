package config

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekisa-team/voicestudio/internal/catalog"
	"github.com/ekisa-team/voicestudio/internal/env"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"ELEVENLABS_API_KEY",
		"ELEVENLABS_MODEL_ID",
		"ELEVENLABS_OPTIMIZE_STREAMING_LATENCY",
		"VOICESTUDIO_SERVER_HTTP_PORT",
	} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "voicestudio.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadAndValidate_File(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
version: "1"
server:
  http_port: 8088
  streaming: false
provider:
  api_key: sk-test
  default_model_id: eleven_multilingual_v2
  optimize_streaming_latency: 2
  timeout: 15s
`)

	cfg, err := LoadAndValidate(path, "")
	require.NoError(t, err)

	assert.Equal(t, 8088, cfg.Server.HTTPPort)
	assert.False(t, cfg.Server.Streaming)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "sk-test", cfg.Provider.APIKey)
	assert.Equal(t, catalog.ModelMultilingualV2, cfg.Provider.DefaultModelID)
	assert.Equal(t, "mp3_44100_128", cfg.Provider.OutputFormat)
	require.NotNil(t, cfg.Provider.OptimizeStreamingLatency)
	assert.Equal(t, 2, *cfg.Provider.OptimizeStreamingLatency)
	assert.Equal(t, 15*time.Second, cfg.Provider.Timeout)
}

func TestLoadAndValidate_DefaultsAndEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("ELEVENLABS_API_KEY", "sk-env")
	t.Setenv("ELEVENLABS_OPTIMIZE_STREAMING_LATENCY", "1")
	t.Setenv("VOICESTUDIO_SERVER_HTTP_PORT", "9001")

	cfg, err := LoadAndValidate("", "")
	require.NoError(t, err)

	assert.Equal(t, "sk-env", cfg.Provider.APIKey)
	assert.Equal(t, catalog.DefaultModel, cfg.Provider.DefaultModelID)
	assert.Equal(t, 9001, cfg.Server.HTTPPort)
	require.NotNil(t, cfg.Provider.OptimizeStreamingLatency)
	assert.Equal(t, 1, *cfg.Provider.OptimizeStreamingLatency)
}

func TestLoadAndValidate_EnvReference(t *testing.T) {
	clearEnv(t)
	t.Setenv("STUDIO_TEST_KEY", "sk-ref")
	path := writeConfig(t, "provider:\n  api_key: \"${STUDIO_TEST_KEY}\"\n")

	cfg, err := LoadAndValidate(path, "")
	require.NoError(t, err)
	assert.Equal(t, "sk-ref", cfg.Provider.APIKey)
}

func TestLoadAndValidate_MissingAPIKey(t *testing.T) {
	clearEnv(t)

	_, err := LoadAndValidate("", "")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestLoadAndValidate_SchemaViolations(t *testing.T) {
	clearEnv(t)

	tests := map[string]string{
		"latency out of range": "provider:\n  api_key: k\n  optimize_streaming_latency: 3\n",
		"unknown key":          "provider:\n  api_key: k\n  colour: blue\n",
		"bad port":             "server:\n  http_port: 0\nprovider:\n  api_key: k\n",
		"bad timeout":          "provider:\n  api_key: k\n  timeout: soon\n",
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadAndValidate(writeConfig(t, body), "")
			assert.ErrorContains(t, err, "validation failed")
		})
	}
}

func TestLoadAndValidate_InvalidLatencyEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("ELEVENLABS_API_KEY", "k")
	t.Setenv("ELEVENLABS_OPTIMIZE_STREAMING_LATENCY", "7")

	_, err := LoadAndValidate("", "")
	assert.ErrorIs(t, err, ErrInvalidLatency)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("", env.Development)
	require.NoError(t, err)
	assert.Equal(t, ModeReload, m)

	m, err = ParseMode("", env.Production)
	require.NoError(t, err)
	assert.Equal(t, ModeStatic, m)

	m, err = ParseMode("WATCH", env.Production)
	require.NoError(t, err)
	assert.Equal(t, ModeWatch, m)

	_, err = ParseMode("sometimes", env.Production)
	assert.ErrorIs(t, err, ErrInvalidMode)
}

func TestNewSource_StaticKeepsFirstRead(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "provider:\n  api_key: first\n")

	src, err := NewSource(ModeStatic, path, "")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("provider:\n  api_key: second\n"), 0o644))

	cfg, err := src.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, "first", cfg.Provider.APIKey)
}

func TestNewSource_ReloadReadsEveryAccess(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "provider:\n  api_key: first\n")

	src, err := NewSource(ModeReload, path, "")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("provider:\n  api_key: second\n"), 0o644))

	cfg, err := src.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, "second", cfg.Provider.APIKey)

	require.NoError(t, os.WriteFile(path, []byte("provider:\n  api_key: \"\"\n"), 0o644))

	_, err = src.Snapshot()
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestNewSource_FailsFast(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "provider:\n  base_url: http://localhost\n")

	for _, mode := range []Mode{ModeStatic, ModeReload, ModeWatch} {
		_, err := NewSource(mode, path, "")
		assert.ErrorIs(t, err, ErrMissingAPIKey, mode)
	}

	_, err := NewSource(ModeWatch, "", "")
	assert.ErrorIs(t, err, ErrNoConfigFile)
}

func TestWatcher_PicksUpEdits(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "provider:\n  api_key: first\n")

	reloaded := make(chan *Config, 1)
	w, err := NewWatcher(path, "", func(cfg *Config, err error) {
		if err == nil {
			select {
			case reloaded <- cfg:
			default:
			}
		}
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	cfg, err := w.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, "first", cfg.Provider.APIKey)

	require.NoError(t, os.WriteFile(path, []byte("provider:\n  api_key: second\n"), 0o644))

	select {
	case got := <-reloaded:
		assert.Equal(t, "second", got.Provider.APIKey)
	case <-time.After(5 * time.Second):
		t.Fatal("config was not reloaded")
	}

	cfg, err = w.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, "second", cfg.Provider.APIKey)
	assert.GreaterOrEqual(t, w.ReloadCount(), uint32(1))
}

func TestWatcher_NoReloadAfterClose(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "provider:\n  api_key: first\n")

	var calls atomic.Int32
	w, err := NewWatcher(path, "", func(*Config, error) { calls.Add(1) })
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("provider:\n  api_key: second\n"), 0o644))
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, w.Close())

	time.Sleep(debounce + 300*time.Millisecond)

	assert.Zero(t, calls.Load())
	assert.Zero(t, w.ReloadCount())

	cfg, err := w.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, "first", cfg.Provider.APIKey)
}

func TestLoadAndValidate_ExampleFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("ELEVENLABS_API_KEY", "sk-example")

	cfg, err := LoadAndValidate(filepath.Join("..", "..", "voicestudio.example.yaml"), "")
	require.NoError(t, err)

	assert.Equal(t, "sk-example", cfg.Provider.APIKey)
	assert.Equal(t, catalog.DefaultModel, cfg.Provider.DefaultModelID)
	assert.Equal(t, 60*time.Second, cfg.Provider.Timeout)
	assert.Equal(t, "info", cfg.Logging.Level)
}
