package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekisa-team/voicestudio/internal/envvar"
)

func TestDotEnvFeedsFlagDefaults(t *testing.T) {
	t.Setenv(envvar.VoicestudioConfigMode, "")
	require.NoError(t, os.Unsetenv(envvar.VoicestudioConfigMode))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("VOICESTUDIO_CONFIG_MODE=watch\n"), 0o600))

	loadDotEnv(path)

	opts, err := parseFlags(nil)
	require.NoError(t, err)
	assert.Equal(t, "watch", opts.mode)
}

func TestParseFlags_FlagOverridesEnv(t *testing.T) {
	t.Setenv(envvar.VoicestudioConfigMode, "watch")

	opts, err := parseFlags([]string{"-config-mode", "static", "-config", "/tmp/vs.yaml"})
	require.NoError(t, err)
	assert.Equal(t, "static", opts.mode)
	assert.Equal(t, "/tmp/vs.yaml", opts.configPath)
	assert.Empty(t, opts.schemaPath)
}

func TestLoadDotEnv_MissingFileIsIgnored(t *testing.T) {
	assert.NotPanics(t, func() { loadDotEnv(filepath.Join(t.TempDir(), "missing.env")) })
}
