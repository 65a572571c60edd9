package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"GEMINI_API_KEY", "API_KEY", "SCENEKIT_GEMINI_API_KEY", "SCENEKIT_SERVER_PORT", "SCENEKIT_LOG_LEVEL"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "gemini-2.5-flash-image-preview", cfg.Gemini.Model)
	assert.Equal(t, "./data/scenekit.db", cfg.History.DatabasePath)
	assert.Equal(t, "nano-banana-history", cfg.History.Key)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Address())
	assert.Equal(t, int64(20<<20), cfg.Server.MaxUploadBytes())
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.Gemini.APIKey)
	assert.Error(t, cfg.Validate())
}

func TestLoad_FileAndEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "scenekit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
gemini:
  model: gemini-custom
server:
  port: 9000
log:
  level: debug
`), 0o644))

	t.Setenv("SCENEKIT_SERVER_PORT", "9100")
	t.Setenv("GEMINI_API_KEY", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "gemini-custom", cfg.Gemini.Model)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "from-env", cfg.Gemini.APIKey)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_APIKeyAlias(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	t.Setenv("API_KEY", "legacy")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "legacy", cfg.Gemini.APIKey)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
