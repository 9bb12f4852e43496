package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points HOME at a temp dir so ~/.vantage/config.json never leaks in
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("VANTAGE_API_URL", "")
	t.Setenv("VANTAGE_LOG_LEVEL", "")
	return home
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "http://localhost:8000", cfg.API.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.API.Timeout())
	assert.NotNil(t, cfg.Environments)

	assert.Equal(t, "session.json", filepath.Base(cfg.Session.Path))
	assert.Equal(t, "vantage.log", filepath.Base(cfg.Log.File))
	assert.Equal(t, "info", cfg.Log.Level)

	assert.Equal(t, 3*time.Second, cfg.UI.ToastDuration())
	assert.Equal(t, 6*time.Second, cfg.UI.ErrorToastDuration())
	assert.False(t, cfg.UI.Inline)

	assert.Equal(t, 1500*time.Millisecond, cfg.Invite.RedirectDelay())
	assert.Equal(t, 60, cfg.Network.CheckInterval)
}

func TestLoadConfigFromProjectFile(t *testing.T) {
	isolate(t)
	tmpDir := t.TempDir()

	configContent := `{
  "version": 1,
  "api": {
    "baseUrl": "https://api.example.com/"
  },
  "environments": {
    "staging": "https://staging.example.com"
  },
  "invite": {
    "redirectDelayMs": 500
  }
}`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".vantage.json"), []byte(configContent), 0644))

	cfg, err := LoadConfig(tmpDir)
	require.NoError(t, err)

	// Trailing slash is trimmed
	assert.Equal(t, "https://api.example.com", cfg.API.BaseURL)
	assert.Equal(t, "https://staging.example.com", cfg.Environments["staging"])
	assert.Equal(t, 500, cfg.Invite.RedirectDelayMs)

	// Defaults are filled in
	assert.Equal(t, 15000, cfg.API.TimeoutMs)
	assert.Equal(t, 3000, cfg.UI.ToastMs)
}

func TestLoadConfigFromHomeDir(t *testing.T) {
	home := isolate(t)
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".vantage"), 0755))
	require.NoError(t, os.WriteFile(
		filepath.Join(home, ".vantage", "config.json"),
		[]byte(`{"version": 1, "log": {"level": "debug"}}`),
		0644,
	))

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfigProjectFileWins(t *testing.T) {
	home := isolate(t)
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".vantage"), 0755))
	require.NoError(t, os.WriteFile(
		filepath.Join(home, ".vantage", "config.json"),
		[]byte(`{"version": 1, "api": {"baseUrl": "https://home.example.com"}}`),
		0644,
	))

	projectDir := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(projectDir, ".vantage.json"),
		[]byte(`{"version": 1, "api": {"baseUrl": "https://project.example.com"}}`),
		0644,
	))

	cfg, err := LoadConfig(projectDir)
	require.NoError(t, err)
	assert.Equal(t, "https://project.example.com", cfg.API.BaseURL)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("VANTAGE_API_URL", "https://env.example.com/")
	t.Setenv("VANTAGE_LOG_LEVEL", "warn")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "https://env.example.com", cfg.API.BaseURL)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadConfigNoFiles(t *testing.T) {
	isolate(t)

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().API, cfg.API)
}

func TestLoadConfigInvalidJSON(t *testing.T) {
	isolate(t)
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".vantage.json"), []byte(`{invalid`), 0644))

	_, err := LoadConfig(tmpDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ".vantage.json")
}

func TestSaveAndLoadFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	cfg := DefaultConfig()
	cfg.API.BaseURL = "https://saved.example.com"
	cfg.Environments["prod"] = "https://prod.example.com"
	require.NoError(t, SaveConfig(cfg, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"version": 1`)

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "https://saved.example.com", loaded.API.BaseURL)
	assert.Equal(t, "https://prod.example.com", loaded.Environments["prod"])
}

func TestMergeWithDefaultsEmptyConfig(t *testing.T) {
	cfg := MergeWithDefaults(&Config{})
	defaults := DefaultConfig()

	assert.Equal(t, defaults.API, cfg.API)
	assert.Equal(t, defaults.UI.ToastMs, cfg.UI.ToastMs)
	assert.Equal(t, defaults.Invite, cfg.Invite)
	assert.NotNil(t, cfg.Environments)
}

func TestUseEnvironment(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Environments["staging"] = "https://staging.example.com"

	require.NoError(t, cfg.UseEnvironment("staging"))
	assert.Equal(t, "https://staging.example.com", cfg.API.BaseURL)

	err := cfg.UseEnvironment("nope")
	assert.Error(t, err)
}
