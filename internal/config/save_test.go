package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func loadConfig(t *testing.T, path string) Config {
	t.Helper()
	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())
	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))
	return cfg
}

func TestSetValue_CreatesNewFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	require.NoError(t, SetValue(configPath, "export.debounce", "1s"))

	cfg := loadConfig(t, configPath)
	require.Equal(t, time.Second, cfg.Export.Debounce)
}

func TestSetValue_PreservesComments(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, WriteDefaultConfig(configPath))

	require.NoError(t, SetValue(configPath, "render.width", "120"))

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	require.Contains(t, string(data), "# Rendering")
	require.Contains(t, string(data), "# how long parsed markup stays cached")

	cfg := loadConfig(t, configPath)
	require.Equal(t, 120, cfg.Render.Width)
	require.Equal(t, 300*time.Millisecond, cfg.Export.Debounce)
}

func TestSetValue_NewSection(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, WriteDefaultConfig(configPath))

	require.NoError(t, SetValue(configPath, "tracing.exporter", "stdout"))
	require.NoError(t, SetValue(configPath, "tracing.enabled", "true"))

	cfg := loadConfig(t, configPath)
	require.True(t, cfg.Tracing.Enabled)
	require.Equal(t, "stdout", cfg.Tracing.Exporter)
}

func TestSetValue_Errors(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, WriteDefaultConfig(configPath))

	require.ErrorContains(t, SetValue(configPath, "render", "x"), "is a section")
	require.ErrorContains(t, SetValue(configPath, "render.width.deep", "x"), "not a section")
	require.ErrorContains(t, SetValue(configPath, "render..width", "x"), "invalid config key")
}

func TestSetFlag(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, WriteDefaultConfig(configPath))

	require.NoError(t, SetFlag(configPath, "autosave", true))
	require.NoError(t, SetFlag(configPath, "hot-reload", false))

	cfg := loadConfig(t, configPath)
	require.Equal(t, map[string]bool{"autosave": true, "hot-reload": false}, cfg.Flags)

	require.NoError(t, SetFlag(configPath, "autosave", false))
	cfg = loadConfig(t, configPath)
	require.False(t, cfg.Flags["autosave"])
}
