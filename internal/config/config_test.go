package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestDefaults_AreValid(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, Validate(cfg))
	require.Equal(t, 300*time.Millisecond, cfg.Export.Debounce)
	require.Equal(t, "file", cfg.Tracing.Exporter)
	require.False(t, cfg.Tracing.Enabled)
}

func TestValidateRender(t *testing.T) {
	require.NoError(t, ValidateRender(RenderConfig{Width: 0}))
	require.NoError(t, ValidateRender(RenderConfig{Width: 80}))

	err := ValidateRender(RenderConfig{Width: 5})
	require.Error(t, err)
	require.Contains(t, err.Error(), "render.width")

	require.Error(t, ValidateRender(RenderConfig{CacheTTL: -time.Second}))
}

func TestValidate_NegativeDebounce(t *testing.T) {
	cfg := Defaults()
	cfg.Export.Debounce = -time.Millisecond
	require.ErrorContains(t, Validate(cfg), "export.debounce")

	cfg = Defaults()
	cfg.Watch.Debounce = -time.Millisecond
	require.ErrorContains(t, Validate(cfg), "watch.debounce")
}

func TestValidateLog(t *testing.T) {
	for _, level := range []string{"", "debug", "info", "warn", "error"} {
		require.NoError(t, ValidateLog(LogConfig{Level: level}), level)
	}
	require.ErrorContains(t, ValidateLog(LogConfig{Level: "trace"}), "log.level")
}

func TestValidateTracing(t *testing.T) {
	tests := []struct {
		name    string
		tracing TracingConfig
		wantErr string
	}{
		{name: "defaults", tracing: Defaults().Tracing},
		{name: "disabled without path", tracing: TracingConfig{Exporter: "file"}},
		{name: "sample rate too high", tracing: TracingConfig{SampleRate: 1.5}, wantErr: "sample_rate"},
		{name: "sample rate negative", tracing: TracingConfig{SampleRate: -0.1}, wantErr: "sample_rate"},
		{name: "unknown exporter", tracing: TracingConfig{Exporter: "jaeger"}, wantErr: "tracing.exporter"},
		{name: "file without path", tracing: TracingConfig{Enabled: true, Exporter: "file"}, wantErr: "file_path"},
		{name: "otlp without endpoint", tracing: TracingConfig{Enabled: true, Exporter: "otlp"}, wantErr: "otlp_endpoint"},
		{name: "stdout", tracing: TracingConfig{Enabled: true, Exporter: "stdout", SampleRate: 0.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTracing(tt.tracing)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestWriteDefaultConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "config.yaml")

	require.NoError(t, WriteDefaultConfig(configPath))

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	require.Equal(t, DefaultConfigTemplate(), string(data))
}

func TestDefaultConfigTemplate_LoadsWithViper(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, WriteDefaultConfig(configPath))

	v := viper.New()
	v.SetConfigFile(configPath)
	require.NoError(t, v.ReadInConfig())

	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))
	require.Equal(t, 300*time.Millisecond, cfg.Export.Debounce)
	require.Equal(t, 100*time.Millisecond, cfg.Watch.Debounce)
	require.Equal(t, 10*time.Minute, cfg.Render.CacheTTL)
	require.NoError(t, Validate(cfg))
}
