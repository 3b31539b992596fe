// Package config provides configuration types and defaults for htx.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zjrosen/htx/internal/log"
)

// Config holds all configuration options for htx.
type Config struct {
	Render  RenderConfig    `mapstructure:"render"`
	Export  ExportConfig    `mapstructure:"export"`
	Storage StorageConfig   `mapstructure:"storage"`
	Watch   WatchConfig     `mapstructure:"watch"`
	Tracing TracingConfig   `mapstructure:"tracing"`
	Log     LogConfig       `mapstructure:"log"`
	Flags   map[string]bool `mapstructure:"flags"`
}

// RenderConfig controls how a rendered task is displayed.
type RenderConfig struct {
	Width    int           `mapstructure:"width"`     // terminal columns; 0 = detect
	CacheTTL time.Duration `mapstructure:"cache_ttl"` // parsed markup cache lifetime
}

// ExportConfig controls the export snapshot stream.
type ExportConfig struct {
	// Debounce is the window in which control changes are coalesced into a
	// single snapshot.
	Debounce time.Duration `mapstructure:"debounce"`
}

// StorageConfig holds answer persistence settings.
type StorageConfig struct {
	// Path is the SQLite database file.
	// Default: ~/.config/htx/answers.db
	Path string `mapstructure:"path"`
}

// WatchConfig holds markup file watching settings.
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

// TracingConfig holds distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether tracing is active.
	// Default: false
	Enabled bool `mapstructure:"enabled"`

	// Exporter selects the trace export backend.
	// Options: "none", "file", "stdout", "otlp"
	// Default: "file"
	Exporter string `mapstructure:"exporter"`

	// FilePath is the output file for "file" exporter.
	// Default: ~/.config/htx/traces/traces.jsonl
	FilePath string `mapstructure:"file_path"`

	// OTLPEndpoint is the collector endpoint for "otlp" exporter.
	// Default: "localhost:4317"
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// SampleRate controls trace sampling (0.0 to 1.0).
	// Default: 1.0
	SampleRate float64 `mapstructure:"sample_rate"`
}

// LogConfig holds debug log settings.
type LogConfig struct {
	// Path enables the debug log when set.
	Path string `mapstructure:"path"`
	// Level is the minimum level written: debug, info, warn or error.
	Level string `mapstructure:"level"`
}

// DefaultTracesFilePath returns ~/.config/htx/traces/traces.jsonl, or an
// empty string if the home directory is unavailable.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "htx", "traces", "traces.jsonl")
}

// DefaultStoragePath returns ~/.config/htx/answers.db, or an empty string if
// the home directory is unavailable.
func DefaultStoragePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "htx", "answers.db")
}

// Validate checks the whole configuration.
func Validate(c Config) error {
	if err := ValidateRender(c.Render); err != nil {
		return err
	}
	if c.Export.Debounce < 0 {
		return fmt.Errorf("export.debounce must not be negative, got %v", c.Export.Debounce)
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative, got %v", c.Watch.Debounce)
	}
	if err := ValidateLog(c.Log); err != nil {
		return err
	}
	return ValidateTracing(c.Tracing)
}

// ValidateRender checks render configuration for errors.
func ValidateRender(r RenderConfig) error {
	if r.Width != 0 && r.Width < 20 {
		return fmt.Errorf("render.width must be 0 (detect) or at least 20, got %d", r.Width)
	}
	if r.CacheTTL < 0 {
		return fmt.Errorf("render.cache_ttl must not be negative, got %v", r.CacheTTL)
	}
	return nil
}

// ValidateLog checks log configuration for errors.
func ValidateLog(l LogConfig) error {
	switch l.Level {
	case "", "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("log.level must be \"debug\", \"info\", \"warn\", or \"error\", got %q", l.Level)
	}
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(tracing TracingConfig) error {
	if tracing.SampleRate < 0.0 || tracing.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tracing.SampleRate)
	}

	if tracing.Exporter != "" {
		switch tracing.Exporter {
		case "none", "file", "stdout", "otlp":
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tracing.Exporter)
		}
	}

	// Path requirements only matter when tracing is on
	if tracing.Enabled {
		if tracing.Exporter == "file" && tracing.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if tracing.Exporter == "otlp" && tracing.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}

	return nil
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Render: RenderConfig{
			Width:    0,
			CacheTTL: 10 * time.Minute,
		},
		Export: ExportConfig{
			Debounce: 300 * time.Millisecond,
		},
		Storage: StorageConfig{
			Path: DefaultStoragePath(),
		},
		Watch: WatchConfig{
			Debounce: 100 * time.Millisecond,
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "file",
			FilePath:     DefaultTracesFilePath(),
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
		Log: LogConfig{
			Level: "debug",
		},
		Flags: map[string]bool{},
	}
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# htx configuration

# Rendering
render:
  width: 0          # terminal columns for static renders; 0 detects the terminal
  cache_ttl: 10m    # how long parsed markup stays cached

# Export snapshot stream (autosave)
export:
  debounce: 300ms   # control changes inside this window produce one snapshot

# Answer storage
# storage:
#   path: ~/.config/htx/answers.db

# Markup file watching (hot-reload flag)
watch:
  debounce: 100ms

# Feature flags
# flags:
#   autosave: true     # persist answers while running 'htx run'
#   hot-reload: true   # re-render when the markup file changes

# Debug log (also enabled with --debug or HTX_DEBUG=1)
# log:
#   path: htx-debug.log
#   level: debug       # debug, info, warn, error

# Distributed tracing
# tracing:
#   enabled: false                 # Enable/disable tracing (default: false)
#   exporter: file                 # Export backend: none, file, stdout, otlp (default: file)
#   file_path: ~/.config/htx/traces/traces.jsonl
#   otlp_endpoint: localhost:4317  # OTLP collector endpoint (for otlp exporter)
#   sample_rate: 1.0               # Trace sampling rate 0.0-1.0 (default: 1.0)
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
