package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/htx/internal/cachemanager"
	"github.com/zjrosen/htx/internal/config"
	"github.com/zjrosen/htx/internal/log"
	"github.com/zjrosen/htx/internal/markup"
	"github.com/zjrosen/htx/internal/paths"
	"github.com/zjrosen/htx/internal/registry"
	"github.com/zjrosen/htx/internal/tracing"
	"github.com/zjrosen/htx/internal/widgets"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in input fields.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

var (
	version   = "dev"
	cfgFile   string
	debugFlag bool
	cfg       config.Config

	logCleanup func()
	provider   *tracing.Provider
)

var rootCmd = &cobra.Command{
	Use:   "htx",
	Short: "Render and answer annotation task markup in the terminal",
	Long: `htx interprets annotation task markup (View, Header, Text, HyperText,
Choices, Choice, TextArea) against task data, renders it in the terminal and
collects the answers as export records.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(*cobra.Command, []string) { teardown() },
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .htx/config.yaml, then ~/.config/htx/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false,
		"write a debug log (also HTX_DEBUG=1; path from HTX_LOG or log.path)")
}

func initConfig() {
	viper.Reset()
	defaults := config.Defaults()
	viper.SetDefault("render.width", defaults.Render.Width)
	viper.SetDefault("render.cache_ttl", defaults.Render.CacheTTL)
	viper.SetDefault("export.debounce", defaults.Export.Debounce)
	viper.SetDefault("storage.path", defaults.Storage.Path)
	viper.SetDefault("watch.debounce", defaults.Watch.Debounce)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.file_path", defaults.Tracing.FilePath)
	viper.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)
	viper.SetDefault("log.level", defaults.Log.Level)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .htx/config.yaml (nearest project directory)
		// 2. ~/.config/htx/config.yaml (user config)
		cwd, _ := os.Getwd()
		projectConfig := ""
		if dir := paths.ResolveProjectDir(cwd); dir != "" {
			projectConfig = filepath.Join(dir, "config.yaml")
		}
		if _, err := os.Stat(projectConfig); projectConfig != "" && err == nil {
			viper.SetConfigFile(projectConfig)
		} else {
			viper.AddConfigPath(paths.UserConfigDir())
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// No config file found anywhere - create the user default
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			defaultPath := filepath.Join(paths.UserConfigDir(), "config.yaml")
			if writeErr := config.WriteDefaultConfig(defaultPath); writeErr == nil {
				viper.SetConfigFile(defaultPath)
				_ = viper.ReadInConfig()
			}
			// If write fails, just continue with defaults (no config file)
		}
	}

	cfg = config.Defaults()
	_ = viper.Unmarshal(&cfg)
}

// setup starts logging and tracing and validates the loaded configuration.
func setup(_ *cobra.Command, _ []string) error {
	if debugFlag || os.Getenv("HTX_DEBUG") != "" {
		logPath := os.Getenv("HTX_LOG")
		if logPath == "" {
			logPath = cfg.Log.Path
		}
		if logPath == "" {
			logPath = "htx-debug.log"
		}
		cleanup, err := log.InitWithTeaLog(logPath, "htx")
		if err != nil {
			return fmt.Errorf("initializing logging: %w", err)
		}
		logCleanup = cleanup
		log.SetMinLevel(log.ParseLevel(cfg.Log.Level))
		log.Info(log.CatConfig, "htx starting", "version", version, "config", viper.ConfigFileUsed())
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	p, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	provider = p
	return nil
}

func teardown() {
	if provider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := provider.Shutdown(ctx); err != nil {
			log.ErrorErr(log.CatConfig, "tracing shutdown failed", err)
		}
		cancel()
		provider = nil
	}
	if logCleanup != nil {
		logCleanup()
		logCleanup = nil
	}
}

// newEngine builds a registry with every widget installed and an engine
// reading through the parse cache.
func newEngine() (*markup.Engine, *registry.Registry, *widgets.Kit, error) {
	reg := registry.New(registry.WithDebounce(cfg.Export.Debounce))
	kit, err := widgets.Install(reg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("installing widgets: %w", err)
	}

	opts := []markup.Option{
		markup.WithParseCache(cachemanager.NewInMemoryCacheManager[[]*markup.Node](
			"markup-parse", cfg.Render.CacheTTL, 2*cfg.Render.CacheTTL)),
	}
	if provider != nil {
		opts = append(opts, markup.WithTracer(provider.Tracer(tracing.ScopeMarkup)))
	}
	return markup.NewEngine(reg, opts...), reg, kit, nil
}

// configPath is where config edits are written.
func configPath() string {
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	return filepath.Join(paths.UserConfigDir(), "config.yaml")
}

// Execute runs the root command
func Execute() error {
	defer teardown()
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
