package cmd

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/zjrosen/htx/internal/config"
	"github.com/zjrosen/htx/internal/flags"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Edit the htx config file",
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set a config value",
	Long: `Set a dotted config key in the active config file, keeping its comments.

Examples:
  htx config set render.width 100
  htx config set export.debounce 500ms`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath()
		if err := config.SetValue(path, args[0], args[1]); err != nil {
			return err
		}
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s = %s (%s)\n", args[0], args[1], path)
		return err
	},
}

var configFlagCmd = &cobra.Command{
	Use:   "flag NAME on|off",
	Short: "Turn a feature flag on or off",
	Long: `Turn a feature flag on or off in the active config file.

Known flags: autosave, hot-reload.

Examples:
  htx config flag autosave on`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if !slices.Contains(flags.Known(), name) {
			return fmt.Errorf("unknown flag %q (known: %v)", name, flags.Known())
		}
		enabled, err := parseSwitch(args[1])
		if err != nil {
			return err
		}
		path := configPath()
		if err := config.SetFlag(path, name, enabled); err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "flags.%s = %t (%s)\n", name, enabled, path)
		return err
	},
}

func parseSwitch(s string) (bool, error) {
	switch s {
	case "on":
		return true, nil
	case "off":
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("expected on or off, got %q", s)
	}
	return b, nil
}

func init() {
	configCmd.AddCommand(configSetCmd, configFlagCmd)
	rootCmd.AddCommand(configCmd)
}
