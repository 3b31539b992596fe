package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/htx/internal/presentation"
)

var validateCmd = &cobra.Command{
	Use:   "validate FILE",
	Short: "Check task markup without rendering it",
	Long: `Report parse errors, unknown component tags and duplicate names as JSON.
Exits non-zero when the markup is invalid.

Examples:
  htx validate task.htx
  htx validate ./review | jq '.issues'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, src, err := readMarkup(args[0])
		if err != nil {
			return err
		}
		engine, _, _, err := newEngine()
		if err != nil {
			return err
		}

		report := engine.Validate(cmd.Context(), src)
		if err := presentation.NewFormatter(cmd.OutOrStdout()).FormatReport(report); err != nil {
			return err
		}
		if !report.Valid {
			return fmt.Errorf("%s: markup is invalid", path)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
