package cmd

import (
	"github.com/spf13/cobra"

	"github.com/zjrosen/htx/internal/presentation"
)

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List the registered markup components",
	Long: `List every registered markup component and its capabilities as JSON.

Examples:
  htx tags
  htx tags | jq '.[] | select(.is_control) | .tag'`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, reg, _, err := newEngine()
		if err != nil {
			return err
		}
		return presentation.NewFormatter(cmd.OutOrStdout()).FormatComponents(presentation.FromRegistry(reg))
	},
}

func init() {
	rootCmd.AddCommand(tagsCmd)
}
