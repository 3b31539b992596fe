package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/htx/internal/answers"
	"github.com/zjrosen/htx/internal/presentation"
	"github.com/zjrosen/htx/internal/tracing"
)

var answersCmd = &cobra.Command{
	Use:   "answers",
	Short: "Inspect saved answers",
}

var answersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks with saved answers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := openAnswers()
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		tasks, err := store.Tasks(cmd.Context())
		if err != nil {
			return err
		}
		return presentation.NewFormatter(cmd.OutOrStdout()).FormatTasks(presentation.FromTasks(tasks))
	},
}

var answersShowCmd = &cobra.Command{
	Use:   "show TASK",
	Short: "Print the saved export records of a task",
	Long: `Print the saved export records of a task as JSON. The output can be
passed back to 'htx render --prior'.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openAnswers()
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		records, err := store.Load(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return presentation.NewFormatter(cmd.OutOrStdout()).FormatRecordList(records)
	},
}

var answersDeleteCmd = &cobra.Command{
	Use:   "delete TASK",
	Short: "Delete the saved answers of a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openAnswers()
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		deleted, err := store.Delete(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if !deleted {
			return fmt.Errorf("%w: %s", answers.ErrNoTask, args[0])
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
		return err
	},
}

func openAnswers() (*answers.Store, error) {
	var opts []answers.Option
	if provider != nil {
		opts = append(opts, answers.WithTracer(provider.Tracer(tracing.ScopeAnswers)))
	}
	store, err := answers.Open(cfg.Storage.Path, opts...)
	if err != nil {
		return nil, fmt.Errorf("opening answer store: %w", err)
	}
	return store, nil
}

func init() {
	answersCmd.AddCommand(answersListCmd, answersShowCmd, answersDeleteCmd)
	rootCmd.AddCommand(answersCmd)
}
