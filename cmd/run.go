package cmd

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/zjrosen/htx/internal/answers"
	"github.com/zjrosen/htx/internal/app"
	"github.com/zjrosen/htx/internal/attr"
	"github.com/zjrosen/htx/internal/flags"
	"github.com/zjrosen/htx/internal/log"
	"github.com/zjrosen/htx/internal/paths"
	"github.com/zjrosen/htx/internal/watcher"
	"github.com/zjrosen/htx/internal/widgets"
)

var (
	runData      string
	runTask      string
	runAutosave  bool
	runHotReload bool
)

var runCmd = &cobra.Command{
	Use:   "run FILE",
	Short: "Answer a task interactively",
	Long: `Open task markup in an interactive terminal view and collect answers.

Answers saved earlier for the same task id are restored on start. With the
autosave flag on, answers are written to the answer store while you work;
with hot-reload on, the view re-renders when the markup file changes and
named controls keep their answers.

Examples:
  htx run task.htx --data item.yaml
  htx run ./review --task review-42 --autosave --hot-reload`,
	Args: cobra.ExactArgs(1),
	RunE: runTaskApp,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runData, "data", "", "task data file (YAML or JSON)")
	runCmd.Flags().StringVar(&runTask, "task", "", "task id for saved answers (default: markup file name)")
	runCmd.Flags().BoolVar(&runAutosave, "autosave", false, "enable the autosave flag for this run")
	runCmd.Flags().BoolVar(&runHotReload, "hot-reload", false, "enable the hot-reload flag for this run")
}

func runTaskApp(cmd *cobra.Command, args []string) error {
	path, _, err := readMarkup(args[0])
	if err != nil {
		return err
	}
	data, err := readData(runData)
	if err != nil {
		return err
	}

	taskID := runTask
	if taskID == "" {
		taskID = paths.TaskID(path)
	}

	features := flags.New(cfg.Flags)
	if runAutosave {
		features = features.With(flags.FlagAutosave, true)
	}
	if runHotReload {
		features = features.With(flags.FlagHotReload, true)
	}

	store, err := openAnswers()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	priors, err := loadPriors(cmd, store, taskID)
	if err != nil {
		return err
	}

	engine, _, kit, err := newEngine()
	if err != nil {
		return err
	}

	var changes <-chan struct{}
	if features.Enabled(flags.FlagHotReload) {
		w, err := watcher.New(watcher.Config{Paths: []string{path}, DebounceDur: cfg.Watch.Debounce})
		if err != nil {
			return fmt.Errorf("creating watcher: %w", err)
		}
		ch, err := w.Start()
		if err != nil {
			// The task still works without hot reload.
			_ = w.Stop()
			log.Warn(log.CatWatcher, "watcher failed to start", "error", err)
		} else {
			changes = ch
			defer func() { _ = w.Stop() }()
		}
	}

	model, err := app.New(app.Config{
		Engine: engine,
		Kit:    kit,
		Source: func() (string, error) {
			src, err := os.ReadFile(path) //nolint:gosec // G304: user-supplied markup path
			return string(src), err
		},
		Data:    data,
		Priors:  priors,
		TaskID:  taskID,
		Saver:   store,
		Flags:   features,
		Changes: changes,
		Width:   cfg.Render.Width,
		Debug:   logCleanup != nil,
	})
	if err != nil {
		return err
	}

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	final, err := p.Run()

	// The program hands back the last model; its tree may have been
	// replaced by a reload.
	if fm, ok := final.(app.Model); ok {
		model = fm
	}
	if closeErr := model.Close(); closeErr != nil && err == nil {
		err = closeErr
	}

	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// loadPriors restores the answers saved for taskID. A task that was never
// saved starts empty.
func loadPriors(cmd *cobra.Command, store *answers.Store, taskID string) (map[string]attr.Props, error) {
	records, err := store.Load(cmd.Context(), taskID)
	if errors.Is(err, answers.ErrNoTask) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading saved answers: %w", err)
	}
	log.Info(log.CatDB, "restoring saved answers", "task", taskID, "records", len(records))
	return widgets.OverlayFromRecords(records), nil
}
