package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/htx/internal/presentation"
	"github.com/zjrosen/htx/internal/tracing"
	"github.com/zjrosen/htx/internal/ui/taskview"
)

var (
	renderData   string
	renderPrior  string
	renderWidth  int
	renderJSON   bool
	renderExport bool
)

var renderCmd = &cobra.Command{
	Use:   "render FILE",
	Short: "Render task markup once and print it",
	Long: `Render task markup against task data and print the result.

FILE is a markup file, or a directory holding task.htx or a single *.htx file.
Prior answers (the JSON written by --json or 'htx answers show') are restored
into the controls before printing.

Examples:
  htx render task.htx --data item.yaml
  htx render task.htx --data item.json --prior answers.json --export
  htx render task.htx --json | jq '.records'`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringVar(&renderData, "data", "", "task data file (YAML or JSON)")
	renderCmd.Flags().StringVar(&renderPrior, "prior", "", "prior answers file (JSON export records)")
	renderCmd.Flags().IntVarP(&renderWidth, "width", "w", 0, "wrap width in columns (default: render.width, then terminal)")
	renderCmd.Flags().BoolVar(&renderJSON, "json", false, "print the element tree and export records as JSON")
	renderCmd.Flags().BoolVar(&renderExport, "export", false, "print the export records after the rendered task")
}

func runRender(cmd *cobra.Command, args []string) error {
	path, src, err := readMarkup(args[0])
	if err != nil {
		return err
	}
	data, err := readData(renderData)
	if err != nil {
		return err
	}
	priors, err := readPriors(renderPrior)
	if err != nil {
		return err
	}

	engine, reg, kit, err := newEngine()
	if err != nil {
		return err
	}

	ctx, span := otel.Tracer(tracing.ScopeCmd).Start(cmd.Context(), "htx.render",
		trace.WithAttributes(attribute.String(tracing.AttrMarkupPath, path)))
	defer span.End()

	tree, err := engine.Render(ctx, src, data, priors)
	if err != nil {
		span.RecordError(err)
		return err
	}
	defer tree.Unmount()

	_, exportSpan := otel.Tracer(tracing.ScopeCmd).Start(ctx, tracing.SpanExport)
	records := reg.InstancesValues()
	exportSpan.SetAttributes(attribute.Int(tracing.AttrRecordCount, len(records)))
	exportSpan.End()

	out := cmd.OutOrStdout()
	formatter := presentation.NewFormatter(out)
	if renderJSON {
		return formatter.FormatRender(presentation.FromRender(tree, records))
	}

	renderer := taskview.New(kit, taskview.WithWidth(terminalWidth(renderWidth)))
	if _, err := fmt.Fprintln(out, renderer.Render(tree)); err != nil {
		return err
	}
	if renderExport {
		if _, err := fmt.Fprintln(out); err != nil {
			return err
		}
		return formatter.FormatRecords(records)
	}
	return nil
}
