package presentation

import (
	"encoding/json"
	"io"

	"github.com/zjrosen/htx/internal/markup"
	"github.com/zjrosen/htx/internal/registry"
)

// Formatter handles output formatting
type Formatter struct {
	writer io.Writer
}

// NewFormatter creates a new formatter
func NewFormatter(writer io.Writer) *Formatter {
	return &Formatter{
		writer: writer,
	}
}

// FormatComponents formats a list of components as JSON
func (f *Formatter) FormatComponents(components []ComponentDTO) error {
	return f.encode(components)
}

// FormatReport formats a validation report as JSON
func (f *Formatter) FormatReport(report markup.Report) error {
	return f.encode(report)
}

// FormatRecords formats an export snapshot as JSON, ordered for stable diffs
func (f *Formatter) FormatRecords(records map[string]registry.ExportRecord) error {
	return f.encode(registry.SortedRecords(records))
}

// FormatRecordList formats records in the order given
func (f *Formatter) FormatRecordList(records []registry.ExportRecord) error {
	if records == nil {
		records = []registry.ExportRecord{}
	}
	return f.encode(records)
}

// FormatTasks formats saved task summaries as JSON
func (f *Formatter) FormatTasks(tasks []TaskDTO) error {
	return f.encode(tasks)
}

// FormatRender formats a rendered tree with its export snapshot as JSON
func (f *Formatter) FormatRender(result RenderDTO) error {
	return f.encode(result)
}

func (f *Formatter) encode(v any) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
