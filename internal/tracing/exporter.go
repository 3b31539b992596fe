package tracing

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/zjrosen/htx/internal/log"
)

// scopePrefix is shared by every htx instrumentation scope.
const scopePrefix = "github.com/zjrosen/htx/"

// FileExporter appends htx spans to a JSONL trace log, one span per line.
// Spans from other instrumentation scopes are skipped.
type FileExporter struct {
	mu   sync.Mutex
	file *os.File
}

// NewFileExporter opens path for appending, creating it and its parent
// directories when missing.
func NewFileExporter(path string) (*FileExporter, error) {
	path = filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("create trace directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600) // #nosec G304 -- configured trace path
	if err != nil {
		return nil, fmt.Errorf("open trace file: %w", err)
	}
	return &FileExporter{file: file}, nil
}

// SpanRecord is one line of the trace log.
type SpanRecord struct {
	Time       time.Time      `json:"time"`
	TraceID    string         `json:"trace_id"`
	SpanID     string         `json:"span_id"`
	ParentID   string         `json:"parent_id,omitempty"`
	Name       string         `json:"name"`
	Component  string         `json:"component"`
	DurationMs float64        `json:"duration_ms"`
	Error      string         `json:"error,omitempty"`
	Task       string         `json:"task,omitempty"`
	Markup     string         `json:"markup,omitempty"`
	Records    int64          `json:"records,omitempty"`
	Attributes map[string]any `json:"attributes,omitempty"`
	Events     []string       `json:"events,omitempty"`
}

// ExportSpans implements sdktrace.SpanExporter. A span without a task id
// takes the one of its nearest ancestor in the same batch.
func (e *FileExporter) ExportSpans(_ context.Context, spans []sdktrace.ReadOnlySpan) error {
	records := make([]SpanRecord, 0, len(spans))
	for _, span := range spans {
		if !strings.HasPrefix(span.InstrumentationScope().Name, scopePrefix) {
			continue
		}
		records = append(records, toRecord(span))
	}
	if skipped := len(spans) - len(records); skipped > 0 {
		log.Debug(log.CatConfig, "skipped foreign spans", "count", skipped)
	}
	if len(records) == 0 {
		return nil
	}
	inheritTasks(records)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.file == nil {
		return fmt.Errorf("trace file closed")
	}
	enc := json.NewEncoder(e.file)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("encode span %s: %w", rec.Name, err)
		}
	}
	return nil
}

// Shutdown closes the file. Calling it again is a no-op.
func (e *FileExporter) Shutdown(context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.file == nil {
		return nil
	}
	err := e.file.Close()
	e.file = nil
	return err
}

func toRecord(span sdktrace.ReadOnlySpan) SpanRecord {
	rec := SpanRecord{
		Time:       span.StartTime(),
		TraceID:    span.SpanContext().TraceID().String(),
		SpanID:     span.SpanContext().SpanID().String(),
		Name:       span.Name(),
		Component:  strings.TrimPrefix(span.InstrumentationScope().Name, scopePrefix),
		DurationMs: float64(span.EndTime().Sub(span.StartTime()).Microseconds()) / 1000.0,
	}
	rec.Component = strings.TrimPrefix(rec.Component, "internal/")
	if span.Parent().IsValid() {
		rec.ParentID = span.Parent().SpanID().String()
	}
	if st := span.Status(); st.Code == codes.Error {
		rec.Error = st.Description
		if rec.Error == "" {
			rec.Error = "error"
		}
	}

	for _, kv := range span.Attributes() {
		switch string(kv.Key) {
		case AttrTaskID:
			rec.Task = kv.Value.Emit()
		case AttrMarkupPath:
			rec.Markup = kv.Value.Emit()
		case AttrRecordCount:
			rec.Records = kv.Value.AsInt64()
		default:
			if rec.Attributes == nil {
				rec.Attributes = make(map[string]any)
			}
			rec.Attributes[string(kv.Key)] = kv.Value.AsInterface()
		}
	}
	for _, ev := range span.Events() {
		rec.Events = append(rec.Events, eventLabel(ev.Name, ev.Attributes))
	}
	return rec
}

// eventLabel renders an event as "name k=v ...".
func eventLabel(name string, attrs []attribute.KeyValue) string {
	var b strings.Builder
	b.WriteString(name)
	for _, kv := range attrs {
		fmt.Fprintf(&b, " %s=%s", kv.Key, kv.Value.Emit())
	}
	return b.String()
}

func inheritTasks(records []SpanRecord) {
	byID := make(map[string]int, len(records))
	for i, rec := range records {
		byID[rec.SpanID] = i
	}
	var resolve func(i, depth int) string
	resolve = func(i, depth int) string {
		rec := records[i]
		if rec.Task != "" || rec.ParentID == "" || depth > len(records) {
			return rec.Task
		}
		parent, ok := byID[rec.ParentID]
		if !ok {
			return ""
		}
		return resolve(parent, depth+1)
	}
	for i := range records {
		records[i].Task = resolve(i, 0)
	}
}
