// Package answers persists export snapshots per task in SQLite so a later run
// can restore them as prior values.
package answers

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/htx/internal/log"
	"github.com/zjrosen/htx/internal/registry"
	"github.com/zjrosen/htx/internal/tracing"
)

var (
	// ErrNoTask is returned by Load when nothing was saved for the task.
	ErrNoTask = errors.New("no saved answers for task")
	// ErrEmptyTaskID is returned when a task id is blank.
	ErrEmptyTaskID = errors.New("task id must not be empty")
)

// Task summarizes one saved task.
type Task struct {
	ID      string    `json:"id"`
	Records int       `json:"records"`
	SavedAt time.Time `json:"saved_at"`
}

// Store reads and writes saved answers.
type Store struct {
	db     *sql.DB
	path   string
	tracer trace.Tracer
	now    func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithTracer sets the tracer for save and load spans.
func WithTracer(t trace.Tracer) Option {
	return func(s *Store) { s.tracer = t }
}

// WithClock replaces time.Now for saved_at timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Open opens or creates the answers database at path and brings its schema
// up to date. The parent directory is created when missing.
func Open(path string, opts ...Option) (*Store, error) {
	if path == "" {
		return nil, errors.New("answers database path must not be empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("creating answers directory: %w", err)
	}

	log.Debug(log.CatDB, "Opening database", "path", path)
	db, err := sql.Open("sqlite3", "file:"+path+"?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		log.ErrorErr(log.CatDB, "Failed to open database", err, "path", path)
		return nil, fmt.Errorf("opening answers database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		log.ErrorErr(log.CatDB, "Failed to ping database", err, "path", path)
		return nil, fmt.Errorf("opening answers database: %w", err)
	}

	s := &Store{
		db:     db,
		path:   path,
		tracer: otel.Tracer(tracing.ScopeAnswers),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := migrate(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, err
	}
	log.Info(log.CatDB, "Connected to database", "path", path)
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file.
func (s *Store) Path() string {
	return s.path
}

// Save replaces the saved snapshot of taskID with records.
func (s *Store) Save(ctx context.Context, taskID string, records map[string]registry.ExportRecord) (err error) {
	if taskID == "" {
		return ErrEmptyTaskID
	}
	ctx, span := s.tracer.Start(ctx, tracing.SpanAnswersSave, trace.WithAttributes(
		attribute.String(tracing.AttrTaskID, taskID),
		attribute.Int(tracing.AttrRecordCount, len(records)),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	savedAt := s.now().UTC().Format(time.RFC3339Nano)
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO tasks (id, saved_at) VALUES (?, ?)
		 ON CONFLICT(id) DO UPDATE SET saved_at = excluded.saved_at`,
		taskID, savedAt,
	); err != nil {
		return fmt.Errorf("saving task %s: %w", taskID, err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM records WHERE task_id = ?`, taskID); err != nil {
		return fmt.Errorf("clearing task %s: %w", taskID, err)
	}

	for _, rec := range registry.SortedRecords(records) {
		value, merr := json.Marshal(rec.Value)
		if merr != nil {
			err = fmt.Errorf("encoding value of %s: %w", rec.FromName, merr)
			return err
		}
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO records (task_id, record_id, from_name, to_name, type, origin, value)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			taskID, rec.ID, rec.FromName, rec.ToName, rec.Type, rec.Origin, string(value),
		); err != nil {
			return fmt.Errorf("saving record %s: %w", rec.FromName, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	log.Debug(log.CatDB, "Saved answers", "task", taskID, "records", len(records))
	return nil
}

// Load returns the saved snapshot of taskID ordered by from_name and type.
// It returns ErrNoTask when the task was never saved.
func (s *Store) Load(ctx context.Context, taskID string) (_ []registry.ExportRecord, err error) {
	if taskID == "" {
		return nil, ErrEmptyTaskID
	}
	ctx, span := s.tracer.Start(ctx, tracing.SpanAnswersLoad, trace.WithAttributes(attribute.String(tracing.AttrTaskID, taskID)))
	defer func() {
		if err != nil && !errors.Is(err, ErrNoTask) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	var exists int
	err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks WHERE id = ?`, taskID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("loading task %s: %w", taskID, err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoTask, taskID)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT record_id, from_name, to_name, type, origin, value
		 FROM records WHERE task_id = ?
		 ORDER BY from_name, type, record_id`,
		taskID,
	)
	if err != nil {
		return nil, fmt.Errorf("loading task %s: %w", taskID, err)
	}
	defer func() { _ = rows.Close() }()

	records := make([]registry.ExportRecord, 0)
	for rows.Next() {
		var (
			rec   registry.ExportRecord
			value string
		)
		if err = rows.Scan(&rec.ID, &rec.FromName, &rec.ToName, &rec.Type, &rec.Origin, &value); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		if err = json.Unmarshal([]byte(value), &rec.Value); err != nil {
			return nil, fmt.Errorf("decoding value of %s: %w", rec.FromName, err)
		}
		records = append(records, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("loading task %s: %w", taskID, err)
	}
	span.SetAttributes(attribute.Int(tracing.AttrRecordCount, len(records)))
	return records, nil
}

// Tasks lists every saved task, most recent first.
func (s *Store) Tasks(ctx context.Context) ([]Task, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT t.id, t.saved_at, COUNT(r.task_id)
		 FROM tasks t LEFT JOIN records r ON r.task_id = t.id
		 GROUP BY t.id
		 ORDER BY t.saved_at DESC, t.id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	tasks := make([]Task, 0)
	for rows.Next() {
		var (
			task    Task
			savedAt string
		)
		if err := rows.Scan(&task.ID, &savedAt, &task.Records); err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}
		if task.SavedAt, err = time.Parse(time.RFC3339Nano, savedAt); err != nil {
			log.Warn(log.CatDB, "Unparseable saved_at", "task", task.ID, "value", savedAt)
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// Delete removes the saved snapshot of taskID. It reports whether anything
// was removed.
func (s *Store) Delete(ctx context.Context, taskID string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, taskID)
	if err != nil {
		return false, fmt.Errorf("deleting task %s: %w", taskID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deleting task %s: %w", taskID, err)
	}
	if n > 0 {
		log.Debug(log.CatDB, "Deleted answers", "task", taskID)
	}
	return n > 0, nil
}
