package answers_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/zjrosen/htx/internal/answers"
	"github.com/zjrosen/htx/internal/registry"
	"github.com/zjrosen/htx/internal/testutil"
	"github.com/zjrosen/htx/internal/tracing"
)

func TestOpen_CreatesSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "answers.db")
	store, err := answers.Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	db, err := sql.Open("sqlite3", "file:"+path)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	var version int
	require.NoError(t, db.QueryRow(`PRAGMA user_version`).Scan(&version))
	require.Equal(t, answers.SchemaVersion, version)

	var tables int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name IN ('tasks', 'records')`).Scan(&tables))
	require.Equal(t, 2, tables)
}

func TestOpen_IsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "answers.db")
	for i := 0; i < 2; i++ {
		store, err := answers.Open(path)
		require.NoError(t, err)
		require.NoError(t, store.Close())
	}
}

func TestOpen_RejectsNewerSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "answers.db")
	db, err := sql.Open("sqlite3", "file:"+path)
	require.NoError(t, err)
	_, err = db.Exec(`PRAGMA user_version = 99`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = answers.Open(path)
	require.ErrorContains(t, err, "newer than this htx")
}

func TestOpen_EmptyPath(t *testing.T) {
	_, err := answers.Open("")
	require.Error(t, err)
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	store := testutil.NewTestStore(t)
	testutil.NewBuilder(t, store).WithStandardAnswers().Build()

	records, err := store.Load(context.Background(), "sentiment")
	require.NoError(t, err)
	require.Len(t, records, 2)

	require.Equal(t, "reason", records[0].FromName)
	require.Equal(t, "textarea", records[0].Type)
	require.Equal(t, "text", records[0].ToName)
	require.Equal(t, registry.OriginManual, records[0].Origin)
	require.Equal(t, map[string]any{"text": []any{"Thin plot"}}, records[0].Value)

	require.Equal(t, "sentiment", records[1].FromName)
	require.Equal(t, "sentiment-choices", records[1].ID)
	require.Equal(t, map[string]any{"choices": []any{"neg"}}, records[1].Value)
}

func TestSave_ReplacesPreviousSnapshot(t *testing.T) {
	store := testutil.NewTestStore(t)
	testutil.NewBuilder(t, store).
		WithTask("t1", testutil.Choices("a", []string{"x"}), testutil.Choices("b", []string{"y"})).
		Build()
	testutil.NewBuilder(t, store).
		WithTask("t1", testutil.Choices("b", []string{"z"})).
		Build()

	records, err := store.Load(context.Background(), "t1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "b", records[0].FromName)
	require.Equal(t, map[string]any{"choices": []any{"z"}}, records[0].Value)
}

func TestLoad_UnknownTask(t *testing.T) {
	store := testutil.NewTestStore(t)

	_, err := store.Load(context.Background(), "nope")
	require.ErrorIs(t, err, answers.ErrNoTask)
}

func TestLoad_EmptySnapshotIsNotMissing(t *testing.T) {
	store := testutil.NewTestStore(t)
	testutil.NewBuilder(t, store).WithTask("empty").Build()

	records, err := store.Load(context.Background(), "empty")
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestEmptyTaskID(t *testing.T) {
	store := testutil.NewTestStore(t)

	require.ErrorIs(t, store.Save(context.Background(), "", nil), answers.ErrEmptyTaskID)
	_, err := store.Load(context.Background(), "")
	require.ErrorIs(t, err, answers.ErrEmptyTaskID)
}

func TestTasks_MostRecentFirst(t *testing.T) {
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store := testutil.NewTestStore(t, answers.WithClock(func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}))
	testutil.NewBuilder(t, store).WithStandardAnswers().Build()

	tasks, err := store.Tasks(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	require.Equal(t, "empty", tasks[0].ID)
	require.Equal(t, 0, tasks[0].Records)
	require.Equal(t, "sentiment", tasks[1].ID)
	require.Equal(t, 2, tasks[1].Records)
	require.Equal(t, time.Date(2026, 1, 1, 12, 1, 0, 0, time.UTC), tasks[1].SavedAt)
}

func TestDelete_CascadesRecords(t *testing.T) {
	store := testutil.NewTestStore(t)
	testutil.NewBuilder(t, store).WithStandardAnswers().Build()

	removed, err := store.Delete(context.Background(), "sentiment")
	require.NoError(t, err)
	require.True(t, removed)

	_, err = store.Load(context.Background(), "sentiment")
	require.ErrorIs(t, err, answers.ErrNoTask)

	removed, err = store.Delete(context.Background(), "sentiment")
	require.NoError(t, err)
	require.False(t, removed)

	db, err := sql.Open("sqlite3", "file:"+store.Path())
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	var orphans int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM records WHERE task_id = 'sentiment'`).Scan(&orphans))
	require.Zero(t, orphans)
}

func TestSave_RecordsSpan(t *testing.T) {
	exp := tracetest.NewInMemoryExporter()
	provider := tracing.NewProviderWithExporter(exp)
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	store := testutil.NewTestStore(t, answers.WithTracer(provider.Tracer(tracing.ScopeAnswers)))
	testutil.NewBuilder(t, store).WithTask("t1", testutil.Choices("a", []string{"x"})).Build()

	spans := exp.GetSpans()
	require.Len(t, spans, 1)
	require.Equal(t, tracing.SpanAnswersSave, spans[0].Name)
}
