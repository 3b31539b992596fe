package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/htx/internal/answers"
	"github.com/zjrosen/htx/internal/registry"
)

type taskData struct {
	id      string
	records []recordData
}

// Builder accumulates saved tasks and writes them in order.
type Builder struct {
	t     *testing.T
	store *answers.Store
	tasks []taskData
}

// NewBuilder creates a builder for the given store.
func NewBuilder(t *testing.T, store *answers.Store) *Builder {
	t.Helper()
	return &Builder{t: t, store: store}
}

// WithTask adds a task whose snapshot holds one record per option.
func (b *Builder) WithTask(id string, records ...RecordOption) *Builder {
	task := taskData{id: id}
	for _, opt := range records {
		var r recordData
		opt(&r)
		task.records = append(task.records, r)
	}
	b.tasks = append(b.tasks, task)
	return b
}

// Build saves every accumulated task.
func (b *Builder) Build() {
	b.t.Helper()
	for _, task := range b.tasks {
		records := make(map[string]registry.ExportRecord, len(task.records))
		for _, r := range task.records {
			records[r.id] = r.export()
		}
		require.NoError(b.t, b.store.Save(context.Background(), task.id, records))
	}
}
