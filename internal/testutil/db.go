// Package testutil provides test utilities for answer storage and task
// fixtures.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/htx/internal/answers"
)

// NewTestStore opens an answers store in a per-test directory. It is closed
// when the test finishes.
func NewTestStore(t *testing.T, opts ...answers.Option) *answers.Store {
	t.Helper()
	store, err := answers.Open(filepath.Join(t.TempDir(), "answers.db"), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}
