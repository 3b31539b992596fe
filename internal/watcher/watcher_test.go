package watcher_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/htx/internal/watcher"
)

func TestWatcher_DebounceMultipleWrites(t *testing.T) {
	// Create temp database file
	dir := t.TempDir()
	markupPath := filepath.Join(dir, "task.htx")
	err := os.WriteFile(markupPath, []byte("test"), 0644)
	require.NoError(t, err, "failed to create test file")

	// Create watcher with short debounce
	w, err := watcher.New(watcher.Config{
		Paths:       []string{markupPath},
		DebounceDur: 50 * time.Millisecond,
	})
	require.NoError(t, err, "failed to create watcher")
	defer func() { _ = w.Stop() }()

	onChange, err := w.Start()
	require.NoError(t, err, "failed to start watcher")

	// Rapid writes should coalesce into single notification
	for i := 0; i < 10; i++ {
		err := os.WriteFile(markupPath, []byte(fmt.Sprintf("test%d", i)), 0644)
		require.NoError(t, err, "failed to write file")
		time.Sleep(10 * time.Millisecond)
	}

	// Should receive exactly one notification
	select {
	case <-onChange:
		// Expected
	case <-time.After(200 * time.Millisecond):
		t.Fatal("expected notification but got timeout")
	}

	// No second notification should come quickly
	select {
	case <-onChange:
		t.Fatal("unexpected second notification")
	case <-time.After(100 * time.Millisecond):
		// Expected - no second notification
	}
}

func TestWatcher_IgnoresIrrelevantFiles(t *testing.T) {
	dir := t.TempDir()
	markupPath := filepath.Join(dir, "task.htx")
	otherPath := filepath.Join(dir, "other.txt")
	err := os.WriteFile(markupPath, []byte("<View/>"), 0644)
	require.NoError(t, err, "failed to create markup file")
	// Pre-create the other file so writes to it are just Write events
	err = os.WriteFile(otherPath, []byte("initial"), 0644)
	require.NoError(t, err, "failed to create other file")

	w, err := watcher.New(watcher.Config{
		Paths:       []string{markupPath},
		DebounceDur: 50 * time.Millisecond,
	})
	require.NoError(t, err, "failed to create watcher")
	defer func() { _ = w.Stop() }()

	onChange, err := w.Start()
	require.NoError(t, err, "failed to start watcher")

	// Write to unrelated file (not Create, since it already exists)
	err = os.WriteFile(otherPath, []byte("other content"), 0644)
	require.NoError(t, err, "failed to write other file")

	select {
	case <-onChange:
		t.Fatal("should not notify for unrelated files")
	case <-time.After(100 * time.Millisecond):
		// Expected - no notification for unrelated file
	}
}

func TestWatcher_Stop(t *testing.T) {
	dir := t.TempDir()
	markupPath := filepath.Join(dir, "task.htx")
	err := os.WriteFile(markupPath, []byte("test"), 0644)
	require.NoError(t, err, "failed to create test file")

	w, err := watcher.New(watcher.Config{
		Paths:       []string{markupPath},
		DebounceDur: 50 * time.Millisecond,
	})
	require.NoError(t, err, "failed to create watcher")

	_, err = w.Start()
	require.NoError(t, err, "failed to start watcher")

	// Stop should not hang or panic
	done := make(chan struct{})
	go func() {
		err := w.Stop()
		assert.NoError(t, err, "Stop returned error")
		close(done)
	}()

	select {
	case <-done:
		// Expected - stop completed successfully
	case <-time.After(1 * time.Second):
		t.Fatal("Stop() timed out - possible deadlock")
	}
}

func TestWatcher_WatchesEveryConfiguredFile(t *testing.T) {
	dir := t.TempDir()
	markupPath := filepath.Join(dir, "task.htx")
	dataPath := filepath.Join(dir, "data.yaml")

	err := os.WriteFile(markupPath, []byte("<View/>"), 0644)
	require.NoError(t, err, "failed to create markup file")

	w, err := watcher.New(watcher.Config{
		Paths:       []string{markupPath, dataPath},
		DebounceDur: 50 * time.Millisecond,
	})
	require.NoError(t, err, "failed to create watcher")
	defer func() { _ = w.Stop() }()

	onChange, err := w.Start()
	require.NoError(t, err, "failed to start watcher")

	// Creating the data file should trigger notification
	err = os.WriteFile(dataPath, []byte("name: x"), 0644)
	require.NoError(t, err, "failed to write data file")

	select {
	case <-onChange:
	case <-time.After(200 * time.Millisecond):
		t.Fatal("expected notification for data file write")
	}
}

func TestWatcher_SeesRenameIntoPlace(t *testing.T) {
	dir := t.TempDir()
	markupPath := filepath.Join(dir, "task.htx")
	tmpPath := filepath.Join(dir, ".task.htx.swp")
	require.NoError(t, os.WriteFile(markupPath, []byte("<View/>"), 0644))

	w, err := watcher.New(watcher.DefaultConfig(markupPath))
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	onChange, err := w.Start()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(tmpPath, []byte("<View><Text/></View>"), 0644))
	require.NoError(t, os.Rename(tmpPath, markupPath))

	select {
	case <-onChange:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("expected notification after atomic save")
	}
}

func TestNew_RequiresPath(t *testing.T) {
	_, err := watcher.New(watcher.Config{DebounceDur: time.Millisecond})
	require.Error(t, err)
}

func TestDefaultConfig(t *testing.T) {
	markupPath := "/test/task.htx"
	cfg := watcher.DefaultConfig(markupPath)

	assert.Equal(t, []string{markupPath}, cfg.Paths)
	assert.Equal(t, 100*time.Millisecond, cfg.DebounceDur)
}
