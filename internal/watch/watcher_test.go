package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, dir string, run RunFunc) (*Watcher, context.CancelFunc, <-chan error) {
	t.Helper()
	w, err := New(dir, 100*time.Millisecond, run, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	select {
	case <-w.Ready():
	case err := <-done:
		t.Fatalf("watcher exited before ready: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher not ready")
	}
	t.Cleanup(cancel)
	return w, cancel, done
}

func TestWatcher_CoalescesBurst(t *testing.T) {
	dir := t.TempDir()
	var runs atomic.Int32
	_, _, _ = startWatcher(t, dir, func(context.Context) error {
		runs.Add(1)
		return nil
	})

	for _, name := range []string{"a.html", "b.html", "index.html"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("<html></html>"), 0o600))
	}

	assert.Eventually(t, func() bool { return runs.Load() == 1 }, 5*time.Second, 10*time.Millisecond)
	assert.Never(t, func() bool { return runs.Load() > 1 }, 300*time.Millisecond, 20*time.Millisecond)
}

func TestWatcher_IgnoresRemovals(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.html")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	var runs atomic.Int32
	_, _, _ = startWatcher(t, dir, func(context.Context) error {
		runs.Add(1)
		return nil
	})

	require.NoError(t, os.Remove(path))
	assert.Never(t, func() bool { return runs.Load() > 0 }, 300*time.Millisecond, 20*time.Millisecond)
}

func TestWatcher_KeepsWatchingAfterRunError(t *testing.T) {
	dir := t.TempDir()
	var runs atomic.Int32
	_, _, _ = startWatcher(t, dir, func(context.Context) error {
		runs.Add(1)
		return errors.New("boom")
	})

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.html"), []byte("x"), 0o600))
	assert.Eventually(t, func() bool { return runs.Load() == 1 }, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.html"), []byte("x"), 0o600))
	assert.Eventually(t, func() bool { return runs.Load() == 2 }, 5*time.Second, 10*time.Millisecond)
}

func TestWatcher_StopsOnCancel(t *testing.T) {
	_, cancel, done := startWatcher(t, t.TempDir(), func(context.Context) error { return nil })

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatcher_MissingDirectory(t *testing.T) {
	w, err := New(filepath.Join(t.TempDir(), "missing"), time.Second, func(context.Context) error { return nil }, nil)
	require.NoError(t, err)

	err = w.Run(context.Background())
	require.Error(t, err)
}

func TestNew_Validation(t *testing.T) {
	_, err := New(t.TempDir(), time.Second, nil, nil)
	require.Error(t, err)

	_, err = New(t.TempDir(), 0, func(context.Context) error { return nil }, nil)
	require.Error(t, err)
}

func TestTriggers(t *testing.T) {
	assert.True(t, triggers(fsnotify.Event{Name: "a", Op: fsnotify.Create}))
	assert.True(t, triggers(fsnotify.Event{Name: "a", Op: fsnotify.Write}))
	assert.True(t, triggers(fsnotify.Event{Name: "a", Op: fsnotify.Rename}))
	assert.False(t, triggers(fsnotify.Event{Name: "a", Op: fsnotify.Remove}))
	assert.False(t, triggers(fsnotify.Event{Name: "a", Op: fsnotify.Chmod}))
}
