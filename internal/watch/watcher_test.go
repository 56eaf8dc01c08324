package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/phpns/internal/engine"
	"github.com/leapstack-labs/phpns/internal/testutil"
)

func startWatcher(t *testing.T, roots ...string) *Watcher {
	t.Helper()
	w, err := New(roots, testutil.NewTestLogger(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	t.Cleanup(func() {
		cancel()
		<-done
		_ = w.Close()
	})
	return w
}

// nextEvent waits for the next event, skipping other buffers.
func nextEvent(t *testing.T, w *Watcher, match func(engine.Event) bool) engine.Event {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-w.Events():
			require.True(t, ok, "event channel closed")
			if match(ev) {
				return ev
			}
		case <-timeout:
			t.Fatal("timed out waiting for event")
		}
	}
}

func bufferAt(path string) func(engine.Event) bool {
	return func(ev engine.Event) bool {
		return ev.Kind == engine.BufferAdded && ev.Buffer != nil && ev.Buffer.Path() == path
	}
}

func TestWatcher_NewFile(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0750))
	w := startWatcher(t, root)

	path := testutil.WriteFile(t, root, "src/User.php", "")

	ev := nextEvent(t, w, bufferAt(path))
	assert.Equal(t, path, ev.Buffer.ID())
}

func TestWatcher_NewDirectory(t *testing.T) {
	root := t.TempDir()
	w := startWatcher(t, root)

	path := testutil.WriteFile(t, root, "src/Models/User.php", "")
	nextEvent(t, w, bufferAt(path))

	// The new directories are watched too.
	later := testutil.WriteFile(t, root, "src/Models/Post.php", "")
	nextEvent(t, w, bufferAt(later))
}

func TestWatcher_SkipsDependencyDirs(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "vendor", "acme"), 0750))
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git", "objects"), 0750))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "app"), 0750))

	w, err := New([]string{root}, testutil.NewTestLogger(t))
	require.NoError(t, err)
	defer func() { _ = w.Close() }()

	watched := w.WatchList()
	assert.Contains(t, watched, root)
	assert.Contains(t, watched, filepath.Join(root, "app"))
	assert.NotContains(t, watched, filepath.Join(root, "vendor"))
	assert.NotContains(t, watched, filepath.Join(root, "vendor", "acme"))
	assert.NotContains(t, watched, filepath.Join(root, ".git"))
}

func TestWatcher_RequestReload(t *testing.T) {
	w := startWatcher(t, t.TempDir())

	w.RequestReload()
	w.RequestReload()

	nextEvent(t, w, func(ev engine.Event) bool { return ev.Kind == engine.ReloadRequested })
}

func TestWatcher_MissingRoot(t *testing.T) {
	_, err := New([]string{filepath.Join(t.TempDir(), "missing")}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to watch")
}

func TestWatcher_RunClosesEvents(t *testing.T) {
	w, err := New([]string{t.TempDir()}, nil)
	require.NoError(t, err)
	defer func() { _ = w.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, w.Run(ctx))

	_, ok := <-w.Events()
	assert.False(t, ok)
}

func TestSkipDir(t *testing.T) {
	tests := map[string]bool{
		"vendor":       true,
		"node_modules": true,
		".idea":        true,
		".git":         true,
		"src":          false,
		"app":          false,
		".":            false,
	}
	for name, want := range tests {
		assert.Equal(t, want, skipDir(name), name)
	}
}
