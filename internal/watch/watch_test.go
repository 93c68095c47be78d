package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherSignalsOnChange(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir)
	require.NoError(t, err)
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "2024-01-01-sea.md"), []byte("x\n"), 0o600))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.True(t, w.Wait(ctx), "expected a change notification")
}

func TestWatcherCoalescesBursts(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir)
	require.NoError(t, err)
	defer w.Stop()

	for i := range 5 {
		name := filepath.Join(dir, string(rune('a'+i))+".md")
		require.NoError(t, os.WriteFile(name, []byte("x\n"), 0o600))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.True(t, w.Wait(ctx))

	// The burst should have collapsed into one pending signal at most.
	quiet, quietCancel := context.WithTimeout(context.Background(), 2*Debounce)
	defer quietCancel()
	got := w.Wait(quiet)
	assert.False(t, got, "expected no second notification after the burst")
}

func TestWatcherMissingDir(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestWaitCancelled(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir)
	require.NoError(t, err)
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, w.Wait(ctx))
}

func TestIgnoreEvent(t *testing.T) {
	tests := []struct {
		name   string
		event  fsnotify.Event
		ignore bool
	}{
		{"chmod only", fsnotify.Event{Name: "/j/a.md", Op: fsnotify.Chmod}, true},
		{"git internals", fsnotify.Event{Name: "/j/.git/index", Op: fsnotify.Write}, true},
		{"vim swap", fsnotify.Event{Name: "/j/.a.md.swp", Op: fsnotify.Create}, true},
		{"backup file", fsnotify.Event{Name: "/j/a.md~", Op: fsnotify.Write}, true},
		{"entry write", fsnotify.Event{Name: "/j/a.md", Op: fsnotify.Write}, false},
		{"entry create", fsnotify.Event{Name: "/j/a.md", Op: fsnotify.Create}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.ignore, ignoreEvent(tt.event))
		})
	}
}
