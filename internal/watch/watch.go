// Package watch notifies about changes to the journal directory, debounced,
// so status output can refresh without polling.
package watch

import (
	"context"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	log "github.com/chmouel/jctl/internal/log"
)

// Debounce is the window during which filesystem events coalesce into one
// notification.
const Debounce = 600 * time.Millisecond

// Watcher watches one journal directory and delivers a single signal per
// burst of changes.
type Watcher struct {
	Events  chan struct{}
	dir     string
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// New starts watching dir. Callers must Stop the watcher when done.
func New(dir string) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsWatcher.Add(dir); err != nil {
		_ = fsWatcher.Close()
		return nil, err
	}

	w := &Watcher{
		Events:  make(chan struct{}, 1),
		dir:     dir,
		watcher: fsWatcher,
		done:    make(chan struct{}),
	}
	log.Printf("watching %s", w.dir)
	go w.run()
	return w, nil
}

// Stop stops the watcher and releases its resources.
func (w *Watcher) Stop() {
	close(w.done)
	_ = w.watcher.Close()
}

func (w *Watcher) run() {
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	fire := func() {
		select {
		case w.Events <- struct{}{}:
		default:
			// A notification is already pending.
		}
	}

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if ignoreEvent(event) {
				continue
			}
			log.Printf("watch: %s", event)
			if timer == nil {
				timer = time.AfterFunc(Debounce, fire)
			} else {
				timer.Reset(Debounce)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("watch error: %v", err)
		}
	}
}

// ignoreEvent drops noise: chmod-only events and editor/VCS internals.
func ignoreEvent(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return true
	}
	name := event.Name
	return strings.Contains(name, "/.git/") || strings.HasSuffix(name, ".swp") || strings.HasSuffix(name, "~")
}

// Wait blocks until the next change notification or context cancellation.
// It reports whether a change arrived.
func (w *Watcher) Wait(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	case _, ok := <-w.Events:
		return ok
	}
}
