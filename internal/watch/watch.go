// Package watch re-runs a callback whenever files in a pattern directory
// change, debouncing bursts of edits the way a save-all in an editor
// produces.
package watch

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"fortio.org/log"
	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
)

// debounceWindow is the quiet period after the last matching fsnotify
// event before Watcher fires its callback.
const debounceWindow = 300 * time.Millisecond

// Job identifies one firing of the callback, so callers can correlate log
// lines across a reload that touches several files.
type Job struct {
	ID    string
	Files []string
}

// Watcher watches a single directory for changes to *.yaml/*.yml files and
// invokes a callback, debounced, with the set of files that changed.
type Watcher struct {
	dir      string
	callback func(Job)

	fsw    *fsnotify.Watcher
	cancel context.CancelFunc
	done   chan struct{}

	mu          sync.Mutex
	accumulated map[string]bool
	timer       *time.Timer
}

// New creates a Watcher over dir. Call Start to begin watching.
func New(dir string, callback func(Job)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, err
	}
	return &Watcher{
		dir:         dir,
		callback:    callback,
		fsw:         fsw,
		done:        make(chan struct{}),
		accumulated: make(map[string]bool),
	}, nil
}

// Start begins the watch loop in a background goroutine. It returns
// immediately; call Stop (or cancel ctx) to shut it down.
func (w *Watcher) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	log.Infof("watch: watching %s for pattern changes", w.dir)
	go w.loop(ctx)
}

// Stop shuts down the watch loop and waits for it to exit.
func (w *Watcher) Stop() {
	if w.cancel != nil {
		w.cancel()
		<-w.done
	}
	w.fsw.Close()
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.done)
	fire := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			w.stopTimer()
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			log.LogVf("watch: %s %s", event.Op, event.Name)

			w.mu.Lock()
			w.accumulated[event.Name] = true
			w.mu.Unlock()
			w.resetTimer(fire)

		case <-fire:
			w.flush()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Warnf("watch: fsnotify error: %v", err)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	ext := strings.ToLower(filepath.Ext(event.Name))
	return ext == ".yaml" || ext == ".yml"
}

func (w *Watcher) resetTimer(fire chan struct{}) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(debounceWindow, func() {
		select {
		case fire <- struct{}{}:
		default:
		}
	})
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

func (w *Watcher) flush() {
	w.mu.Lock()
	if len(w.accumulated) == 0 {
		w.mu.Unlock()
		return
	}
	files := make([]string, 0, len(w.accumulated))
	for f := range w.accumulated {
		files = append(files, f)
	}
	w.accumulated = make(map[string]bool)
	w.mu.Unlock()

	job := Job{ID: uuid.NewString(), Files: files}
	log.Infof("watch: job %s reloading %d pattern file(s)", job.ID, len(files))
	w.callback(job)
}
