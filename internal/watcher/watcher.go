package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/nguyentantai21042004/voice-ingest/internal/candidate"
	"github.com/nguyentantai21042004/voice-ingest/internal/config"
	"github.com/nguyentantai21042004/voice-ingest/internal/logger"
)

type implWatcher struct {
	mode     string
	dir      string
	handler  EventHandler
	logger   logger.Logger
	fs       *fsnotify.Watcher
	interval time.Duration
	debounce time.Duration

	mu      sync.Mutex
	timers  map[string]*time.Timer
	stopped bool
}

// Start monitors the directory until ctx is cancelled.
func (w *implWatcher) Start(ctx context.Context) error {
	w.logger.Info(ctx, "File watcher started (%s mode). Monitoring: %s", w.mode, w.dir)

	var err error
	if w.mode == config.WatcherNotify {
		err = w.runNotify(ctx)
	} else {
		err = w.runPoll(ctx)
	}

	w.cancelPending()
	w.logger.Info(ctx, "File watcher stopped")
	return err
}

func (w *implWatcher) runNotify(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fs.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			// A file moved into the directory also arrives as Create.
			if event.Op&fsnotify.Create == fsnotify.Create {
				w.observe(ctx, event.Name)
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error(ctx, "Watcher error: %v", err)
		}
	}
}

// observe filters by extension and schedules the handler after the debounce
// delay. A repeated event for the same path restarts its timer.
func (w *implWatcher) observe(ctx context.Context, path string) {
	if !candidate.IsAudio(path) {
		w.logger.Debug(ctx, "Ignoring non-audio file: %s", filepath.Base(path))
		return
	}
	w.logger.Info(ctx, "New file detected: %s", filepath.Base(path))

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()

		if ctx.Err() != nil {
			return
		}
		if err := w.handler(ctx, path); err != nil {
			w.logger.Warn(ctx, "Failed to hand off %s: %v", filepath.Base(path), err)
		}
	})
}

func (w *implWatcher) cancelPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopped = true
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
}

// Stop closes the notify backend and drops pending debounce timers.
func (w *implWatcher) Stop() error {
	w.cancelPending()
	if w.fs != nil {
		return w.fs.Close()
	}
	return nil
}
