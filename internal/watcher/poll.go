package watcher

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/nguyentantai21042004/voice-ingest/internal/candidate"
)

// runPoll lists the directory every interval and reports names that were
// absent from the previous listing. Network filesystems do not deliver
// inotify events, so this is the default backend.
func (w *implWatcher) runPoll(ctx context.Context) error {
	seen, err := w.snapshot()
	if err != nil {
		w.logger.Warn(ctx, "Initial listing of %s failed: %v", w.dir, err)
		seen = map[string]struct{}{}
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			current, err := w.snapshot()
			if err != nil {
				w.logger.Warn(ctx, "Listing %s failed: %v", w.dir, err)
				continue
			}
			for name := range current {
				if _, ok := seen[name]; !ok {
					w.observe(ctx, filepath.Join(w.dir, name))
				}
			}
			seen = current
		}
	}
}

func (w *implWatcher) snapshot() (map[string]struct{}, error) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return nil, err
	}
	names := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if candidate.IsFile(w.dir, e) {
			names[e.Name()] = struct{}{}
		}
	}
	return names, nil
}
