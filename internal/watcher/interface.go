package watcher

import "context"

// Watcher reports new audio files in a directory.
type Watcher interface {
	// Start blocks until ctx is cancelled or the backend fails.
	Start(ctx context.Context) error
	Stop() error
}

// EventHandler receives the path of a newly observed audio file.
type EventHandler func(ctx context.Context, filePath string) error
