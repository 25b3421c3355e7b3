package watcher

import (
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/nguyentantai21042004/voice-ingest/internal/config"
	"github.com/nguyentantai21042004/voice-ingest/internal/logger"
)

const defaultPollInterval = 5 * time.Second

// Options configures a Watcher. Mode is config.WatcherPoll or
// config.WatcherNotify; Debounce delays each handler call.
type Options struct {
	Mode         string
	Dir          string
	Handler      EventHandler
	Logger       logger.Logger
	PollInterval time.Duration
	Debounce     time.Duration
}

// New creates a Watcher for opts.Dir. The notify backend registers the
// directory immediately so a missing directory fails here.
func New(opts Options) (Watcher, error) {
	if opts.Handler == nil {
		return nil, fmt.Errorf("watcher: nil handler")
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}

	w := &implWatcher{
		mode:     opts.Mode,
		dir:      opts.Dir,
		handler:  opts.Handler,
		logger:   opts.Logger.With("component", "watcher"),
		interval: opts.PollInterval,
		debounce: opts.Debounce,
		timers:   make(map[string]*time.Timer),
	}

	switch opts.Mode {
	case config.WatcherPoll, "":
		w.mode = config.WatcherPoll
	case config.WatcherNotify:
		fw, err := fsnotify.NewWatcher()
		if err != nil {
			return nil, fmt.Errorf("create watcher: %w", err)
		}
		if err := fw.Add(opts.Dir); err != nil {
			fw.Close()
			return nil, fmt.Errorf("add watch path: %w", err)
		}
		w.fs = fw
	default:
		return nil, fmt.Errorf("watcher: unknown mode %q", opts.Mode)
	}

	return w, nil
}
