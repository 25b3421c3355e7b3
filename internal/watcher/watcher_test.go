package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nguyentantai21042004/voice-ingest/internal/config"
	"github.com/nguyentantai21042004/voice-ingest/internal/logger"
)

func startWatcher(t *testing.T, mode, dir string) <-chan string {
	t.Helper()
	events := make(chan string, 16)
	w, err := New(Options{
		Mode:         mode,
		Dir:          dir,
		Logger:       logger.Discard(),
		PollInterval: 20 * time.Millisecond,
		Debounce:     10 * time.Millisecond,
		Handler: func(ctx context.Context, path string) error {
			events <- path
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()
	t.Cleanup(func() {
		cancel()
		if err := <-done; !errors.Is(err, context.Canceled) {
			t.Errorf("Start() error = %v, want context.Canceled", err)
		}
		_ = w.Stop()
	})
	return events
}

func expectEvent(t *testing.T, events <-chan string, want string) {
	t.Helper()
	select {
	case got := <-events:
		if got != want {
			t.Errorf("event = %q, want %q", got, want)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("no event for %s", want)
	}
}

func TestWatcherReportsNewAudio(t *testing.T) {
	for _, mode := range []string{config.WatcherPoll, config.WatcherNotify} {
		t.Run(mode, func(t *testing.T) {
			dir := t.TempDir()
			if err := os.WriteFile(filepath.Join(dir, "old.m4a"), []byte("x"), 0o644); err != nil {
				t.Fatal(err)
			}

			events := startWatcher(t, mode, dir)
			// Let the poll baseline include old.m4a.
			time.Sleep(50 * time.Millisecond)

			if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
				t.Fatal(err)
			}
			path := filepath.Join(dir, "note1.M4A")
			if err := os.WriteFile(path, []byte("audio"), 0o644); err != nil {
				t.Fatal(err)
			}

			expectEvent(t, events, path)
			select {
			case extra := <-events:
				t.Errorf("unexpected event %q", extra)
			case <-time.After(100 * time.Millisecond):
			}
		})
	}
}

func TestPollReportsSymlinkedAudio(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(t.TempDir(), "synced.ogg")
	if err := os.WriteFile(target, []byte("audio"), 0o644); err != nil {
		t.Fatal(err)
	}

	events := startWatcher(t, config.WatcherPoll, dir)
	time.Sleep(50 * time.Millisecond)

	link := filepath.Join(dir, "synced.ogg")
	if err := os.Symlink(target, link); err != nil {
		t.Fatal(err)
	}
	expectEvent(t, events, link)
}

func TestNewRejectsBadOptions(t *testing.T) {
	dir := t.TempDir()
	handler := func(context.Context, string) error { return nil }

	tests := []struct {
		name string
		opts Options
	}{
		{"nil handler", Options{Mode: config.WatcherPoll, Dir: dir, Logger: logger.Discard()}},
		{"unknown mode", Options{Mode: "inotify", Dir: dir, Handler: handler, Logger: logger.Discard()}},
		{"missing dir", Options{Mode: config.WatcherNotify, Dir: filepath.Join(dir, "nope"), Handler: handler, Logger: logger.Discard()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.opts); err == nil {
				t.Error("New() error = nil, want error")
			}
		})
	}
}

func TestDebounceDroppedAfterStop(t *testing.T) {
	called := make(chan struct{}, 1)
	w, err := New(Options{
		Dir:      t.TempDir(),
		Logger:   logger.Discard(),
		Debounce: 50 * time.Millisecond,
		Handler: func(context.Context, string) error {
			called <- struct{}{}
			return nil
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	w.(*implWatcher).observe(context.Background(), "/tmp/a.wav")
	_ = w.Stop()

	select {
	case <-called:
		t.Error("handler ran after Stop")
	case <-time.After(150 * time.Millisecond):
	}
}
