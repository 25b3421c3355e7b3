package processor

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/robfig/cron/v3"

	"github.com/nguyentantai21042004/voice-ingest/internal/candidate"
	"github.com/nguyentantai21042004/voice-ingest/internal/logger"
)

// Run is the single worker. Watcher events and scheduled sweeps only feed
// its channels; every candidate is processed here, one at a time.
func (p *implProcessor) Run(ctx context.Context) error {
	p.logger.Info(ctx, "Previously processed: %d files", p.processed.Len())

	stats := p.Sweep(ctx)
	if n := stats[OutcomeDelivered]; n > 0 {
		p.logger.Info(ctx, "Processed %d existing file(s)", n)
	}

	sched := cron.New(cron.WithLogger(cronLogger{log: p.logger}))
	if _, err := sched.AddFunc(p.schedule, p.requestSweep); err != nil {
		return fmt.Errorf("schedule reconciliation sweep %q: %w", p.schedule, err)
	}
	sched.Start()
	defer func() { <-sched.Stop().Done() }()

	p.logger.Info(ctx, "Reconciliation sweep scheduled: %s", p.schedule)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case path := <-p.queue:
			p.dequeued(path)
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.Process(ctx, path)

		case <-p.sweepReq:
			if ctx.Err() != nil {
				return ctx.Err()
			}
			stats := p.Sweep(ctx)
			if n := stats[OutcomeDelivered]; n > 0 {
				p.logger.Info(ctx, "Reconciliation processed %d file(s)", n)
			}
		}
	}
}

// Sweep lists the watch directory in lexicographic order and processes each
// candidate. It is the retry path for every earlier failure.
func (p *implProcessor) Sweep(ctx context.Context) Stats {
	stats := Stats{}

	files, err := candidate.Scan(p.watchDir)
	if err != nil {
		p.logger.Error(ctx, "Sweep of %s failed: %v", p.watchDir, err)
		return stats
	}

	for _, path := range files {
		if ctx.Err() != nil {
			break
		}
		stats[p.Process(ctx, path)]++
	}

	p.logger.Debug(ctx, "Sweep done: %d candidates, %d delivered, %d waiting, %d failed",
		len(files), stats[OutcomeDelivered], stats[OutcomeAgedOut],
		stats[OutcomeTranscriptionFailed]+stats[OutcomeDeliveryFailed])
	return stats
}

// Enqueue matches watcher.EventHandler. Paths already waiting are not
// queued twice.
func (p *implProcessor) Enqueue(ctx context.Context, path string) error {
	p.pendingMu.Lock()
	defer p.pendingMu.Unlock()

	if _, ok := p.pending[path]; ok {
		return nil
	}

	select {
	case p.queue <- path:
		p.pending[path] = struct{}{}
		p.logger.Debug(ctx, "Queued %s", filepath.Base(path))
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrQueueFull, filepath.Base(path))
	}
}

func (p *implProcessor) dequeued(path string) {
	p.pendingMu.Lock()
	delete(p.pending, path)
	p.pendingMu.Unlock()
}

// requestSweep coalesces: a sweep already pending absorbs new requests.
func (p *implProcessor) requestSweep() {
	select {
	case p.sweepReq <- struct{}{}:
	default:
	}
}

// cronLogger adapts logger.Logger to cron.Logger.
type cronLogger struct {
	log logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.With(keysAndValues...).Debug(context.Background(), "cron: %s", msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.With(keysAndValues...).Error(context.Background(), "cron: %s: %v", msg, err)
}
