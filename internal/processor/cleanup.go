package processor

import (
	"context"

	"github.com/nguyentantai21042004/voice-ingest/internal/logger"
)

// markProcessed records a delivered file and persists the set right away.
// The in-memory mark stands even when the write fails: the delivery already
// happened and must not be repeated by this process.
func (p *implProcessor) markProcessed(ctx context.Context, log logger.Logger, name string) {
	p.processed.Add(name)
	if err := p.store.Save(p.processed); err != nil {
		log.With("marker_persisted", false).Error(ctx,
			"Delivered %s but could not persist state to %s; a restart may deliver it again: %v",
			name, p.store.Path(), err)
		return
	}
	log.Debug(ctx, "Marked %s as processed (%d total)", name, p.processed.Len())
}

// removeSource deletes the delivered audio file. Failure is only logged and
// never reverses the processed mark.
func (p *implProcessor) removeSource(ctx context.Context, log logger.Logger, path string) {
	if err := p.remove(path); err != nil {
		log.Warn(ctx, "Failed to delete %s: %v", path, err)
		return
	}
	log.Info(ctx, "Deleted: %s", path)
}
