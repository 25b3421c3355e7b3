package processor

import (
	"context"

	"github.com/nguyentantai21042004/voice-ingest/internal/delivery"
	"github.com/nguyentantai21042004/voice-ingest/internal/logger"
)

// deliver posts the transcript downstream. A failure leaves the file
// unmarked and on disk; the next sweep transcribes and delivers it again.
func (p *implProcessor) deliver(ctx context.Context, log logger.Logger, text string, meta delivery.Metadata) bool {
	if err := p.deliverer.Deliver(ctx, text, meta); err != nil {
		log.Error(ctx, "Webhook delivery failed for %s, will retry next cycle: %v", meta.SourceFile, err)
		return false
	}
	log.Info(ctx, "Webhook sent successfully for %s", meta.SourceFile)
	return true
}
