package processor

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/nguyentantai21042004/voice-ingest/internal/candidate"
	"github.com/nguyentantai21042004/voice-ingest/internal/logger"
)

// Process runs one candidate through the pipeline:
// processed check, stability, transcription, delivery, mark, delete.
// Network calls use a context detached from ctx so a shutdown lets the
// current attempt finish; each call is still bounded by its client timeout.
func (p *implProcessor) Process(ctx context.Context, path string) Outcome {
	p.work.Lock()
	defer p.work.Unlock()

	name := filepath.Base(path)
	if !candidate.IsAudio(name) {
		return OutcomeIgnored
	}
	if p.processed.Has(name) {
		return OutcomeAlreadyProcessed
	}

	log := p.logger.With("file", name)

	c, err := candidate.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Debug(ctx, "Candidate vanished before processing")
		} else {
			log.Warn(ctx, "Cannot stat candidate: %v", err)
		}
		return OutcomeMissing
	}

	if now := p.now(); !candidate.IsStable(c, p.minAge, now) {
		log.Debug(ctx, "Skipping %s (too new, age=%.1fs)", name, c.Age(now).Seconds())
		return OutcomeAgedOut
	}

	attemptCtx := logger.WithRequestID(context.WithoutCancel(ctx), uuid.NewString())
	log.Info(attemptCtx, "Processing: %s (%s)", name, humanize.Bytes(uint64(c.Size)))

	result, ok := p.transcribe(attemptCtx, log, c)
	if !ok {
		return OutcomeTranscriptionFailed
	}

	meta := p.buildMetadata(attemptCtx, log, c, result)
	if !p.deliver(attemptCtx, log, result.Text, meta) {
		return OutcomeDeliveryFailed
	}

	p.markProcessed(attemptCtx, log, name)

	if p.deleteAfter {
		p.removeSource(attemptCtx, log, c.Path)
	}

	return OutcomeDelivered
}
