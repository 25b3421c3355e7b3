package processor

import (
	"context"
	"time"

	"github.com/nguyentantai21042004/voice-ingest/internal/candidate"
	"github.com/nguyentantai21042004/voice-ingest/internal/logger"
	"github.com/nguyentantai21042004/voice-ingest/internal/transcriber"
)

const previewLength = 100

// transcribe calls the STT endpoint. Any failure abandons the attempt and
// leaves the file untouched for the next sweep.
func (p *implProcessor) transcribe(ctx context.Context, log logger.Logger, c candidate.Candidate) (transcriber.Result, bool) {
	start := time.Now()
	log.Debug(ctx, "Transcribing %s", c.Name)

	result, err := p.transcriber.Transcribe(ctx, c.Path)
	if err != nil {
		log.Error(ctx, "Transcription failed for %s, skipping: %v", c.Name, err)
		return transcriber.Result{}, false
	}

	log.Info(ctx, "Transcript (%s): %s", time.Since(start).Round(time.Millisecond), preview(result.Text))
	return result, true
}

func preview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewLength {
		return text
	}
	return string(runes[:previewLength]) + "..."
}
