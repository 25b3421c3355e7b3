package processor

import (
	"context"
	"strconv"

	"github.com/nguyentantai21042004/voice-ingest/internal/candidate"
	"github.com/nguyentantai21042004/voice-ingest/internal/delivery"
	"github.com/nguyentantai21042004/voice-ingest/internal/logger"
	"github.com/nguyentantai21042004/voice-ingest/internal/transcriber"
)

// buildMetadata derives delivery metadata from the candidate and transcript.
// When the STT endpoint reports no duration and ffprobe is configured, the
// duration is measured locally.
func (p *implProcessor) buildMetadata(ctx context.Context, log logger.Logger, c candidate.Candidate, result transcriber.Result) delivery.Metadata {
	duration := result.Duration
	if duration == nil && p.prober != nil {
		if secs, err := p.prober.Duration(ctx, c.Path); err != nil {
			log.Debug(ctx, "Duration probe failed: %v", err)
		} else {
			duration = &secs
		}
	}

	return delivery.Metadata{
		SourceFile:    c.Name,
		RecordedAt:    c.ModTime.Local(),
		Duration:      formatDuration(duration),
		FileSizeBytes: c.Size,
	}
}

// formatDuration renders seconds as "12.5s"; missing or zero is "unknown".
func formatDuration(seconds *float64) string {
	if seconds == nil || *seconds == 0 {
		return "unknown"
	}
	return strconv.FormatFloat(*seconds, 'f', -1, 64) + "s"
}
