package processor

import (
	"context"
	"errors"
)

// ErrQueueFull is returned by Enqueue when the worker backlog is at capacity.
// The path is picked up again by the next reconciliation sweep.
var ErrQueueFull = errors.New("processing queue is full")

// Processor is the ingestion engine. A single worker runs every candidate
// through stability check, transcription, delivery, marking and deletion.
type Processor interface {
	// Run performs the startup sweep, schedules reconciliation sweeps and
	// consumes queued paths until ctx is cancelled.
	Run(ctx context.Context) error
	// Enqueue hands a path from the watcher to the worker without blocking.
	Enqueue(ctx context.Context, path string) error
	// Sweep scans the watch directory once and processes every candidate.
	Sweep(ctx context.Context) Stats
	// Process runs one candidate to completion.
	Process(ctx context.Context, path string) Outcome
}

// Outcome is the terminal state of one processing attempt.
type Outcome int

const (
	OutcomeIgnored Outcome = iota
	OutcomeAlreadyProcessed
	OutcomeMissing
	OutcomeAgedOut
	OutcomeTranscriptionFailed
	OutcomeDeliveryFailed
	OutcomeDelivered
)

func (o Outcome) String() string {
	switch o {
	case OutcomeIgnored:
		return "ignored"
	case OutcomeAlreadyProcessed:
		return "already_processed"
	case OutcomeMissing:
		return "missing"
	case OutcomeAgedOut:
		return "aged_out"
	case OutcomeTranscriptionFailed:
		return "transcription_failed"
	case OutcomeDeliveryFailed:
		return "delivery_failed"
	case OutcomeDelivered:
		return "delivered"
	default:
		return "unknown"
	}
}

// Stats counts outcomes of one sweep.
type Stats map[Outcome]int
