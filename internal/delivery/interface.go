// Package delivery posts transcripts to the downstream automation webhook.
package delivery

import (
	"context"
	"errors"
	"time"
)

// ErrDelivery wraps every failed delivery: transport errors and any status
// other than 200 or 202.
var ErrDelivery = errors.New("delivery failed")

// Metadata describes the source recording of a transcript.
type Metadata struct {
	SourceFile    string
	RecordedAt    time.Time
	Duration      string // "<seconds>s" or "unknown"
	FileSizeBytes int64
}

// Deliverer hands a transcript to the downstream endpoint.
type Deliverer interface {
	Deliver(ctx context.Context, transcript string, meta Metadata) error
}
