// Package transcriber uploads audio files to a speech-to-text endpoint.
package transcriber

import "context"

// Result is a successful transcription.
type Result struct {
	Text string
	// Duration in seconds, when the endpoint reports it.
	Duration *float64
}

// Transcriber turns an audio file into text.
type Transcriber interface {
	Transcribe(ctx context.Context, path string) (Result, error)
}
