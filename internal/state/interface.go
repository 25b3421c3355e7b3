// Package state persists the set of audio files whose transcript has been
// delivered, so a restart never delivers the same file twice.
package state

import "errors"

// ErrLocked is returned by Acquire when another process owns the state file.
var ErrLocked = errors.New("state file is locked by another process")

// Store is the durable home of the ProcessedSet. It has a single writer.
type Store interface {
	// Load reads the persisted set. A missing or malformed file yields an
	// empty set; Load never fails.
	Load() ProcessedSet
	// Save replaces the persisted set atomically.
	Save(set ProcessedSet) error
	// Acquire takes the exclusive single-writer lock.
	Acquire() error
	Release() error
	Path() string
}
