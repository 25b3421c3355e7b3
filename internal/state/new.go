package state

import (
	"time"

	"github.com/gofrs/flock"
	"github.com/nguyentantai21042004/voice-ingest/internal/logger"
)

type implStore struct {
	path   string
	lock   *flock.Flock
	logger logger.Logger
	now    func() time.Time
}

// New creates a Store backed by the JSON document at path. The lock file
// lives next to it as <path>.lock.
func New(path string, log logger.Logger) Store {
	return &implStore{
		path:   path,
		lock:   flock.New(path + ".lock"),
		logger: log,
		now:    time.Now,
	}
}
