package processor

import (
	"os"
	"sync"
	"time"

	"github.com/nguyentantai21042004/voice-ingest/internal/config"
	"github.com/nguyentantai21042004/voice-ingest/internal/delivery"
	"github.com/nguyentantai21042004/voice-ingest/internal/logger"
	"github.com/nguyentantai21042004/voice-ingest/internal/probe"
	"github.com/nguyentantai21042004/voice-ingest/internal/state"
	"github.com/nguyentantai21042004/voice-ingest/internal/transcriber"
)

// Deps are the collaborators of the processor. Prober may be nil.
type Deps struct {
	Store       state.Store
	Transcriber transcriber.Transcriber
	Deliverer   delivery.Deliverer
	Prober      probe.Prober
	Logger      logger.Logger
}

type implProcessor struct {
	watchDir    string
	minAge      time.Duration
	deleteAfter bool
	schedule    string

	store       state.Store
	transcriber transcriber.Transcriber
	deliverer   delivery.Deliverer
	prober      probe.Prober
	logger      logger.Logger
	now         func() time.Time
	remove      func(string) error

	// work serialises Process; processed is only touched while it is held.
	work      sync.Mutex
	processed state.ProcessedSet

	queue    chan string
	sweepReq chan struct{}

	pendingMu sync.Mutex
	pending   map[string]struct{}
}

// New creates a Processor and loads the processed set from the store.
func New(cfg *config.Config, deps Deps) Processor {
	p := &implProcessor{
		watchDir:    cfg.Paths.WatchDir,
		minAge:      cfg.MinFileAge(),
		deleteAfter: cfg.DeleteAfterDelivery(),
		schedule:    cfg.SweepSchedule(),
		store:       deps.Store,
		transcriber: deps.Transcriber,
		deliverer:   deps.Deliverer,
		prober:      deps.Prober,
		logger:      deps.Logger,
		now:         time.Now,
		remove:      os.Remove,
		queue:       make(chan string, cfg.Ingest.QueueSize),
		sweepReq:    make(chan struct{}, 1),
		pending:     make(map[string]struct{}),
	}
	p.processed = deps.Store.Load()
	return p
}
