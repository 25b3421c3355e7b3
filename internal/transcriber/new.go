package transcriber

import (
	"net/http"
	"time"

	"github.com/nguyentantai21042004/voice-ingest/internal/config"
	"github.com/nguyentantai21042004/voice-ingest/internal/logger"
)

const userAgent = "voice-ingest/0.1"

type implTranscriber struct {
	cfg    config.STTConfig
	client *http.Client
	logger logger.Logger
}

// New creates a Transcriber posting to cfg.URL.
func New(cfg config.STTConfig, log logger.Logger) Transcriber {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &implTranscriber{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
		logger: log.With("component", "stt"),
	}
}
