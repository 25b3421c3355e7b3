package delivery

import (
	"fmt"
	"net/http"
	"text/template"
	"time"

	"github.com/nguyentantai21042004/voice-ingest/internal/config"
	"github.com/nguyentantai21042004/voice-ingest/internal/logger"
)

const userAgent = "voice-ingest/0.1"

type implDeliverer struct {
	cfg      config.DeliveryConfig
	endpoint string
	message  *template.Template
	client   *http.Client
	logger   logger.Logger
}

// New creates a Deliverer for the webhook at endpoint. The message template
// is parsed here so a broken template fails at startup.
func New(cfg config.DeliveryConfig, endpoint string, log logger.Logger) (Deliverer, error) {
	text := cfg.MessageTemplate
	if text == "" {
		text = DefaultMessageTemplate
	}
	tmpl, err := template.New("message").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%w: delivery.message_template: %v", config.ErrInvalid, err)
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &implDeliverer{
		cfg:      cfg,
		endpoint: endpoint,
		message:  tmpl,
		client:   &http.Client{Timeout: timeout},
		logger:   log.With("component", "delivery"),
	}, nil
}
