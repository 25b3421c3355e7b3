package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/nguyentantai21042004/voice-ingest/internal/logger"
)

// payload is the request body accepted by the agent hook endpoint.
type payload struct {
	Message        string `json:"message"`
	Name           string `json:"name"`
	SessionKey     string `json:"sessionKey"`
	WakeMode       string `json:"wakeMode"`
	Deliver        bool   `json:"deliver"`
	Channel        string `json:"channel"`
	To             string `json:"to,omitempty"`
	TimeoutSeconds int    `json:"timeoutSeconds"`
}

func (d *implDeliverer) Deliver(ctx context.Context, transcript string, meta Metadata) error {
	message, err := d.renderMessage(transcript, meta)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDelivery, err)
	}

	body, err := json.Marshal(payload{
		Message:        message,
		Name:           d.cfg.SenderName,
		SessionKey:     SessionKey(meta.SourceFile),
		WakeMode:       d.cfg.WakeMode,
		Deliver:        true,
		Channel:        d.cfg.Channel,
		To:             d.cfg.To,
		TimeoutSeconds: d.cfg.ResponseTimeoutSeconds,
	})
	if err != nil {
		return fmt.Errorf("%w: marshal payload: %w", ErrDelivery, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: build request: %w", ErrDelivery, err)
	}
	req.Header.Set("Authorization", "Bearer "+d.cfg.Token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if id := logger.RequestID(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: send webhook: %w", ErrDelivery, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		text := strings.TrimSpace(string(raw))
		if len(text) > 200 {
			text = text[:200]
		}
		return fmt.Errorf("%w: webhook returned %d: %s", ErrDelivery, resp.StatusCode, text)
	}
	_, _ = io.Copy(io.Discard, resp.Body)

	d.logger.Debug(ctx, "Webhook accepted %s with status %d", meta.SourceFile, resp.StatusCode)
	return nil
}
