package delivery

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/nguyentantai21042004/voice-ingest/internal/config"
	"github.com/nguyentantai21042004/voice-ingest/internal/logger"
)

func testConfig() config.DeliveryConfig {
	cfg := config.Defaults().Delivery
	cfg.Token = "hook-token"
	cfg.Channel = "discord"
	cfg.To = "1466806583714644063"
	return cfg
}

func testMeta() Metadata {
	return Metadata{
		SourceFile:    "note1.m4a",
		RecordedAt:    time.Date(2026, 3, 1, 8, 15, 0, 0, time.UTC),
		Duration:      "3.5s",
		FileSizeBytes: 2048,
	}
}

func newTestDeliverer(t *testing.T, cfg config.DeliveryConfig, url string) Deliverer {
	t.Helper()
	d, err := New(cfg, url, logger.Discard())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return d
}

func TestDeliverSuccess(t *testing.T) {
	for _, status := range []int{http.StatusOK, http.StatusAccepted} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			var got payload
			var auth, contentType, path string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				auth = r.Header.Get("Authorization")
				contentType = r.Header.Get("Content-Type")
				path = r.URL.Path
				raw, _ := io.ReadAll(r.Body)
				if err := json.Unmarshal(raw, &got); err != nil {
					t.Errorf("payload is not JSON: %v", err)
				}
				w.WriteHeader(status)
			}))
			defer srv.Close()

			d := newTestDeliverer(t, testConfig(), srv.URL+"/hooks/agent")
			if err := d.Deliver(context.Background(), "buy milk", testMeta()); err != nil {
				t.Fatalf("Deliver() error = %v", err)
			}

			if auth != "Bearer hook-token" {
				t.Errorf("Authorization = %q", auth)
			}
			if contentType != "application/json" {
				t.Errorf("Content-Type = %q", contentType)
			}
			if path != "/hooks/agent" {
				t.Errorf("path = %q", path)
			}
			if got.SessionKey != "hook:voice:note1.m4a" {
				t.Errorf("sessionKey = %q", got.SessionKey)
			}
			if got.Name != "VoiceIngest" || got.WakeMode != "now" || !got.Deliver {
				t.Errorf("payload = %+v", got)
			}
			if got.Channel != "discord" || got.To != "1466806583714644063" || got.TimeoutSeconds != 120 {
				t.Errorf("routing = %+v", got)
			}
			for _, want := range []string{"buy milk", "note1.m4a", "2026-03-01T08:15:00Z", "3.5s", "2.0 kB"} {
				if !strings.Contains(got.Message, want) {
					t.Errorf("message missing %q:\n%s", want, got.Message)
				}
			}
		})
	}
}

func TestDeliverFailureStatuses(t *testing.T) {
	for _, status := range []int{http.StatusNoContent, http.StatusUnauthorized, http.StatusServiceUnavailable} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
				_, _ = io.WriteString(w, "nope")
			}))
			defer srv.Close()

			err := newTestDeliverer(t, testConfig(), srv.URL).Deliver(context.Background(), "buy milk", testMeta())
			if !errors.Is(err, ErrDelivery) {
				t.Errorf("Deliver() error = %v, want ErrDelivery", err)
			}
		})
	}
}

func TestDeliverTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	err := newTestDeliverer(t, testConfig(), url).Deliver(context.Background(), "buy milk", testMeta())
	if !errors.Is(err, ErrDelivery) {
		t.Errorf("Deliver() error = %v, want ErrDelivery", err)
	}
}

func TestCustomMessageTemplate(t *testing.T) {
	cfg := testConfig()
	cfg.MessageTemplate = "{{.SourceFile}}: {{.Transcript}} ({{.Duration}})"

	var got payload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	meta := testMeta()
	meta.Duration = ""
	if err := newTestDeliverer(t, cfg, srv.URL).Deliver(context.Background(), "call mom", meta); err != nil {
		t.Fatalf("Deliver() error = %v", err)
	}
	if got.Message != "note1.m4a: call mom (unknown)" {
		t.Errorf("message = %q", got.Message)
	}
}

func TestNewRejectsBrokenTemplate(t *testing.T) {
	cfg := testConfig()
	cfg.MessageTemplate = "{{.Transcript"
	if _, err := New(cfg, "http://hooks.local", logger.Discard()); !config.IsInvalid(err) {
		t.Errorf("New() error = %v, want config.ErrInvalid", err)
	}
}

func TestSessionKeyDeterministic(t *testing.T) {
	if SessionKey("a.m4a") != SessionKey("a.m4a") || SessionKey("a.m4a") == SessionKey("b.m4a") {
		t.Error("SessionKey must be a pure function of the filename")
	}
}

func TestDeliverDefaultConfigCarriesChannel(t *testing.T) {
	cfg := config.Defaults().Delivery
	cfg.Token = "hook-token"

	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	if err := newTestDeliverer(t, cfg, srv.URL).Deliver(context.Background(), "buy milk", testMeta()); err != nil {
		t.Fatalf("Deliver() error = %v", err)
	}
	if got, ok := body["channel"]; !ok || got != config.DefaultChannel {
		t.Errorf("channel = %v (present=%t), want %q", got, ok, config.DefaultChannel)
	}
	if _, ok := body["to"]; ok {
		t.Error("empty recipient should be omitted")
	}
}
