package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// ErrInvalid marks configuration problems that must abort startup.
var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	STT      STTConfig      `yaml:"stt"`
	Delivery DeliveryConfig `yaml:"delivery"`
	Paths    PathsConfig    `yaml:"paths"`
	Ingest   IngestConfig   `yaml:"ingest"`
	Probe    ProbeConfig    `yaml:"probe"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type STTConfig struct {
	URL            string `yaml:"url"`
	Model          string `yaml:"model"`
	Language       string `yaml:"language"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type DeliveryConfig struct {
	URL                    string `yaml:"url"`
	Path                   string `yaml:"path"`
	Token                  string `yaml:"token"`
	TimeoutSeconds         int    `yaml:"timeout_seconds"`
	SenderName             string `yaml:"sender_name"`
	WakeMode               string `yaml:"wake_mode"`
	Channel                string `yaml:"channel"`
	To                     string `yaml:"to"`
	ResponseTimeoutSeconds int    `yaml:"response_timeout_seconds"`
	MessageTemplate        string `yaml:"message_template"`
}

type PathsConfig struct {
	WatchDir  string `yaml:"watch_dir"`
	StateFile string `yaml:"state_file"`
}

type IngestConfig struct {
	PollIntervalSeconds int `yaml:"poll_interval_seconds"`
	// nil means "use the default" (5). An explicit 0 processes immediately.
	MinFileAgeSeconds *int `yaml:"min_file_age_seconds"`
	// nil means "use the default" (true).
	DeleteAfterDelivery *bool  `yaml:"delete_after_delivery"`
	Watcher             string `yaml:"watcher"`
	SweepSchedule       string `yaml:"sweep_schedule"`
	QueueSize           int    `yaml:"queue_size"`
}

type ProbeConfig struct {
	FFprobePath string `yaml:"ffprobe_path"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

const (
	WatcherPoll   = "poll"
	WatcherNotify = "notify"
)

func (c *Config) Validate() error {
	if c.STT.URL == "" {
		return fmt.Errorf("%w: stt.url is required", ErrInvalid)
	}
	if err := checkURL("stt.url", c.STT.URL); err != nil {
		return err
	}
	if c.Delivery.URL == "" {
		return fmt.Errorf("%w: delivery.url is required", ErrInvalid)
	}
	if err := checkURL("delivery.url", c.Delivery.URL); err != nil {
		return err
	}
	if c.Delivery.Token == "" {
		return fmt.Errorf("%w: delivery.token is required", ErrInvalid)
	}
	if strings.TrimSpace(c.Delivery.Channel) == "" {
		return fmt.Errorf("%w: delivery.channel is required", ErrInvalid)
	}
	if !strings.HasPrefix(c.Delivery.Path, "/") {
		return fmt.Errorf("%w: delivery.path must start with /", ErrInvalid)
	}
	if c.Paths.WatchDir == "" {
		return fmt.Errorf("%w: paths.watch_dir is required", ErrInvalid)
	}
	if c.Paths.StateFile == "" {
		return fmt.Errorf("%w: paths.state_file is required", ErrInvalid)
	}
	if c.Ingest.PollIntervalSeconds <= 0 {
		return fmt.Errorf("%w: ingest.poll_interval_seconds must be positive", ErrInvalid)
	}
	if c.Ingest.MinFileAgeSeconds != nil && *c.Ingest.MinFileAgeSeconds < 0 {
		return fmt.Errorf("%w: ingest.min_file_age_seconds must not be negative", ErrInvalid)
	}
	if c.Ingest.QueueSize <= 0 {
		return fmt.Errorf("%w: ingest.queue_size must be positive", ErrInvalid)
	}
	switch c.Ingest.Watcher {
	case WatcherPoll, WatcherNotify:
	default:
		return fmt.Errorf("%w: ingest.watcher must be %q or %q, got %q", ErrInvalid, WatcherPoll, WatcherNotify, c.Ingest.Watcher)
	}
	if _, err := cron.ParseStandard(c.SweepSchedule()); err != nil {
		return fmt.Errorf("%w: ingest.sweep_schedule: %v", ErrInvalid, err)
	}
	if c.STT.TimeoutSeconds <= 0 || c.Delivery.TimeoutSeconds <= 0 {
		return fmt.Errorf("%w: request timeouts must be positive", ErrInvalid)
	}

	return nil
}

func checkURL(key, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalid, key, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: %s must be an http(s) URL", ErrInvalid, key)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: %s has no host", ErrInvalid, key)
	}
	return nil
}

// PollInterval is the directory poll period shared by the polling watcher
// and the default reconciliation schedule.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Ingest.PollIntervalSeconds) * time.Second
}

func (c *Config) MinFileAge() time.Duration {
	if c.Ingest.MinFileAgeSeconds == nil {
		return DefaultMinFileAge
	}
	return time.Duration(*c.Ingest.MinFileAgeSeconds) * time.Second
}

func (c *Config) DeleteAfterDelivery() bool {
	if c.Ingest.DeleteAfterDelivery == nil {
		return true
	}
	return *c.Ingest.DeleteAfterDelivery
}

// SweepSchedule returns the cron spec driving reconciliation sweeps.
func (c *Config) SweepSchedule() string {
	if s := strings.TrimSpace(c.Ingest.SweepSchedule); s != "" {
		return s
	}
	return fmt.Sprintf("@every %ds", c.Ingest.PollIntervalSeconds)
}

// WebhookURL joins the delivery base URL and hook path.
func (c *Config) WebhookURL() string {
	return strings.TrimRight(c.Delivery.URL, "/") + c.Delivery.Path
}

// Redacted returns a copy safe to print.
func (c *Config) Redacted() Config {
	cp := *c
	if cp.Delivery.Token != "" {
		cp.Delivery.Token = "********"
	}
	return cp
}
