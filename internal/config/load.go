package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no explicit config file is given and it exists.
const DefaultPath = "config.yaml"

const (
	DefaultMinFileAge = 5 * time.Second
	DefaultChannel    = "discord"
)

// Defaults returns the values applied to any field left empty by the file
// and the environment.
func Defaults() Config {
	return Config{
		STT: STTConfig{
			Model:          "deepdml/faster-whisper-large-v3-turbo-ct2",
			TimeoutSeconds: 120,
		},
		Delivery: DeliveryConfig{
			Path:                   "/hooks/agent",
			TimeoutSeconds:         30,
			SenderName:             "VoiceIngest",
			WakeMode:               "now",
			Channel:                DefaultChannel,
			ResponseTimeoutSeconds: 120,
		},
		Paths: PathsConfig{
			WatchDir:  "/data/voice",
			StateFile: "/data/state/processed.json",
		},
		Ingest: IngestConfig{
			PollIntervalSeconds: 5,
			Watcher:             WatcherPoll,
			QueueSize:           256,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "auto",
		},
	}
}

// Load builds the effective configuration: YAML file, then environment
// overrides, then defaults, then validation. An empty path reads
// DefaultPath when present and otherwise relies on env and defaults.
// Fields whose zero value is meaningful are pointers, so the defaults merge
// only fills what neither source set.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path == "" {
		if _, err := os.Stat(DefaultPath); err == nil {
			path = DefaultPath
		}
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: parse %s: %v", ErrInvalid, path, err)
		}
	}

	if err := applyEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}

	if err := mergo.Merge(cfg, Defaults()); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

type lookupFunc func(string) (string, bool)

// envAliases are the variable names of the earlier voice-ingest deployment.
// They apply only when the primary key is unset.
var envAliases = map[string]string{
	"DELIVERY_URL":          "OPENCLAW_URL",
	"DELIVERY_TOKEN":        "OPENCLAW_HOOK_TOKEN",
	"DELIVERY_PATH":         "OPENCLAW_HOOK_PATH",
	"DELETE_AFTER_DELIVERY": "DELETE_AFTER_TRANSCRIBE",
}

// withAliases resolves a key through envAliases when it has no value.
func withAliases(lookup lookupFunc) lookupFunc {
	return func(key string) (string, bool) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return v, true
		}
		if alias, ok := envAliases[key]; ok {
			return lookup(alias)
		}
		return "", false
	}
}

func applyEnv(cfg *Config, lookup lookupFunc) error {
	lookup = withAliases(lookup)

	strs := map[string]*string{
		"STT_URL":          &cfg.STT.URL,
		"STT_MODEL":        &cfg.STT.Model,
		"STT_LANGUAGE":     &cfg.STT.Language,
		"DELIVERY_URL":     &cfg.Delivery.URL,
		"DELIVERY_PATH":    &cfg.Delivery.Path,
		"DELIVERY_TOKEN":   &cfg.Delivery.Token,
		"DELIVERY_CHANNEL": &cfg.Delivery.Channel,
		"DELIVERY_TO":      &cfg.Delivery.To,
		"WATCH_DIR":        &cfg.Paths.WatchDir,
		"STATE_FILE":       &cfg.Paths.StateFile,
		"WATCHER_MODE":     &cfg.Ingest.Watcher,
		"FFPROBE_PATH":     &cfg.Probe.FFprobePath,
		"LOG_LEVEL":        &cfg.Logging.Level,
		"LOG_FORMAT":       &cfg.Logging.Format,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}

	if n, ok, err := envInt(lookup, "POLL_INTERVAL"); err != nil {
		return err
	} else if ok {
		cfg.Ingest.PollIntervalSeconds = n
	}
	if n, ok, err := envInt(lookup, "MIN_FILE_AGE"); err != nil {
		return err
	} else if ok {
		cfg.Ingest.MinFileAgeSeconds = &n
	}

	if v, ok := lookup("DELETE_AFTER_DELIVERY"); ok && strings.TrimSpace(v) != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: DELETE_AFTER_DELIVERY: %v", ErrInvalid, err)
		}
		cfg.Ingest.DeleteAfterDelivery = &b
	}

	return nil
}

func envInt(lookup lookupFunc, key string) (int, bool, error) {
	v, ok := lookup(key)
	if !ok || strings.TrimSpace(v) == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, false, fmt.Errorf("%w: %s: %v", ErrInvalid, key, err)
	}
	return n, true, nil
}

// IsInvalid reports whether err came from configuration validation.
func IsInvalid(err error) bool {
	return errors.Is(err, ErrInvalid)
}
