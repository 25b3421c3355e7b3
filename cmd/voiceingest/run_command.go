package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/voice-ingest/internal/config"
	"github.com/nguyentantai21042004/voice-ingest/internal/delivery"
	"github.com/nguyentantai21042004/voice-ingest/internal/logger"
	"github.com/nguyentantai21042004/voice-ingest/internal/probe"
	"github.com/nguyentantai21042004/voice-ingest/internal/processor"
	"github.com/nguyentantai21042004/voice-ingest/internal/state"
	"github.com/nguyentantai21042004/voice-ingest/internal/transcriber"
	"github.com/nguyentantai21042004/voice-ingest/internal/watcher"
	"github.com/nguyentantai21042004/voice-ingest/pkg/executor"
)

func newRunCommand(cc *commandContext) *cobra.Command {
	var once bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Watch the voice directory and process new recordings",
		RunE:  runAction(cc, &once),
	}
	addOnceFlag(cmd, &once)
	return cmd
}

func addOnceFlag(cmd *cobra.Command, once *bool) {
	cmd.Flags().BoolVar(once, "once", false, "Run a single sweep of the watch directory and exit")
}

// runAction is shared by `run` and the bare root command.
func runAction(cc *commandContext, once *bool) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := cc.ensureConfig()
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return runPipeline(ctx, cfg, *once)
	}
}

func runPipeline(ctx context.Context, cfg *config.Config, once bool) error {
	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	log.Info(ctx, "========================================")
	log.Info(ctx, "Voice Ingest Pipeline")
	log.Info(ctx, "========================================")
	log.Info(ctx, "System: %s/%s", runtime.GOOS, runtime.GOARCH)
	log.Info(ctx, "Watching: %s (%s mode, poll %s)", cfg.Paths.WatchDir, cfg.Ingest.Watcher, cfg.PollInterval())
	log.Info(ctx, "STT: %s (model %s)", cfg.STT.URL, cfg.STT.Model)
	log.Info(ctx, "Delivery: %s", cfg.WebhookURL())
	log.Info(ctx, "State: %s", cfg.Paths.StateFile)
	log.Info(ctx, "Min file age: %s, delete after delivery: %t", cfg.MinFileAge(), cfg.DeleteAfterDelivery())

	if err := os.MkdirAll(cfg.Paths.WatchDir, 0o755); err != nil {
		return fmt.Errorf("create watch directory %s: %w", cfg.Paths.WatchDir, err)
	}

	store := state.New(cfg.Paths.StateFile, log)
	if err := store.Acquire(); err != nil {
		return err
	}
	defer func() {
		if err := store.Release(); err != nil {
			log.Warn(ctx, "Release state lock: %v", err)
		}
	}()

	hook, err := delivery.New(cfg.Delivery, cfg.WebhookURL(), log)
	if err != nil {
		return err
	}

	prober := probe.New(cfg.Probe.FFprobePath, executor.New())
	if cfg.Probe.FFprobePath != "" && prober == nil {
		log.Warn(ctx, "ffprobe %q not found, duration fallback disabled", cfg.Probe.FFprobePath)
	}

	proc := processor.New(cfg, processor.Deps{
		Store:       store,
		Transcriber: transcriber.New(cfg.STT, log),
		Deliverer:   hook,
		Prober:      prober,
		Logger:      log,
	})

	if once {
		stats := proc.Sweep(ctx)
		log.Info(ctx, "Sweep finished: %d delivered, %d waiting, %d failed",
			stats[processor.OutcomeDelivered], stats[processor.OutcomeAgedOut],
			stats[processor.OutcomeTranscriptionFailed]+stats[processor.OutcomeDeliveryFailed])
		return nil
	}

	w, err := watcher.New(watcher.Options{
		Mode:         cfg.Ingest.Watcher,
		Dir:          cfg.Paths.WatchDir,
		Handler:      proc.Enqueue,
		Logger:       log,
		PollInterval: cfg.PollInterval(),
		Debounce:     cfg.MinFileAge(),
	})
	if err != nil {
		return err
	}
	defer w.Stop()

	errChan := make(chan error, 1)
	go func() {
		if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errChan <- err
		}
	}()

	// Watcher failure is logged; the scheduled sweeps keep the pipeline going.
	go func() {
		select {
		case err := <-errChan:
			log.Error(ctx, "Watcher error: %v", err)
		case <-ctx.Done():
		}
	}()

	log.Info(ctx, "Voice pipeline is ready. Press Ctrl+C to stop")

	err = proc.Run(ctx)
	log.Info(ctx, "Voice pipeline stopped")
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
