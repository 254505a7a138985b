// Command syncd is the background synchronization unit for the
// enforcement device. It runs the scheduler loop until SIGINT or
// SIGTERM and leaves all persistence to the local and central stores.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jicmugot16/fieldsync/internal/buildinfo"
	"github.com/jicmugot16/fieldsync/internal/config"
	"github.com/jicmugot16/fieldsync/internal/logging"
	"github.com/jicmugot16/fieldsync/internal/probe"
	"github.com/jicmugot16/fieldsync/internal/store/central"
	"github.com/jicmugot16/fieldsync/internal/store/local"
	"github.com/jicmugot16/fieldsync/internal/syncer"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	cfg := config.LoadConfig()
	logger := logging.NewDeviceLogger(cfg.LogFilePath)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	initSignalHandler(cancel)

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error(ctx, "syncd stopped", "error", err)
		os.Exit(1)
	}
}

func initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func run(ctx context.Context, cfg *config.Config, logger logging.Logger) error {
	localStore, err := local.Open(ctx, cfg.LocalDSN, logger)
	if err != nil {
		return fmt.Errorf("open local store: %w", err)
	}
	defer localStore.Close()

	// The central handle comes up offline; connectivity is the
	// probe's business, checked at the start of every pass.
	centralStore, err := central.Open(cfg.CentralDSN, logger)
	if err != nil {
		return fmt.Errorf("open central store: %w", err)
	}
	defer centralStore.Close()

	evidenceDir, err := cfg.ResolveEvidenceDir()
	if err != nil {
		return fmt.Errorf("resolve evidence dir: %w", err)
	}

	p := probe.New(cfg.ProbeHost, cfg.ProbeTimeout, centralStore, logger)
	engine := syncer.NewEngine(p, localStore, centralStore, evidenceDir, logger)
	status := syncer.NewStatusFile(cfg.StatusFilePath)

	sched := syncer.NewScheduler(engine, status,
		cfg.TickInterval, cfg.MinSyncInterval, cfg.MaxSyncStaleness, logger)

	logger.Info(ctx, "starting sync scheduler",
		"device", cfg.DeviceID,
		"tick", cfg.TickInterval.String(),
		"min_interval", cfg.MinSyncInterval.String(),
		"max_staleness", cfg.MaxSyncStaleness.String())

	sched.Run(ctx)

	logger.Info(ctx, "sync scheduler stopped")
	return nil
}
