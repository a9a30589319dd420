package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"liquidityEngine/internal/config"
	"liquidityEngine/internal/engine"
	"liquidityEngine/internal/ledger"
	"liquidityEngine/internal/replay"
	"liquidityEngine/internal/storage"
	"liquidityEngine/internal/storage/postgres"
)

func runReplay(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadReplay(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.Script == "" {
		return fmt.Errorf("script path is required")
	}
	script, err := replay.ReadScript(cfg.Script)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sinks := storage.MultiSink{storage.NewJsonlSink(cfg.Out)}
	if cfg.PGDSN != "" {
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer store.Close()
		if err := store.EnsureSchema(ctx); err != nil {
			return err
		}
		sinks = append(sinks, store)
	}

	eng := engine.New(ledger.NewStore(logger), engine.NewManualClock(clockStart(cfg.ClockStart)), logger)
	runner := replay.NewRunner(replay.RunConfig{
		ScriptPath:        cfg.Script,
		BatchSize:         cfg.BatchSize,
		CheckpointPath:    cfg.Checkpoint,
		CheckpointEnabled: cfg.CheckpointEnabled,
	}, eng, sinks, logger)

	logger.Info("replay start",
		zap.String("script", cfg.Script),
		zap.Int("instructions", len(script)),
		zap.Uint64("batch_size", cfg.BatchSize),
		zap.String("out", cfg.Out),
		zap.Bool("postgres", cfg.PGDSN != ""),
		zap.Bool("checkpoint_enabled", cfg.CheckpointEnabled),
		zap.String("checkpoint", cfg.Checkpoint),
	)

	if _, err := runner.Run(ctx, script); err != nil {
		return err
	}

	for _, name := range runner.Keys().Names() {
		key, _ := runner.Keys().Key(name)
		logger.Debug("key", zap.String("name", name), zap.Stringer("address", key))
	}
	return nil
}

// clockStart defaults an unset clock to the current time.
func clockStart(start uint64) uint64 {
	if start == 0 {
		return uint64(time.Now().Unix())
	}
	return start
}
