package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"liquidityEngine/internal/api"
	"liquidityEngine/internal/config"
	"liquidityEngine/internal/engine"
	"liquidityEngine/internal/ledger"
	"liquidityEngine/internal/replay"
	"liquidityEngine/internal/storage"
)

func runServe(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadServe(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store *ledger.Store
	var clock engine.Clock = engine.SystemClock{}
	switch {
	case cfg.Script != "":
		script, err := replay.ReadScript(cfg.Script)
		if err != nil {
			return err
		}
		manual := engine.NewManualClock(clockStart(cfg.ClockStart))
		eng := engine.New(ledger.NewStore(logger), manual, logger)
		runner := replay.NewRunner(replay.RunConfig{ScriptPath: cfg.Script, BatchSize: 500}, eng, &storage.MemorySink{}, logger)
		if _, err := runner.Run(ctx, script); err != nil {
			return fmt.Errorf("replay %s: %w", cfg.Script, err)
		}
		store, clock = eng.Store(), manual
	case cfg.Snapshot.Pool != "":
		client, _, seeded, err := loadSnapshotLedger(ctx, cfg.Snapshot, logger)
		if err != nil {
			return err
		}
		client.Close()
		store = seeded
	default:
		return fmt.Errorf("script or pool is required")
	}

	srv := &http.Server{
		Addr:        cfg.Listen,
		Handler:     api.NewServer(store, clock, logger).Router(),
		ReadTimeout: cfg.ReadTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serve start", zap.String("listen", cfg.Listen))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("serve shutdown")
	return srv.Shutdown(shutdownCtx)
}
