package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	root := &cobra.Command{
		Use:          "engine",
		Short:        "Concentrated liquidity position and tick accounting engine",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")
	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")

	replayCmd := &cobra.Command{
		Use:   "replay",
		Short: "Apply a JSONL instruction script to a fresh ledger and write the events",
		RunE:  runReplay,
	}
	replayCmd.Flags().String("script", "", "instruction script JSONL")
	replayCmd.Flags().String("out", "./data/events.jsonl", "output events JSONL")
	replayCmd.Flags().String("checkpoint", "./data/replay_checkpoint.json", "checkpoint file path")
	replayCmd.Flags().Bool("checkpoint-enabled", true, "enable checkpointing")
	replayCmd.Flags().String("pg-dsn", "", "optional Postgres DSN for events")
	replayCmd.Flags().Uint64("batch-size", 500, "instructions per batch")
	replayCmd.Flags().String("clock-start", "", "ledger clock start (unix seconds or RFC3339), default now")
	root.AddCommand(replayCmd)

	quoteCmd := &cobra.Command{
		Use:   "quote",
		Short: "Quote a deposit or withdrawal offline",
		RunE:  runQuote,
	}
	quoteCmd.Flags().Int32("tick", 0, "current pool tick")
	quoteCmd.Flags().String("sqrt-price", "", "current sqrt price (Q64.64), overrides --tick")
	quoteCmd.Flags().Uint16("tick-spacing", 64, "pool tick spacing")
	quoteCmd.Flags().Int32("lower", 0, "lower tick")
	quoteCmd.Flags().Int32("upper", 0, "upper tick")
	quoteCmd.Flags().String("liquidity", "", "liquidity amount")
	quoteCmd.Flags().Uint64("token-a", 0, "quote by token A amount")
	quoteCmd.Flags().Uint64("token-b", 0, "quote by token B amount")
	quoteCmd.Flags().Uint16("slippage-bps", 100, "slippage tolerance in basis points")
	quoteCmd.Flags().Bool("decrease", false, "quote a withdrawal of --liquidity")
	root.AddCommand(quoteCmd)

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Fetch a live pool and positions over RPC and print decoded state",
		RunE:  runSnapshot,
	}
	addSnapshotFlags(snapshotCmd)
	snapshotCmd.Flags().String("pg-dsn", "", "optional Postgres DSN for pool snapshots")
	root.AddCommand(snapshotCmd)

	aggregateCmd := &cobra.Command{
		Use:   "aggregate",
		Short: "Aggregate liquidity events into window metrics",
		RunE:  runAggregate,
	}
	aggregateCmd.Flags().String("in", "./data/events.jsonl", "input events JSONL")
	aggregateCmd.Flags().String("window", "5m", "aggregation window (e.g. 1m, 5m, 1h)")
	aggregateCmd.Flags().String("out", "", "output window metrics JSONL (used when pg-dsn is empty)")
	aggregateCmd.Flags().String("pg-dsn", "", "Postgres DSN")
	aggregateCmd.Flags().Int("batch-size", 1000, "batch size for writes")
	aggregateCmd.Flags().String("state-file", "", "optional local state file for progress tracking")
	aggregateCmd.Flags().String("recompute-from", "", "recompute from timestamp (unix seconds or RFC3339)")
	aggregateCmd.Flags().StringSlice("decimals", nil, "pool decimals (comma-separated pool=A/B)")
	root.AddCommand(aggregateCmd)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP inspection API",
		RunE:  runServe,
	}
	serveCmd.Flags().String("listen", ":8080", "listen address")
	serveCmd.Flags().String("script", "", "instruction script to build the ledger from")
	serveCmd.Flags().Duration("read-timeout", 10*time.Second, "HTTP read timeout")
	serveCmd.Flags().String("clock-start", "", "ledger clock start (unix seconds or RFC3339), default now")
	addSnapshotFlags(serveCmd)
	root.AddCommand(serveCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSnapshotFlags(cmd *cobra.Command) {
	cmd.Flags().String("rpc", "https://api.mainnet-beta.solana.com", "Solana RPC URL")
	cmd.Flags().String("pool", "", "whirlpool address")
	cmd.Flags().StringSlice("position", nil, "position addresses (comma-separated)")
	cmd.Flags().Int("batch-size", 100, "accounts per getMultipleAccounts call")
	cmd.Flags().Int("max-retries", 5, "maximum retry attempts")
	cmd.Flags().Duration("retry-delay", 500*time.Millisecond, "initial retry backoff")
	cmd.Flags().Uint16("slippage-bps", 100, "slippage for printed quotes")
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
