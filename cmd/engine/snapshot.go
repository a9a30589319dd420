package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"liquidityEngine/internal/api"
	"liquidityEngine/internal/chain"
	"liquidityEngine/internal/clmath"
	"liquidityEngine/internal/config"
	"liquidityEngine/internal/ledger"
	"liquidityEngine/internal/model"
	"liquidityEngine/internal/quote"
	"liquidityEngine/internal/storage/postgres"
)

type snapshotOutput struct {
	Slot      uint64                 `json:"slot"`
	Pool      model.PoolView         `json:"pool"`
	Price     string                 `json:"price"`
	Positions []positionOutput       `json:"positions"`
}

// positionOutput adds what withdrawing all liquidity would return.
type positionOutput struct {
	api.PositionResponse
	WithdrawEstA uint64 `json:"withdraw_est_a"`
	WithdrawEstB uint64 `json:"withdraw_est_b"`
	WithdrawMinA uint64 `json:"withdraw_min_a"`
	WithdrawMinB uint64 `json:"withdraw_min_b"`
}

func runSnapshot(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadSnapshot(cfgFile, cmd.Flags())
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

	client, snap, store, err := loadSnapshotLedger(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer client.Close()

	slot, err := client.GetSlot(ctx)
	if err != nil {
		logger.Warn("get slot", zap.Error(err))
	}

	poolKey, positions, err := parseSnapshotKeys(cfg)
	if err != nil {
		return err
	}

	out := snapshotOutput{Slot: slot}
	err = store.View(func(tx *ledger.Tx) error {
		pool, err := tx.Pool(poolKey)
		if err != nil {
			return err
		}
		out.Pool = model.NewPoolView(poolKey, pool)

		var feeA, feeB clmath.TransferFee
		if m, err := tx.Mint(pool.TokenMintA); err == nil {
			feeA = m.Fee()
		}
		if m, err := tx.Mint(pool.TokenMintB); err == nil {
			feeB = m.Fee()
		}
		decimalsA := snap.Tokens.Decimals(pool.TokenMintA, 0)
		decimalsB := snap.Tokens.Decimals(pool.TokenMintB, 0)
		out.Price = clmath.SqrtPriceToPrice(pool.SqrtPrice, decimalsA, decimalsB).String()

		for _, key := range positions {
			details, err := api.PositionDetails(tx, key, clockStart(0))
			if err != nil {
				logger.Warn("position details", zap.Stringer("position", key), zap.Error(err))
				continue
			}
			pos, err := tx.Position(key)
			if err != nil {
				return err
			}
			withdraw, err := quote.DecreaseByLiquidity(pool, pos.TickLowerIndex, pos.TickUpperIndex, pos.Liquidity, cfg.SlippageBps, feeA, feeB)
			if err != nil {
				return err
			}
			out.Positions = append(out.Positions, positionOutput{
				PositionResponse: details,
				WithdrawEstA:     withdraw.TokenEstA,
				WithdrawEstB:     withdraw.TokenEstB,
				WithdrawMinA:     withdraw.TokenMinA,
				WithdrawMinB:     withdraw.TokenMinB,
			})
		}
		return nil
	})
	if err != nil {
		return err
	}

	if cfg.PGDSN != "" {
		pg, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer pg.Close()
		if err := pg.EnsureSchema(ctx); err != nil {
			return err
		}
		if err := pg.PutPoolSnapshot(ctx, out.Pool); err != nil {
			return err
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func parseSnapshotKeys(cfg config.SnapshotConfig) (solana.PublicKey, []solana.PublicKey, error) {
	if cfg.Pool == "" {
		return solana.PublicKey{}, nil, fmt.Errorf("pool address is required")
	}
	poolKey, err := solana.PublicKeyFromBase58(cfg.Pool)
	if err != nil {
		return solana.PublicKey{}, nil, fmt.Errorf("invalid pool address %q: %w", cfg.Pool, err)
	}
	positions := make([]solana.PublicKey, 0, len(cfg.Positions))
	for _, raw := range cfg.Positions {
		key, err := solana.PublicKeyFromBase58(raw)
		if err != nil {
			return solana.PublicKey{}, nil, fmt.Errorf("invalid position address %q: %w", raw, err)
		}
		positions = append(positions, key)
	}
	return poolKey, positions, nil
}

// loadSnapshotLedger fetches the configured pool and positions and seeds a
// fresh ledger with them.
func loadSnapshotLedger(ctx context.Context, cfg config.SnapshotConfig, logger *zap.Logger) (*chain.Client, *chain.Snapshot, *ledger.Store, error) {
	poolKey, positions, err := parseSnapshotKeys(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	client := chain.NewClient(cfg.RPCURL, chain.Options{
		BatchSize:  cfg.BatchSize,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
	}, logger)

	snap, err := chain.LoadPoolSnapshot(ctx, client, poolKey, positions, logger)
	if err != nil {
		client.Close()
		return nil, nil, nil, err
	}
	store := ledger.NewStore(logger)
	if err := snap.Seed(store); err != nil {
		client.Close()
		return nil, nil, nil, fmt.Errorf("seed ledger: %w", err)
	}
	return client, snap, store, nil
}
