package aggregate

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"liquidityEngine/internal/model"
	"liquidityEngine/internal/storage"
)

// Config controls aggregation behavior.
type Config struct {
	WindowSeconds uint64
	BatchSize     int
	RecomputeFrom uint64
	StateStore    StateStore
	// Decimals scales token amounts per pool. Pools without an entry are
	// reported in raw units.
	Decimals map[string]PoolDecimals
}

// Aggregator folds liquidity events into per-pool window metrics.
type Aggregator struct {
	cfg          Config
	writer       WindowWriter
	logger       *zap.Logger
	decimals     *DecimalsCache
	accumulators map[string]*Accumulator
	warned       map[string]bool
}

func NewAggregator(cfg Config, writer WindowWriter, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Aggregator{
		cfg:          cfg,
		writer:       writer,
		logger:       logger,
		decimals:     NewDecimalsCache(cfg.Decimals),
		accumulators: make(map[string]*Accumulator),
		warned:       make(map[string]bool),
	}
}

// Run aggregates an events JSONL file.
func (a *Aggregator) Run(ctx context.Context, inputPath string) error {
	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer file.Close()
	return a.RunReader(ctx, file)
}

// RunReader aggregates events read from r. Windows still open at the end of
// the input are flushed too; the saved state points before the oldest of
// them so a later run recomputes it.
func (a *Aggregator) RunReader(ctx context.Context, r io.Reader) error {
	if a.writer == nil {
		return fmt.Errorf("window writer is nil")
	}
	if a.cfg.WindowSeconds == 0 {
		return fmt.Errorf("window seconds must be > 0")
	}
	if a.cfg.BatchSize <= 0 {
		a.cfg.BatchSize = 1000
	}

	startTs, err := a.loadStartTimestamp(ctx)
	if err != nil {
		return err
	}

	batch := make([]model.PoolWindowMetrics, 0, a.cfg.BatchSize)
	maxTs := startTs
	var total, windows, skipped, failed int

	onBad := func(line int, err error) {
		failed++
		a.logger.Warn("decode event", zap.Int("line", line), zap.Error(err))
	}

	err = storage.ScanEvents(r, func(ev model.LiquidityEvent) error {
		total++
		if err := ctx.Err(); err != nil {
			return err
		}
		if ev.Kind == model.EventRejected || ev.Pool == "" || ev.Timestamp < 0 {
			skipped++
			return nil
		}
		ts := uint64(ev.Timestamp)
		if ts <= startTs {
			skipped++
			return nil
		}

		start := windowStart(ts, a.cfg.WindowSeconds)
		end := start + a.cfg.WindowSeconds

		acc := a.accumulators[ev.Pool]
		if acc == nil {
			acc = NewAccumulator(ev.Pool, start, end)
			a.accumulators[ev.Pool] = acc
		} else if acc.WindowStart != start {
			batch = append(batch, a.flushAccumulator(acc))
			windows++
			acc = NewAccumulator(ev.Pool, start, end)
			a.accumulators[ev.Pool] = acc
		}

		if err := acc.AddEvent(ev); err != nil {
			failed++
			a.logger.Warn("aggregate event", zap.Error(err), zap.String("pool", ev.Pool), zap.String("kind", string(ev.Kind)))
			return nil
		}

		if ts > maxTs {
			maxTs = ts
		}

		if len(batch) >= a.cfg.BatchSize {
			if err := a.writer.UpsertWindowMetrics(ctx, batch); err != nil {
				return err
			}
			batch = batch[:0]
			if err := a.saveState(ctx); err != nil {
				return err
			}
		}
		return nil
	}, onBad)
	if err != nil {
		return err
	}

	for _, acc := range a.accumulators {
		batch = append(batch, a.flushAccumulator(acc))
		windows++
	}
	a.accumulators = make(map[string]*Accumulator)

	if len(batch) > 0 {
		if err := a.writer.UpsertWindowMetrics(ctx, batch); err != nil {
			return err
		}
	}

	a.cfg.RecomputeFrom = maxTs
	if err := a.saveState(ctx); err != nil {
		return err
	}

	a.logger.Info("aggregate complete",
		zap.Int("total", total),
		zap.Int("windows", windows),
		zap.Int("skipped", skipped),
		zap.Int("failed", failed),
	)

	return nil
}

func (a *Aggregator) loadStartTimestamp(ctx context.Context) (uint64, error) {
	if a.cfg.RecomputeFrom > 0 {
		return a.cfg.RecomputeFrom - 1, nil
	}
	if a.cfg.StateStore == nil {
		return 0, nil
	}
	last, ok, err := a.cfg.StateStore.Load(ctx)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	return last, nil
}

func (a *Aggregator) saveState(ctx context.Context) error {
	if a.cfg.StateStore == nil {
		return nil
	}

	if len(a.accumulators) == 0 {
		return a.cfg.StateStore.Save(ctx, a.cfg.RecomputeFrom)
	}

	safeTs := minOpenWindowStart(a.accumulators)
	if safeTs > 0 {
		safeTs = safeTs - 1
	}
	if safeTs == 0 {
		safeTs = a.cfg.RecomputeFrom
	}
	return a.cfg.StateStore.Save(ctx, safeTs)
}

func (a *Aggregator) poolDecimals(pool string) PoolDecimals {
	decimals, ok := a.decimals.Get(pool)
	if !ok && !a.warned[pool] {
		a.warned[pool] = true
		a.logger.Warn("missing pool decimals, reporting raw units", zap.String("pool", pool))
	}
	return decimals
}

func (a *Aggregator) flushAccumulator(acc *Accumulator) model.PoolWindowMetrics {
	d := a.poolDecimals(acc.PoolAddress)

	return model.PoolWindowMetrics{
		PoolAddress:      acc.PoolAddress,
		WindowSizeSecs:   int64(a.cfg.WindowSeconds),
		WindowStart:      time.Unix(int64(acc.WindowStart), 0).UTC(),
		WindowEnd:        time.Unix(int64(acc.WindowEnd), 0).UTC(),
		EventCount:       acc.EventCount,
		TradeCount:       acc.TradeCount,
		PositionsOpened:  acc.PositionsOpened,
		PositionsClosed:  acc.PositionsClosed,
		DepositA:         formatTokenAmount(acc.DepositA, d.A),
		DepositB:         formatTokenAmount(acc.DepositB, d.B),
		WithdrawA:        formatTokenAmount(acc.WithdrawA, d.A),
		WithdrawB:        formatTokenAmount(acc.WithdrawB, d.B),
		FeesCollectedA:   formatTokenAmount(acc.FeesA, d.A),
		FeesCollectedB:   formatTokenAmount(acc.FeesB, d.B),
		RewardsCollected: acc.Rewards.String(),
		VolumeA:          formatTokenAmount(acc.VolumeA, d.A),
		VolumeB:          formatTokenAmount(acc.VolumeB, d.B),
		SwapFeesA:        formatTokenAmount(acc.SwapFeesA, d.A),
		SwapFeesB:        formatTokenAmount(acc.SwapFeesB, d.B),
		NetLiquidity:     acc.NetLiquidity.String(),
		TransferFeesA:    formatTokenAmount(acc.TransferFeesA, d.A),
		TransferFeesB:    formatTokenAmount(acc.TransferFeesB, d.B),
	}
}
