package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"liquidityEngine/internal/model"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS liquidity_events (
	id TEXT PRIMARY KEY,
	sequence BIGINT NOT NULL,
	kind TEXT NOT NULL,
	pool TEXT NOT NULL DEFAULT '',
	position TEXT,
	tick_array TEXT,
	event_ts TIMESTAMPTZ NOT NULL,
	liquidity NUMERIC,
	tick_lower INTEGER NOT NULL DEFAULT 0,
	tick_upper INTEGER NOT NULL DEFAULT 0,
	token_a NUMERIC,
	token_b NUMERIC,
	token_a_transfer_fee NUMERIC,
	token_b_transfer_fee NUMERIC,
	reward_index SMALLINT,
	reward_mint TEXT,
	a_to_b BOOLEAN,
	fee_amount NUMERIC,
	sqrt_price NUMERIC,
	tick_current INTEGER NOT NULL DEFAULT 0,
	error_code BIGINT,
	error_name TEXT,
	payload JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS liquidity_events_pool_ts ON liquidity_events (pool, event_ts);
CREATE INDEX IF NOT EXISTS liquidity_events_position ON liquidity_events (position);

CREATE TABLE IF NOT EXISTS pool_snapshots (
	pool TEXT PRIMARY KEY,
	liquidity NUMERIC NOT NULL,
	sqrt_price NUMERIC NOT NULL,
	tick_current INTEGER NOT NULL,
	payload JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS pool_window_metrics (
	pool TEXT NOT NULL,
	window_size_seconds BIGINT NOT NULL,
	window_start_ts TIMESTAMPTZ NOT NULL,
	window_end_ts TIMESTAMPTZ NOT NULL,
	event_count BIGINT NOT NULL,
	trade_count BIGINT NOT NULL,
	positions_opened BIGINT NOT NULL,
	positions_closed BIGINT NOT NULL,
	deposit_a NUMERIC NOT NULL,
	deposit_b NUMERIC NOT NULL,
	withdraw_a NUMERIC NOT NULL,
	withdraw_b NUMERIC NOT NULL,
	fees_collected_a NUMERIC NOT NULL,
	fees_collected_b NUMERIC NOT NULL,
	rewards_collected NUMERIC NOT NULL,
	volume_a NUMERIC NOT NULL,
	volume_b NUMERIC NOT NULL,
	swap_fees_a NUMERIC NOT NULL,
	swap_fees_b NUMERIC NOT NULL,
	net_liquidity NUMERIC NOT NULL,
	transfer_fees_a NUMERIC NOT NULL,
	transfer_fees_b NUMERIC NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (pool, window_size_seconds, window_start_ts)
);

CREATE TABLE IF NOT EXISTS engine_state (
	name TEXT PRIMARY KEY,
	last_processed_ts BIGINT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

const upsertEventSQL = `
	INSERT INTO liquidity_events (
		id, sequence, kind, pool, position, tick_array, event_ts, liquidity,
		tick_lower, tick_upper, token_a, token_b, token_a_transfer_fee, token_b_transfer_fee,
		reward_index, reward_mint, a_to_b, fee_amount, sqrt_price, tick_current,
		error_code, error_name, payload
	) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23)
	ON CONFLICT (id)
	DO UPDATE SET
		sequence = EXCLUDED.sequence,
		kind = EXCLUDED.kind,
		payload = EXCLUDED.payload
`

const upsertWindowSQL = `
	INSERT INTO pool_window_metrics (
		pool, window_size_seconds, window_start_ts, window_end_ts,
		event_count, trade_count, positions_opened, positions_closed,
		deposit_a, deposit_b, withdraw_a, withdraw_b, fees_collected_a, fees_collected_b,
		rewards_collected, volume_a, volume_b, swap_fees_a, swap_fees_b,
		net_liquidity, transfer_fees_a, transfer_fees_b, created_at, updated_at
	) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,now(),now())
	ON CONFLICT (pool, window_size_seconds, window_start_ts)
	DO UPDATE SET
		window_end_ts = EXCLUDED.window_end_ts,
		event_count = EXCLUDED.event_count,
		trade_count = EXCLUDED.trade_count,
		positions_opened = EXCLUDED.positions_opened,
		positions_closed = EXCLUDED.positions_closed,
		deposit_a = EXCLUDED.deposit_a,
		deposit_b = EXCLUDED.deposit_b,
		withdraw_a = EXCLUDED.withdraw_a,
		withdraw_b = EXCLUDED.withdraw_b,
		fees_collected_a = EXCLUDED.fees_collected_a,
		fees_collected_b = EXCLUDED.fees_collected_b,
		rewards_collected = EXCLUDED.rewards_collected,
		volume_a = EXCLUDED.volume_a,
		volume_b = EXCLUDED.volume_b,
		swap_fees_a = EXCLUDED.swap_fees_a,
		swap_fees_b = EXCLUDED.swap_fees_b,
		net_liquidity = EXCLUDED.net_liquidity,
		transfer_fees_a = EXCLUDED.transfer_fees_a,
		transfer_fees_b = EXCLUDED.transfer_fees_b,
		updated_at = now()
`

const upsertSnapshotSQL = `
	INSERT INTO pool_snapshots (pool, liquidity, sqrt_price, tick_current, payload, updated_at)
	VALUES ($1, $2, $3, $4, $5, now())
	ON CONFLICT (pool) DO UPDATE SET
		liquidity = EXCLUDED.liquidity,
		sqrt_price = EXCLUDED.sqrt_price,
		tick_current = EXCLUDED.tick_current,
		payload = EXCLUDED.payload,
		updated_at = now()
`

// Store provides Postgres persistence for events, pool snapshots and
// aggregate windows.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// EnsureSchema creates the tables the store writes to.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// PutEvents upserts events keyed by id.
func (s *Store) PutEvents(ctx context.Context, events []model.LiquidityEvent) error {
	if len(events) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, ev := range events {
		args, err := eventArgs(ev)
		if err != nil {
			return err
		}
		batch.Queue(upsertEventSQL, args...)
	}
	return s.sendBatch(ctx, batch, len(events))
}

// PutPoolSnapshot records the latest decoded state of a pool.
func (s *Store) PutPoolSnapshot(ctx context.Context, view model.PoolView) error {
	args, err := snapshotArgs(view)
	if err != nil {
		return err
	}
	if _, err := s.pool.Exec(ctx, upsertSnapshotSQL, args...); err != nil {
		return fmt.Errorf("upsert pool snapshot %s: %w", view.Address, err)
	}
	return nil
}

// UpsertWindowMetrics inserts or updates window metrics.
func (s *Store) UpsertWindowMetrics(ctx context.Context, metrics []model.PoolWindowMetrics) error {
	if len(metrics) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, m := range metrics {
		batch.Queue(upsertWindowSQL, windowArgs(m)...)
	}
	return s.sendBatch(ctx, batch, len(metrics))
}

func (s *Store) sendBatch(ctx context.Context, batch *pgx.Batch, n int) error {
	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for i := 0; i < n; i++ {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// LoadState returns last_processed_ts for a name.
func (s *Store) LoadState(ctx context.Context, name string) (uint64, bool, error) {
	if name == "" {
		return 0, false, fmt.Errorf("state name required")
	}
	var ts int64
	row := s.pool.QueryRow(ctx, `SELECT last_processed_ts FROM engine_state WHERE name=$1`, name)
	if err := row.Scan(&ts); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return uint64(ts), true, nil
}

// SaveState upserts last_processed_ts for a name.
func (s *Store) SaveState(ctx context.Context, name string, ts uint64) error {
	if name == "" {
		return fmt.Errorf("state name required")
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO engine_state (name, last_processed_ts, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE
		SET last_processed_ts = EXCLUDED.last_processed_ts, updated_at = now()
	`, name, int64(ts))
	return err
}

func eventArgs(ev model.LiquidityEvent) ([]any, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("marshal event %s: %w", ev.ID, err)
	}
	var rewardIndex any
	if ev.RewardIndex != nil {
		rewardIndex = int16(*ev.RewardIndex)
	}
	var aToB any
	if ev.AToB != nil {
		aToB = *ev.AToB
	}
	var errorCode, errorName any
	if ev.Rejection != nil && ev.Rejection.Name != "" {
		errorCode = int64(ev.Rejection.Code)
		errorName = ev.Rejection.Name
	}
	return []any{
		ev.ID,
		int64(ev.Sequence),
		string(ev.Kind),
		ev.Pool,
		nullable(ev.Position),
		nullable(ev.TickArray),
		time.Unix(ev.Timestamp, 0).UTC(),
		nullable(ev.Liquidity),
		ev.TickLower,
		ev.TickUpper,
		nullable(ev.TokenA),
		nullable(ev.TokenB),
		nullable(ev.TokenATransferFee),
		nullable(ev.TokenBTransferFee),
		rewardIndex,
		nullable(ev.RewardMint),
		aToB,
		nullable(ev.FeeAmount),
		nullable(ev.SqrtPrice),
		ev.TickCurrent,
		errorCode,
		errorName,
		payload,
	}, nil
}

func windowArgs(m model.PoolWindowMetrics) []any {
	return []any{
		m.PoolAddress,
		m.WindowSizeSecs,
		m.WindowStart,
		m.WindowEnd,
		int64(m.EventCount),
		int64(m.TradeCount),
		int64(m.PositionsOpened),
		int64(m.PositionsClosed),
		m.DepositA,
		m.DepositB,
		m.WithdrawA,
		m.WithdrawB,
		m.FeesCollectedA,
		m.FeesCollectedB,
		m.RewardsCollected,
		m.VolumeA,
		m.VolumeB,
		m.SwapFeesA,
		m.SwapFeesB,
		m.NetLiquidity,
		m.TransferFeesA,
		m.TransferFeesB,
	}
}

func snapshotArgs(view model.PoolView) ([]any, error) {
	if view.Address == "" {
		return nil, fmt.Errorf("pool snapshot without address")
	}
	payload, err := json.Marshal(view)
	if err != nil {
		return nil, fmt.Errorf("marshal pool snapshot: %w", err)
	}
	return []any{view.Address, view.Liquidity, view.SqrtPrice, view.TickCurrentIndex, payload}, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
