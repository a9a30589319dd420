package engine

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"liquidityEngine/internal/errcode"
	"liquidityEngine/internal/ledger"
	"liquidityEngine/internal/metrics"
	"liquidityEngine/internal/model"
	"liquidityEngine/internal/tick"
)

// TickRent is the rent a position moves into a dynamic tick array for each
// of its bounds held there while it has liquidity.
var TickRent = ledger.RentForBytes(tick.DynamicTickDataLen)

// Clock supplies the unix timestamp used for reward accrual.
type Clock interface {
	Now() uint64
}

// SystemClock reads wall time.
type SystemClock struct{}

func (SystemClock) Now() uint64 { return uint64(time.Now().Unix()) }

// ManualClock is a settable clock for replays and tests.
type ManualClock struct {
	mu  sync.Mutex
	now uint64
}

func NewManualClock(start uint64) *ManualClock {
	return &ManualClock{now: start}
}

func (c *ManualClock) Now() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by seconds.
func (c *ManualClock) Advance(seconds uint64) {
	c.mu.Lock()
	c.now += seconds
	c.mu.Unlock()
}

// Set moves the clock to ts.
func (c *ManualClock) Set(ts uint64) {
	c.mu.Lock()
	c.now = ts
	c.mu.Unlock()
}

// RentMove is a lamport movement caused by an operation.
type RentMove struct {
	From     solana.PublicKey
	To       solana.PublicKey
	Lamports uint64
	Reason   string
}

// StorageChange reports a dynamic tick array resize.
type StorageChange struct {
	TickArray solana.PublicKey
	Before    int
	After     int
}

// Result carries every observable effect of a committed operation.
// Composite operations emit one event per step.
type Result struct {
	Events    []*model.LiquidityEvent
	RentMoves []RentMove
	Storage   []StorageChange
	Transfers []ledger.Transfer
}

// Engine applies liquidity operations to a ledger store. Each operation is
// one atomic store update.
type Engine struct {
	store  *ledger.Store
	clock  Clock
	logger *zap.Logger
	seq    atomic.Uint64
}

func New(store *ledger.Store, clock Clock, logger *zap.Logger) *Engine {
	if clock == nil {
		clock = SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{store: store, clock: clock, logger: logger}
}

// Store exposes the underlying ledger.
func (e *Engine) Store() *ledger.Store { return e.store }

// Clock exposes the engine clock.
func (e *Engine) Clock() Clock { return e.clock }

// Sequence is the number of the last event handed out.
func (e *Engine) Sequence() uint64 { return e.seq.Load() }

// opFunc mutates tx for one operation at time now and records effects in res.
type opFunc func(tx *ledger.Tx, now uint64, res *Result) error

func (e *Engine) run(ctx context.Context, op string, fn opFunc) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	now := e.clock.Now()
	res := &Result{}

	err := e.store.Update(func(tx *ledger.Tx) error {
		if err := fn(tx, now, res); err != nil {
			return err
		}
		for _, ev := range res.Events {
			ev.ID = uuid.NewString()
			ev.Sequence = e.seq.Add(1)
			ev.Timestamp = int64(now)
		}
		return nil
	})
	metrics.ObserveOperation(op, start, err)
	if err != nil {
		e.logger.Warn("operation rejected", zap.String("op", op), zap.Error(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, ev := range res.Events {
		metrics.LiquidityEvents.WithLabelValues(string(ev.Kind)).Inc()
	}
	for _, m := range res.RentMoves {
		metrics.RentLamportsMoved.WithLabelValues(m.Reason).Add(float64(m.Lamports))
	}
	e.logger.Debug("operation applied",
		zap.String("op", op),
		zap.Int("rent_moves", len(res.RentMoves)),
		zap.Int("transfers", len(res.Transfers)),
	)
	return res, nil
}

// Rejected builds the event recorded for an operation that failed with err.
// It takes the next sequence number so rejections interleave with applied
// events.
func (e *Engine) Rejected(op string, err error) *model.LiquidityEvent {
	rej := &model.Rejection{Op: op, Error: err.Error()}
	if code, ok := errcode.From(err); ok {
		rej.Program = code.Program
		rej.Code = code.Code
		rej.Name = code.Name
	}
	metrics.LiquidityEvents.WithLabelValues(string(model.EventRejected)).Inc()
	return &model.LiquidityEvent{
		ID:        uuid.NewString(),
		Sequence:  e.seq.Add(1),
		Kind:      model.EventRejected,
		Timestamp: int64(e.clock.Now()),
		Rejection: rej,
	}
}

// Event returns the last event emitted, or nil.
func (r *Result) Event() *model.LiquidityEvent {
	if len(r.Events) == 0 {
		return nil
	}
	return r.Events[len(r.Events)-1]
}

func (r *Result) emit(ev *model.LiquidityEvent) {
	r.Events = append(r.Events, ev)
}

func (r *Result) moveRent(tx *ledger.Tx, from, to solana.PublicKey, lamports uint64, reason string) error {
	if lamports == 0 {
		return nil
	}
	if err := tx.MoveLamports(from, to, lamports); err != nil {
		return err
	}
	r.RentMoves = append(r.RentMoves, RentMove{From: from, To: to, Lamports: lamports, Reason: reason})
	return nil
}

func (r *Result) transfer(tx *ledger.Tx, from, to, authority solana.PublicKey, amount uint64) error {
	if amount == 0 {
		return nil
	}
	t, err := tx.Transfer(from, to, authority, amount)
	if err != nil {
		return err
	}
	r.Transfers = append(r.Transfers, t)
	return nil
}

func formatU64(v uint64) string { return strconv.FormatUint(v, 10) }
