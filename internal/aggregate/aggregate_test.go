package aggregate

import (
	"context"
	"encoding/json"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liquidityEngine/internal/model"
)

type memWriter struct {
	windows []model.PoolWindowMetrics
	calls   int
}

func (w *memWriter) UpsertWindowMetrics(_ context.Context, metrics []model.PoolWindowMetrics) error {
	w.calls++
	w.windows = append(w.windows, metrics...)
	return nil
}

func (w *memWriter) byStart(pool string) map[int64]model.PoolWindowMetrics {
	out := make(map[int64]model.PoolWindowMetrics)
	for _, m := range w.windows {
		if m.PoolAddress == pool {
			out[m.WindowStart.Unix()] = m
		}
	}
	return out
}

func eventsJSONL(t *testing.T, events ...model.LiquidityEvent) string {
	t.Helper()
	var b strings.Builder
	for _, ev := range events {
		data, err := json.Marshal(ev)
		require.NoError(t, err)
		b.Write(data)
		b.WriteByte('\n')
	}
	return b.String()
}

func boolPtr(v bool) *bool { return &v }

func TestAccumulatorAddEvent(t *testing.T) {
	acc := NewAccumulator("pool", 0, 60)

	require.NoError(t, acc.AddEvent(model.LiquidityEvent{Kind: model.EventPositionOpened, Timestamp: 1}))
	require.NoError(t, acc.AddEvent(model.LiquidityEvent{
		Kind: model.EventLiquidityIncreased, Timestamp: 2,
		Liquidity: "2693896", TokenA: "167000", TokenB: "167000", TokenATransferFee: "10",
	}))
	require.NoError(t, acc.AddEvent(model.LiquidityEvent{
		Kind: model.EventLiquidityDecreased, Timestamp: 3,
		Liquidity: "1000", TokenA: "60", TokenB: "61",
	}))
	require.NoError(t, acc.AddEvent(model.LiquidityEvent{Kind: model.EventTraded, Timestamp: 4, AToB: boolPtr(true), TokenA: "500", TokenB: "490", FeeAmount: "2"}))
	require.NoError(t, acc.AddEvent(model.LiquidityEvent{Kind: model.EventTraded, Timestamp: 5, AToB: boolPtr(false), TokenA: "100", TokenB: "105", FeeAmount: "1"}))
	require.NoError(t, acc.AddEvent(model.LiquidityEvent{Kind: model.EventRewardCollected, Timestamp: 6, TokenA: "7"}))

	assert.Equal(t, uint64(6), acc.EventCount)
	assert.Equal(t, uint64(2), acc.TradeCount)
	assert.Equal(t, uint64(1), acc.PositionsOpened)
	assert.Equal(t, "2692896", acc.NetLiquidity.String())
	assert.Equal(t, "167000", acc.DepositA.String())
	assert.Equal(t, "61", acc.WithdrawB.String())
	assert.Equal(t, "600", acc.VolumeA.String())
	assert.Equal(t, "2", acc.SwapFeesA.String())
	assert.Equal(t, "1", acc.SwapFeesB.String())
	assert.Equal(t, "10", acc.TransferFeesA.String())
	assert.Equal(t, "7", acc.Rewards.String())
	assert.Equal(t, uint64(6), acc.LastTS)
}

func TestAccumulatorRejectsBadAmounts(t *testing.T) {
	acc := NewAccumulator("pool", 0, 60)
	err := acc.AddEvent(model.LiquidityEvent{Kind: model.EventLiquidityIncreased, Liquidity: "5", TokenA: "1", TokenB: "x"})
	require.Error(t, err)
	assert.Zero(t, acc.NetLiquidity.Sign(), "failed event must not be partially applied")
	assert.Zero(t, acc.DepositA.Sign())

	require.Error(t, acc.AddEvent(model.LiquidityEvent{Kind: model.EventTraded, TokenA: "1"}))
}

func TestFormatTokenAmount(t *testing.T) {
	assert.Equal(t, "0.167000", formatTokenAmount(big.NewInt(167000), 6))
	assert.Equal(t, "167000", formatTokenAmount(big.NewInt(167000), 0))
	assert.Equal(t, "0", formatTokenAmount(nil, 6))
}

func TestParsePoolDecimals(t *testing.T) {
	d, err := ParsePoolDecimals(" 9/6 ")
	require.NoError(t, err)
	assert.Equal(t, PoolDecimals{A: 9, B: 6}, d)

	for _, bad := range []string{"9", "a/6", "9/300", "1/2/3"} {
		_, err := ParsePoolDecimals(bad)
		assert.Error(t, err, bad)
	}
}

func TestAggregatorWindows(t *testing.T) {
	input := eventsJSONL(t,
		model.LiquidityEvent{Kind: model.EventLiquidityIncreased, Pool: "p1", Timestamp: 100, Liquidity: "10", TokenA: "1000000", TokenB: "2000"},
		model.LiquidityEvent{Kind: model.EventRejected, Pool: "p1", Timestamp: 101, Rejection: &model.Rejection{Op: "increase_liquidity"}},
		model.LiquidityEvent{Kind: model.EventFeesCollected, Pool: "p1", Timestamp: 110, TokenA: "5", TokenB: "6"},
		model.LiquidityEvent{Kind: model.EventLiquidityIncreased, Pool: "p2", Timestamp: 115, Liquidity: "3", TokenA: "1", TokenB: "1"},
		model.LiquidityEvent{Kind: model.EventLiquidityDecreased, Pool: "p1", Timestamp: 130, Liquidity: "4", TokenA: "500000", TokenB: "800"},
	)
	input += "not json\n"

	writer := &memWriter{}
	state := &FileStateStore{Path: filepath.Join(t.TempDir(), "state.json")}
	agg := NewAggregator(Config{
		WindowSeconds: 60,
		StateStore:    state,
		Decimals:      map[string]PoolDecimals{"p1": {A: 6, B: 3}},
	}, writer, nil)

	require.NoError(t, agg.RunReader(context.Background(), strings.NewReader(input)))
	require.Len(t, writer.windows, 3)

	p1 := writer.byStart("p1")
	first := p1[60]
	assert.Equal(t, uint64(2), first.EventCount)
	assert.Equal(t, "1.000000", first.DepositA)
	assert.Equal(t, "2.000", first.DepositB)
	assert.Equal(t, "0.000005", first.FeesCollectedA)
	assert.Equal(t, "10", first.NetLiquidity)
	assert.Equal(t, int64(120), first.WindowEnd.Unix())

	second := p1[120]
	assert.Equal(t, "0.500000", second.WithdrawA)
	assert.Equal(t, "-4", second.NetLiquidity)

	raw := writer.byStart("p2")[60]
	assert.Equal(t, "1", raw.DepositA)

	last, ok, err := state.Load(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint64(130), last)
}

func TestAggregatorResumesAfterState(t *testing.T) {
	input := eventsJSONL(t,
		model.LiquidityEvent{Kind: model.EventPositionOpened, Pool: "p1", Timestamp: 50},
		model.LiquidityEvent{Kind: model.EventPositionOpened, Pool: "p1", Timestamp: 70},
	)
	writer := &memWriter{}
	agg := NewAggregator(Config{WindowSeconds: 60, RecomputeFrom: 60}, writer, nil)
	require.NoError(t, agg.RunReader(context.Background(), strings.NewReader(input)))

	require.Len(t, writer.windows, 1)
	assert.Equal(t, int64(60), writer.windows[0].WindowStart.Unix())
	assert.Equal(t, uint64(1), writer.windows[0].PositionsOpened)
}

func TestAggregatorRequiresWindow(t *testing.T) {
	agg := NewAggregator(Config{}, &memWriter{}, nil)
	assert.Error(t, agg.RunReader(context.Background(), strings.NewReader("")))

	agg = NewAggregator(Config{WindowSeconds: 60}, nil, nil)
	assert.Error(t, agg.RunReader(context.Background(), strings.NewReader("")))
}

func TestJsonlWindowWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "windows.jsonl")
	w := NewJsonlWindowWriter(path)
	ctx := context.Background()
	require.NoError(t, w.UpsertWindowMetrics(ctx, []model.PoolWindowMetrics{{PoolAddress: "p1", EventCount: 2}}))
	require.NoError(t, w.UpsertWindowMetrics(ctx, []model.PoolWindowMetrics{{PoolAddress: "p2"}}))
	require.NoError(t, w.UpsertWindowMetrics(ctx, nil))

	agg := NewAggregator(Config{WindowSeconds: 60}, w, nil)
	require.NoError(t, agg.RunReader(ctx, strings.NewReader("")))

	data, err := readLines(path)
	require.NoError(t, err)
	require.Len(t, data, 2)
	var first model.PoolWindowMetrics
	require.NoError(t, json.Unmarshal([]byte(data[0]), &first))
	assert.Equal(t, "p1", first.PoolAddress)
	assert.Equal(t, uint64(2), first.EventCount)
}

func readLines(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return strings.Split(strings.TrimSpace(string(raw)), "\n"), nil
}

func TestFileStateStoreKeepsNamedEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "agg.json")
	ctx := context.Background()
	minute := &FileStateStore{Path: path, Name: "aggregator:60"}
	hour := &FileStateStore{Path: path, Name: "aggregator:3600"}

	_, ok, err := minute.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, minute.Save(ctx, 120))
	require.NoError(t, hour.Save(ctx, 3600))
	require.NoError(t, minute.Save(ctx, 180))

	got, ok, err := minute.Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint64(180), got)

	got, _, err = hour.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(3600), got)

	var nilStore *FileStateStore
	require.NoError(t, nilStore.Save(ctx, 1))
}
