package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liquidityEngine/internal/engine"
	"liquidityEngine/internal/ledger"
	"liquidityEngine/internal/replay"
	"liquidityEngine/internal/storage"
)

const q64 = "18446744073709551616"

type testEnv struct {
	router http.Handler
	keys   *replay.KeyBook
}

func scriptLine(t *testing.T, op string, args map[string]any) string {
	t.Helper()
	args["op"] = op
	data, err := json.Marshal(args)
	require.NoError(t, err)
	return string(data)
}

// newTestEnv replays a pool with one funded position at tick 0.
func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	mintA, mintB := "mint-x", "mint-y"
	if bytes.Compare(replay.NamedKey(mintA).Bytes(), replay.NamedKey(mintB).Bytes()) > 0 {
		mintA, mintB = mintB, mintA
	}
	lines := []string{
		scriptLine(t, replay.OpFund, map[string]any{"account": "payer", "lamports": 1_000_000_000_000}),
		scriptLine(t, replay.OpCreateMint, map[string]any{"mint": mintA, "decimals": 6, "authority": "issuer", "funder": "payer"}),
		scriptLine(t, replay.OpCreateMint, map[string]any{"mint": mintB, "decimals": 6, "authority": "issuer", "funder": "payer"}),
		scriptLine(t, replay.OpCreateTokenAccount, map[string]any{"account": "owner-a", "mint": mintA, "owner": "owner", "funder": "payer"}),
		scriptLine(t, replay.OpCreateTokenAccount, map[string]any{"account": "owner-b", "mint": mintB, "owner": "owner", "funder": "payer"}),
		scriptLine(t, replay.OpMintTo, map[string]any{"mint": mintA, "account": "owner-a", "authority": "issuer", "amount": 1_000_000_000}),
		scriptLine(t, replay.OpMintTo, map[string]any{"mint": mintB, "account": "owner-b", "authority": "issuer", "amount": 1_000_000_000}),
		scriptLine(t, replay.OpInitializePool, map[string]any{
			"config": "config", "mint_a": mintA, "mint_b": mintB, "tick_spacing": 64,
			"fee_rate": 3000, "protocol_fee_rate": 1000, "initial_sqrt_price": q64, "funder": "payer",
		}),
		scriptLine(t, replay.OpInitializeTickArray, map[string]any{"start_index": -5632, "dynamic": true, "funder": "payer"}),
		scriptLine(t, replay.OpInitializeTickArray, map[string]any{"start_index": 0, "funder": "payer"}),
		scriptLine(t, replay.OpOpenPosition, map[string]any{"name": "pos", "owner": "owner", "funder": "payer", "tick_lower": -1280, "tick_upper": 1280}),
		scriptLine(t, replay.OpIncreaseLiquidity, map[string]any{
			"position": "pos", "authority": "owner", "owner_account_a": "owner-a", "owner_account_b": "owner-b",
			"liquidity": "2693896", "token_max_a": 167_000, "token_max_b": 167_000,
		}),
	}
	script, err := replay.ParseScript(strings.NewReader(strings.Join(lines, "\n")))
	require.NoError(t, err)

	clock := engine.NewManualClock(1_700_000_000)
	eng := engine.New(ledger.NewStore(nil), clock, nil)
	runner := replay.NewRunner(replay.RunConfig{BatchSize: 100}, eng, &storage.MemorySink{}, nil)
	_, err = runner.Run(context.Background(), script)
	require.NoError(t, err)

	return testEnv{router: NewServer(eng.Store(), clock, nil).Router(), keys: runner.Keys()}
}

func (env testEnv) key(t *testing.T, name string) string {
	t.Helper()
	k, err := env.keys.Key(name)
	require.NoError(t, err)
	return k.String()
}

func (env testEnv) get(t *testing.T, path string, out any) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	if out != nil {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
	}
	return rec.Code
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	var body map[string]string
	assert.Equal(t, http.StatusOK, env.get(t, "/health", &body))
	assert.Equal(t, "ok", body["status"])
}

func TestGetPool(t *testing.T) {
	env := newTestEnv(t)
	var pool map[string]any
	require.Equal(t, http.StatusOK, env.get(t, "/pools/"+env.key(t, "pool"), &pool))
	assert.Equal(t, "2693896", pool["liquidity"])
	assert.Equal(t, q64, pool["sqrt_price"])
	assert.EqualValues(t, 0, pool["tick_current_index"])

	var list []map[string]any
	require.Equal(t, http.StatusOK, env.get(t, "/pools", &list))
	assert.Len(t, list, 1)
}

func TestGetPoolErrors(t *testing.T) {
	env := newTestEnv(t)

	var body errorBody
	assert.Equal(t, http.StatusBadRequest, env.get(t, "/pools/not-a-key", &body))
	assert.Contains(t, body.Error, "invalid pool address")

	body = errorBody{}
	assert.Equal(t, http.StatusNotFound, env.get(t, "/pools/"+replay.NamedKey("missing").String(), &body))
	assert.Equal(t, "AccountNotInitialized", body.Name)
	assert.EqualValues(t, 3012, body.Code)
}

func TestGetTickArray(t *testing.T) {
	env := newTestEnv(t)
	var arr TickArrayView
	require.Equal(t, http.StatusOK, env.get(t, "/pools/"+env.key(t, "pool")+"/tick-arrays/-5632", &arr))
	assert.Equal(t, "dynamic", arr.Kind)
	require.Len(t, arr.Ticks, 1)
	assert.EqualValues(t, -1280, arr.Ticks[0].Index)
	assert.Equal(t, "2693896", arr.Ticks[0].LiquidityNet)

	require.Equal(t, http.StatusOK, env.get(t, "/pools/"+env.key(t, "pool")+"/tick-arrays/0", &arr))
	assert.Equal(t, "fixed", arr.Kind)
	require.Len(t, arr.Ticks, 1)
	assert.Equal(t, "-2693896", arr.Ticks[0].LiquidityNet)

	assert.Equal(t, http.StatusBadRequest, env.get(t, "/pools/"+env.key(t, "pool")+"/tick-arrays/abc", nil))
	assert.Equal(t, http.StatusNotFound, env.get(t, "/pools/"+env.key(t, "pool")+"/tick-arrays/5632", nil))
}

func TestGetPosition(t *testing.T) {
	env := newTestEnv(t)
	var pos PositionResponse
	require.Equal(t, http.StatusOK, env.get(t, "/positions/"+env.key(t, "pos"), &pos))
	assert.Equal(t, "2693896", pos.Liquidity)
	assert.EqualValues(t, -1280, pos.TickLowerIndex)
	assert.Equal(t, FeeQuoteView{}, pos.FeeQuote)
	assert.Len(t, pos.RewardQuote, 3)
}

func TestQuoteIncrease(t *testing.T) {
	env := newTestEnv(t)
	var q IncreaseQuoteView
	path := "/quote/increase?pool=" + env.key(t, "pool") + "&lower=-1280&upper=1280&liquidity=2693896"
	require.Equal(t, http.StatusOK, env.get(t, path, &q))
	assert.EqualValues(t, 167000, q.TokenEstA)
	assert.EqualValues(t, 167000, q.TokenEstB)
	assert.GreaterOrEqual(t, q.TokenMaxA, q.TokenEstA)

	var body errorBody
	bad := "/quote/increase?pool=" + env.key(t, "pool") + "&lower=1280&upper=-1280&liquidity=1"
	assert.Equal(t, http.StatusBadRequest, env.get(t, bad, &body))
	assert.NotEmpty(t, body.Name)

	assert.Equal(t, http.StatusBadRequest, env.get(t, "/quote/increase?pool="+env.key(t, "pool")+"&lower=x&upper=1", nil))
}
