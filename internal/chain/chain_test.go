package chain

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
	"lukechampine.com/uint128"

	"liquidityEngine/internal/clmath"
	"liquidityEngine/internal/dex"
	"liquidityEngine/internal/ledger"
	"liquidityEngine/internal/model"
	"liquidityEngine/internal/tick"
)

func newKey() solana.PublicKey { return solana.NewWallet().PublicKey() }

func TestSplitKeys(t *testing.T) {
	keys := []solana.PublicKey{newKey(), newKey(), newKey(), newKey(), newKey()}
	dup := append(keys, keys[0])

	got, err := SplitKeys(dup, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 || len(got[0]) != 2 || len(got[2]) != 1 {
		t.Fatalf("batches = %v", got)
	}
	if got[2][0] != keys[4] {
		t.Fatalf("last batch = %v, want %s", got[2], keys[4])
	}

	if _, err := SplitKeys(keys, 0); err == nil {
		t.Fatalf("expected error for zero batch size")
	}
}

func TestWithRetry(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), 2, time.Millisecond, func(context.Context) error {
		calls++
		if calls < 3 {
			return &jsonrpc.RPCError{Code: codeNodeUnhealthy, Message: "Node is behind by 42 slots"}
		}
		return nil
	})
	if err != nil || calls != 3 {
		t.Fatalf("err = %v, calls = %d", err, calls)
	}

	calls = 0
	err = withRetry(context.Background(), 1, time.Millisecond, func(context.Context) error {
		calls++
		return jsonrpc.NewHTTPError(http.StatusTooManyRequests, errors.New("too many requests"))
	})
	if err == nil || calls != 2 {
		t.Fatalf("calls = %d, want 2 attempts", calls)
	}
}

func TestWithRetryStopsOnFinalError(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), 5, time.Millisecond, func(context.Context) error {
		calls++
		return &jsonrpc.RPCError{Code: -32602, Message: "Invalid param: WrongSize"}
	})
	var rpcErr *jsonrpc.RPCError
	if !errors.As(err, &rpcErr) || calls != 1 {
		t.Fatalf("calls = %d, want a single attempt", calls)
	}

	calls = 0
	err = withRetry(context.Background(), 5, time.Millisecond, func(context.Context) error {
		calls++
		return fmt.Errorf("get account info: %w", rpc.ErrNotFound)
	})
	if !errors.Is(err, rpc.ErrNotFound) || calls != 1 {
		t.Fatalf("err = %v, calls = %d", err, calls)
	}
}

func TestWithRetryCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := withRetry(ctx, 5, time.Hour, func(context.Context) error {
		calls++
		cancel()
		return &jsonrpc.RPCError{Code: codeNodeUnhealthy}
	})
	if !errors.Is(err, context.Canceled) || calls != 1 {
		t.Fatalf("err = %v, calls = %d", err, calls)
	}
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestRetryable(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"node behind", &jsonrpc.RPCError{Code: -32005}, true},
		{"block not available", &jsonrpc.RPCError{Code: -32004}, true},
		{"min context slot", &jsonrpc.RPCError{Code: -32016}, true},
		{"internal", &jsonrpc.RPCError{Code: -32603}, true},
		{"invalid params", &jsonrpc.RPCError{Code: -32602}, false},
		{"method not found", &jsonrpc.RPCError{Code: -32601}, false},
		{"slot skipped", &jsonrpc.RPCError{Code: -32007}, false},
		{"rate limited", jsonrpc.NewHTTPError(http.StatusTooManyRequests, errors.New("429")), true},
		{"bad gateway", jsonrpc.NewHTTPError(http.StatusBadGateway, errors.New("502")), true},
		{"unauthorized", jsonrpc.NewHTTPError(http.StatusUnauthorized, errors.New("401")), false},
		{"account not found", rpc.ErrNotFound, false},
		{"wrapped not found", fmt.Errorf("position: %w", rpc.ErrNotFound), false},
		{"net timeout", &net.OpError{Op: "read", Net: "tcp", Err: timeoutErr{}}, true},
		{"request deadline", fmt.Errorf("post: %w", context.DeadlineExceeded), true},
		{"truncated body", io.ErrUnexpectedEOF, true},
		{"canceled", context.Canceled, false},
		{"decode", errors.New("invalid character 'x'"), false},
		{"nil", nil, false},
	}
	for _, tc := range cases {
		if got := retryable(tc.err); got != tc.want {
			t.Fatalf("%s: retryable = %v, want %v", tc.name, got, tc.want)
		}
	}
}

type memFetcher map[solana.PublicKey][]byte

func (f memFetcher) GetAccounts(_ context.Context, keys []solana.PublicKey) (map[solana.PublicKey][]byte, error) {
	out := make(map[solana.PublicKey][]byte)
	for _, k := range keys {
		if d, ok := f[k]; ok {
			out[k] = d
		}
	}
	return out, nil
}

func mustEncode(t *testing.T) func(data []byte, err error) []byte {
	return func(data []byte, err error) []byte {
		t.Helper()
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		return data
	}
}

func TestLoadPoolSnapshotAndSeed(t *testing.T) {
	poolKey := newKey()
	pool := &model.Pool{
		TickSpacing: 64,
		SqrtPrice:   clmath.Q64,
		TokenMintA:  newKey(),
		TokenMintB:  newKey(),
		Liquidity:   uint128.From64(500),
	}
	posKey := newKey()
	pos := &model.Position{Whirlpool: poolKey, PositionMint: newKey(), TickLowerIndex: -128, TickUpperIndex: 128, Liquidity: uint128.From64(500)}

	lowerKey, err := ledger.TickArrayAddress(poolKey, tick.StartIndex(-128, 64))
	if err != nil {
		t.Fatalf("address: %v", err)
	}
	upperKey, err := ledger.TickArrayAddress(poolKey, 0)
	if err != nil {
		t.Fatalf("address: %v", err)
	}
	lower := tick.NewDynamic(poolKey, tick.StartIndex(-128, 64))
	upper := tick.NewFixed(poolKey, 0)

	fetcher := memFetcher{
		poolKey:         mustEncode(t)(dex.EncodeWhirlpool(pool)),
		posKey:          mustEncode(t)(dex.EncodePosition(pos)),
		lowerKey:        mustEncode(t)(dex.EncodeTickArray(lower)),
		upperKey:        mustEncode(t)(dex.EncodeTickArray(upper)),
		pool.TokenMintA: mustEncode(t)(dex.EncodeMint(&model.Mint{Decimals: 9})),
		pool.TokenMintB: mustEncode(t)(dex.EncodeMint(&model.Mint{Decimals: 6})),
	}

	snap, err := LoadPoolSnapshot(context.Background(), fetcher, poolKey, []solana.PublicKey{posKey, newKey()}, nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(snap.Positions) != 1 || len(snap.TickArrays) != 2 || len(snap.Mints) != 2 {
		t.Fatalf("snapshot sizes: %d positions, %d arrays, %d mints", len(snap.Positions), len(snap.TickArrays), len(snap.Mints))
	}
	if snap.TickArrays[lowerKey].Kind() != tick.KindDynamic {
		t.Fatalf("lower array kind = %s", snap.TickArrays[lowerKey].Kind())
	}

	store := ledger.NewStore(nil)
	if err := snap.Seed(store); err != nil {
		t.Fatalf("seed: %v", err)
	}
	err = store.View(func(tx *ledger.Tx) error {
		got, err := tx.Pool(poolKey)
		if err != nil {
			return err
		}
		if got.Liquidity != pool.Liquidity {
			t.Fatalf("seeded liquidity = %s", got.Liquidity)
		}
		acct, err := tx.Account(lowerKey)
		if err != nil {
			return err
		}
		if acct.DataLen != tick.DynamicArrayMinLen || acct.Lamports != ledger.RentExempt(tick.DynamicArrayMinLen) {
			t.Fatalf("lower array account = %+v", acct)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("view: %v", err)
	}
}

func TestLoadPoolSnapshotMissingPool(t *testing.T) {
	if _, err := LoadPoolSnapshot(context.Background(), memFetcher{}, newKey(), nil, nil); err == nil {
		t.Fatalf("expected missing pool error")
	}
}
