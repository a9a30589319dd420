package dex

import (
	"context"
	"testing"

	"github.com/gagliardetto/solana-go"
	"lukechampine.com/uint128"

	"liquidityEngine/internal/clmath"
	"liquidityEngine/internal/model"
	"liquidityEngine/internal/tick"
)

func newKey() solana.PublicKey { return solana.NewWallet().PublicKey() }

func TestWhirlpoolRoundTrip(t *testing.T) {
	pool := &model.Pool{
		WhirlpoolsConfig: newKey(),
		Bump:             254,
		TickSpacing:      64,
		FeeTierIndexSeed: 64,
		FeeRate:          3000,
		ProtocolFeeRate:  300,
		Liquidity:        uint128.From64(2693896),
		SqrtPrice:        clmath.Q64,
		TickCurrentIndex: -1,
		ProtocolFeeOwedA: 7,
		TokenMintA:       newKey(),
		TokenVaultA:      newKey(),
		FeeGrowthGlobalA: uint128.New(1, 2),
		TokenMintB:       newKey(),
		TokenVaultB:      newKey(),
		FeeGrowthGlobalB: uint128.New(3, 4),

		RewardLastUpdatedTimestamp: 1_700_000_000,
	}
	pool.RewardInfos[1] = model.RewardInfo{
		Mint:                  newKey(),
		Vault:                 newKey(),
		Authority:             newKey(),
		EmissionsPerSecondX64: uint128.New(0, 10),
		GrowthGlobalX64:       uint128.New(99, 0),
	}

	data, err := EncodeWhirlpool(pool)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if len(data) != WhirlpoolLen {
		t.Fatalf("len = %d, want %d", len(data), WhirlpoolLen)
	}
	if kind, ok := Identify(data); !ok || kind != KindWhirlpool {
		t.Fatalf("identify = %q %v", kind, ok)
	}
	got, err := DecodeWhirlpool(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if *got != *pool {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, pool)
	}
}

func TestWhirlpoolFieldOffsets(t *testing.T) {
	pool := &model.Pool{TickSpacing: 0x0102, TickCurrentIndex: -2, SqrtPrice: uint128.New(0xaa, 0)}
	data, err := EncodeWhirlpool(pool)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if data[41] != 0x02 || data[42] != 0x01 {
		t.Fatalf("tick spacing bytes = %x", data[41:43])
	}
	if data[65] != 0xaa {
		t.Fatalf("sqrt price low byte = %x", data[65])
	}
	if data[81] != 0xfe || data[84] != 0xff {
		t.Fatalf("tick current bytes = %x", data[81:85])
	}
}

func TestDecodeRejectsWrongAccount(t *testing.T) {
	pos := &model.Position{Whirlpool: newKey(), PositionMint: newKey(), TickLowerIndex: -128, TickUpperIndex: 128}
	data, err := EncodePosition(pos)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if len(data) != PositionLen {
		t.Fatalf("len = %d, want %d", len(data), PositionLen)
	}
	if _, err := DecodeWhirlpool(data); err == nil {
		t.Fatalf("expected whirlpool decode of position data to fail")
	}
	if _, err := DecodePosition(data[:PositionLen-1]); err == nil {
		t.Fatalf("expected short position to fail")
	}
}

func TestPositionRoundTrip(t *testing.T) {
	pos := &model.Position{
		Whirlpool:            newKey(),
		PositionMint:         newKey(),
		Liquidity:            uint128.From64(1_000_000),
		TickLowerIndex:       -1280,
		TickUpperIndex:       1280,
		FeeGrowthCheckpointA: uint128.New(5, 1),
		FeeOwedA:             11,
		FeeGrowthCheckpointB: uint128.New(6, 0),
		FeeOwedB:             12,
	}
	pos.RewardInfos[2] = model.PositionReward{GrowthInsideCheckpoint: uint128.From64(42), AmountOwed: 3}

	data, err := EncodePosition(pos)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodePosition(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if *got != *pos {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, pos)
	}
}

func sampleTick(net int64) tick.Tick {
	return tick.Tick{
		Initialized:       true,
		LiquidityNet:      clmath.NewInt128(net),
		LiquidityGross:    uint128.From64(uint64(max(net, -net))),
		FeeGrowthOutsideA: uint128.New(1, 0),
		FeeGrowthOutsideB: uint128.New(0, 1),
		RewardGrowthsOutside: [clmath.NumRewards]uint128.Uint128{
			uint128.From64(7),
		},
	}
}

func TestFixedTickArrayRoundTrip(t *testing.T) {
	pool := newKey()
	arr := tick.NewFixed(pool, -5632)
	arr.SetAt(0, sampleTick(500))
	arr.SetAt(87, sampleTick(-500))

	data, err := EncodeTickArray(arr)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if len(data) != tick.FixedArrayLen {
		t.Fatalf("len = %d, want %d", len(data), tick.FixedArrayLen)
	}
	owner, err := TickArrayPool(data)
	if err != nil || owner != pool {
		t.Fatalf("pool = %s, %v", owner, err)
	}

	got, err := DecodeTickArray(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Kind() != tick.KindFixed || got.StartIndex() != -5632 {
		t.Fatalf("decoded %s array at %d", got.Kind(), got.StartIndex())
	}
	for i := 0; i < clmath.TickArraySize; i++ {
		if got.At(i) != arr.At(i) {
			t.Fatalf("slot %d mismatch", i)
		}
	}
}

func TestDynamicTickArrayRoundTrip(t *testing.T) {
	pool := newKey()
	arr := tick.NewDynamic(pool, 0)
	arr.SetAt(3, sampleTick(10))
	arr.SetAt(70, sampleTick(-10))

	data, err := EncodeTickArray(arr)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := tick.DynamicArrayMinLen + 2*tick.DynamicTickDataLen
	if len(data) != want {
		t.Fatalf("len = %d, want %d", len(data), want)
	}
	owner, err := TickArrayPool(data)
	if err != nil || owner != pool {
		t.Fatalf("pool = %s, %v", owner, err)
	}

	got, err := DecodeTickArray(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	dyn, ok := got.(*tick.DynamicArray)
	if !ok {
		t.Fatalf("decoded %T", got)
	}
	if dyn.Allocated() != 2 || dyn.Bitmap() != arr.Bitmap() {
		t.Fatalf("allocated %d, bitmap %s", dyn.Allocated(), dyn.Bitmap())
	}
	if dyn.At(70) != arr.At(70) || dyn.At(3) != arr.At(3) {
		t.Fatalf("tick data mismatch")
	}
}

func TestDynamicTickArrayRejectsBitmapMismatch(t *testing.T) {
	arr := tick.NewDynamic(newKey(), 0)
	arr.SetAt(1, sampleTick(10))
	data, err := EncodeTickArray(arr)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	// clear the bitmap bit for slot 1 (bitmap starts at byte 44)
	data[44] = 0
	if _, err := DecodeTickArray(data); err == nil {
		t.Fatalf("expected bitmap mismatch error")
	}
}

func TestMintAndTokenAccount(t *testing.T) {
	authority := newKey()
	data, err := EncodeMint(&model.Mint{Decimals: 9, Supply: 1_000, MintAuthority: authority})
	if err != nil {
		t.Fatalf("encode mint: %v", err)
	}
	m, err := DecodeMint(data)
	if err != nil {
		t.Fatalf("decode mint: %v", err)
	}
	if m.Decimals != 9 || m.Supply != 1_000 || m.MintAuthority != authority {
		t.Fatalf("mint = %+v", m)
	}

	acct := make([]byte, TokenAccountLen)
	mint, owner := newKey(), newKey()
	copy(acct[0:], mint[:])
	copy(acct[32:], owner[:])
	acct[64] = 0x10
	acct[108] = 1
	got, err := DecodeTokenAccount(acct)
	if err != nil {
		t.Fatalf("decode token account: %v", err)
	}
	if got.Mint != mint || got.Owner != owner || got.Amount != 16 || got.HasDelegate() {
		t.Fatalf("token account = %+v", got)
	}
}

type staticFetcher map[solana.PublicKey][]byte

func (f staticFetcher) GetAccounts(_ context.Context, keys []solana.PublicKey) (map[solana.PublicKey][]byte, error) {
	out := make(map[solana.PublicKey][]byte)
	for _, k := range keys {
		if d, ok := f[k]; ok {
			out[k] = d
		}
	}
	return out, nil
}

func TestFetchTokenMetas(t *testing.T) {
	mint := newKey()
	data, err := EncodeMint(&model.Mint{Decimals: 6})
	if err != nil {
		t.Fatalf("encode mint: %v", err)
	}
	cache := NewTokenMetaCache()
	mints, err := FetchTokenMetas(context.Background(), staticFetcher{mint: data}, []solana.PublicKey{mint, newKey()}, cache, nil)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(mints) != 1 {
		t.Fatalf("mints = %d, want 1", len(mints))
	}
	if cache.Decimals(mint, 0) != 6 {
		t.Fatalf("cached decimals = %d", cache.Decimals(mint, 0))
	}
}
