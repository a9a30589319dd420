package dex

import (
	"fmt"

	"liquidityEngine/internal/model"
)

const (
	WhirlpoolLen = 653
	PositionLen  = 216
)

// EncodeWhirlpool serializes a pool in the on-chain Whirlpool layout.
func EncodeWhirlpool(p *model.Pool) ([]byte, error) {
	w := newWriter(WhirlpoolLen)
	d := Discriminator(KindWhirlpool)
	w.bytes(d[:])
	w.key(p.WhirlpoolsConfig)
	w.u8(p.Bump)
	w.u16(p.TickSpacing)
	w.u16(p.FeeTierIndexSeed)
	w.u16(p.FeeRate)
	w.u16(p.ProtocolFeeRate)
	w.u128(p.Liquidity)
	w.u128(p.SqrtPrice)
	w.i32(p.TickCurrentIndex)
	w.u64(p.ProtocolFeeOwedA)
	w.u64(p.ProtocolFeeOwedB)
	w.key(p.TokenMintA)
	w.key(p.TokenVaultA)
	w.u128(p.FeeGrowthGlobalA)
	w.key(p.TokenMintB)
	w.key(p.TokenVaultB)
	w.u128(p.FeeGrowthGlobalB)
	w.u64(p.RewardLastUpdatedTimestamp)
	for _, r := range p.RewardInfos {
		w.key(r.Mint)
		w.key(r.Vault)
		w.key(r.Authority)
		w.u128(r.EmissionsPerSecondX64)
		w.u128(r.GrowthGlobalX64)
	}
	out, err := w.finish(WhirlpoolLen)
	if err != nil {
		return nil, fmt.Errorf("encode whirlpool: %w", err)
	}
	return out, nil
}

// DecodeWhirlpool parses Whirlpool account data.
func DecodeWhirlpool(data []byte) (*model.Pool, error) {
	if err := checkHeader(data, KindWhirlpool, WhirlpoolLen, WhirlpoolLen); err != nil {
		return nil, err
	}
	r := newReader(data[DiscriminatorLen:])
	p := &model.Pool{}
	p.WhirlpoolsConfig = r.key()
	p.Bump = r.u8()
	p.TickSpacing = r.u16()
	p.FeeTierIndexSeed = r.u16()
	p.FeeRate = r.u16()
	p.ProtocolFeeRate = r.u16()
	p.Liquidity = r.u128()
	p.SqrtPrice = r.u128()
	p.TickCurrentIndex = r.i32()
	p.ProtocolFeeOwedA = r.u64()
	p.ProtocolFeeOwedB = r.u64()
	p.TokenMintA = r.key()
	p.TokenVaultA = r.key()
	p.FeeGrowthGlobalA = r.u128()
	p.TokenMintB = r.key()
	p.TokenVaultB = r.key()
	p.FeeGrowthGlobalB = r.u128()
	p.RewardLastUpdatedTimestamp = r.u64()
	for i := range p.RewardInfos {
		ri := &p.RewardInfos[i]
		ri.Mint = r.key()
		ri.Vault = r.key()
		ri.Authority = r.key()
		ri.EmissionsPerSecondX64 = r.u128()
		ri.GrowthGlobalX64 = r.u128()
	}
	if r.err != nil {
		return nil, fmt.Errorf("decode whirlpool: %w", r.err)
	}
	return p, nil
}

// EncodePosition serializes a position in the on-chain Position layout.
func EncodePosition(p *model.Position) ([]byte, error) {
	w := newWriter(PositionLen)
	d := Discriminator(KindPosition)
	w.bytes(d[:])
	w.key(p.Whirlpool)
	w.key(p.PositionMint)
	w.u128(p.Liquidity)
	w.i32(p.TickLowerIndex)
	w.i32(p.TickUpperIndex)
	w.u128(p.FeeGrowthCheckpointA)
	w.u64(p.FeeOwedA)
	w.u128(p.FeeGrowthCheckpointB)
	w.u64(p.FeeOwedB)
	for _, r := range p.RewardInfos {
		w.u128(r.GrowthInsideCheckpoint)
		w.u64(r.AmountOwed)
	}
	out, err := w.finish(PositionLen)
	if err != nil {
		return nil, fmt.Errorf("encode position: %w", err)
	}
	return out, nil
}

// DecodePosition parses Position account data.
func DecodePosition(data []byte) (*model.Position, error) {
	if err := checkHeader(data, KindPosition, PositionLen, PositionLen); err != nil {
		return nil, err
	}
	r := newReader(data[DiscriminatorLen:])
	p := &model.Position{}
	p.Whirlpool = r.key()
	p.PositionMint = r.key()
	p.Liquidity = r.u128()
	p.TickLowerIndex = r.i32()
	p.TickUpperIndex = r.i32()
	p.FeeGrowthCheckpointA = r.u128()
	p.FeeOwedA = r.u64()
	p.FeeGrowthCheckpointB = r.u128()
	p.FeeOwedB = r.u64()
	for i := range p.RewardInfos {
		p.RewardInfos[i].GrowthInsideCheckpoint = r.u128()
		p.RewardInfos[i].AmountOwed = r.u64()
	}
	if r.err != nil {
		return nil, fmt.Errorf("decode position: %w", r.err)
	}
	return p, nil
}
