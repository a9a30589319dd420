package model

import (
	"github.com/gagliardetto/solana-go"
	"lukechampine.com/uint128"

	"liquidityEngine/internal/clmath"
)

// Pool is the concentrated-liquidity pool (whirlpool) account.
type Pool struct {
	WhirlpoolsConfig solana.PublicKey
	Bump             uint8
	TickSpacing      uint16
	FeeTierIndexSeed uint16
	FeeRate          uint16
	ProtocolFeeRate  uint16

	// Liquidity counts only positions whose range contains TickCurrentIndex.
	Liquidity        uint128.Uint128
	SqrtPrice        uint128.Uint128
	TickCurrentIndex int32

	ProtocolFeeOwedA uint64
	ProtocolFeeOwedB uint64

	TokenMintA       solana.PublicKey
	TokenVaultA      solana.PublicKey
	FeeGrowthGlobalA uint128.Uint128

	TokenMintB       solana.PublicKey
	TokenVaultB      solana.PublicKey
	FeeGrowthGlobalB uint128.Uint128

	RewardLastUpdatedTimestamp uint64
	RewardInfos                [clmath.NumRewards]RewardInfo
}

// RewardInfo is one emission stream of a pool.
type RewardInfo struct {
	Mint                  solana.PublicKey
	Vault                 solana.PublicKey
	Authority             solana.PublicKey
	EmissionsPerSecondX64 uint128.Uint128
	GrowthGlobalX64       uint128.Uint128
}

// Initialized reports whether the reward slot has a mint.
func (r RewardInfo) Initialized() bool {
	return !r.Mint.IsZero()
}

// RewardGrowthGlobals returns the growth accumulators of every reward slot.
func (p *Pool) RewardGrowthGlobals() [clmath.NumRewards]uint128.Uint128 {
	var out [clmath.NumRewards]uint128.Uint128
	for i, r := range p.RewardInfos {
		out[i] = r.GrowthGlobalX64
	}
	return out
}

// InRange reports whether [lower, upper) contains the current tick.
func (p *Pool) InRange(lower, upper int32) bool {
	return p.TickCurrentIndex >= lower && p.TickCurrentIndex < upper
}
