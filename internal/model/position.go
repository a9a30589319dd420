package model

import (
	"github.com/gagliardetto/solana-go"
	"lukechampine.com/uint128"

	"liquidityEngine/internal/clmath"
)

// Position is a liquidity provider's claim over [TickLowerIndex, TickUpperIndex).
// Ownership follows the holder of the single PositionMint token.
type Position struct {
	Whirlpool      solana.PublicKey
	PositionMint   solana.PublicKey
	Liquidity      uint128.Uint128
	TickLowerIndex int32
	TickUpperIndex int32

	FeeGrowthCheckpointA uint128.Uint128
	FeeOwedA             uint64
	FeeGrowthCheckpointB uint128.Uint128
	FeeOwedB             uint64

	RewardInfos [clmath.NumRewards]PositionReward
}

type PositionReward struct {
	GrowthInsideCheckpoint uint128.Uint128
	AmountOwed             uint64
}

// IsEmpty reports whether the position holds no liquidity and nothing owed.
func (p *Position) IsEmpty() bool {
	if !p.Liquidity.IsZero() || p.FeeOwedA != 0 || p.FeeOwedB != 0 {
		return false
	}
	for _, r := range p.RewardInfos {
		if r.AmountOwed != 0 {
			return false
		}
	}
	return true
}
