package tick

import (
	"lukechampine.com/uint128"

	"liquidityEngine/internal/clmath"
)

// Tick is the per-price-point liquidity record.
type Tick struct {
	Initialized bool
	// LiquidityNet is added to pool liquidity when price crosses upward and
	// subtracted when it crosses downward.
	LiquidityNet clmath.Int128
	// LiquidityGross is the total liquidity referencing this tick.
	LiquidityGross       uint128.Uint128
	FeeGrowthOutsideA    uint128.Uint128
	FeeGrowthOutsideB    uint128.Uint128
	RewardGrowthsOutside [clmath.NumRewards]uint128.Uint128
}

// Growths is a set of fee and reward growth accumulators, used both for
// pool-wide globals and for values inside a range.
type Growths struct {
	FeeA    uint128.Uint128
	FeeB    uint128.Uint128
	Rewards [clmath.NumRewards]uint128.Uint128
}

func (g Growths) sub(o Growths) Growths {
	out := Growths{
		FeeA: g.FeeA.SubWrap(o.FeeA),
		FeeB: g.FeeB.SubWrap(o.FeeB),
	}
	for i := range g.Rewards {
		out.Rewards[i] = g.Rewards[i].SubWrap(o.Rewards[i])
	}
	return out
}

func (t Tick) outside() Growths {
	return Growths{FeeA: t.FeeGrowthOutsideA, FeeB: t.FeeGrowthOutsideB, Rewards: t.RewardGrowthsOutside}
}

func (t *Tick) setOutside(g Growths) {
	t.FeeGrowthOutsideA = g.FeeA
	t.FeeGrowthOutsideB = g.FeeB
	t.RewardGrowthsOutside = g.Rewards
}
