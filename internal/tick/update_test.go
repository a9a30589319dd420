package tick

import (
	"testing"

	"github.com/stretchr/testify/require"
	"lukechampine.com/uint128"

	"liquidityEngine/internal/clmath"
	"liquidityEngine/internal/errcode"
)

func testGlobals() Growths {
	return Growths{
		FeeA:    uint128.From64(1000),
		FeeB:    uint128.From64(2000),
		Rewards: [clmath.NumRewards]uint128.Uint128{uint128.From64(10), uint128.From64(20), uint128.Zero},
	}
}

func TestApplyLiquidityDeltaInitializes(t *testing.T) {
	g := testGlobals()

	lower, err := ApplyLiquidityDelta(Tick{}, -128, 0, clmath.NewInt128(100), false, g)
	require.NoError(t, err)
	require.True(t, lower.Initialized)
	require.Equal(t, clmath.NewInt128(100), lower.LiquidityNet)
	require.Equal(t, uint128.From64(100), lower.LiquidityGross)
	require.Equal(t, g.FeeA, lower.FeeGrowthOutsideA)
	require.Equal(t, g.Rewards, lower.RewardGrowthsOutside)

	upper, err := ApplyLiquidityDelta(Tick{}, 128, 0, clmath.NewInt128(100), true, g)
	require.NoError(t, err)
	require.Equal(t, clmath.NewInt128(-100), upper.LiquidityNet)
	require.True(t, upper.FeeGrowthOutsideA.IsZero())
	require.True(t, upper.FeeGrowthOutsideB.IsZero())

	// outside growths are kept once initialized
	again, err := ApplyLiquidityDelta(upper, 128, 256, clmath.NewInt128(50), true, g)
	require.NoError(t, err)
	require.True(t, again.FeeGrowthOutsideA.IsZero())
	require.Equal(t, uint128.From64(150), again.LiquidityGross)
}

func TestApplyLiquidityDeltaSharedTick(t *testing.T) {
	// one position's upper is another's lower at the same tick
	g := testGlobals()
	d := clmath.NewInt128(77)

	tk, err := ApplyLiquidityDelta(Tick{}, 0, 0, d, true, g)
	require.NoError(t, err)
	tk, err = ApplyLiquidityDelta(tk, 0, 0, d, false, g)
	require.NoError(t, err)
	require.True(t, tk.LiquidityNet.IsZero())
	require.Equal(t, uint128.From64(154), tk.LiquidityGross)
	require.True(t, tk.Initialized)
}

func TestApplyLiquidityDeltaResetAndErrors(t *testing.T) {
	g := testGlobals()
	tk, err := ApplyLiquidityDelta(Tick{}, 0, 0, clmath.NewInt128(10), false, g)
	require.NoError(t, err)

	same, err := ApplyLiquidityDelta(tk, 0, 0, clmath.Int128{}, false, g)
	require.NoError(t, err)
	require.Equal(t, tk, same)

	cleared, err := ApplyLiquidityDelta(tk, 0, 0, clmath.NewInt128(-10), false, g)
	require.NoError(t, err)
	require.Equal(t, Tick{}, cleared)

	_, err = ApplyLiquidityDelta(tk, 0, 0, clmath.NewInt128(-11), false, g)
	require.ErrorIs(t, err, errcode.LiquidityUnderflow)

	full := Tick{Initialized: true, LiquidityGross: uint128.Max, LiquidityNet: clmath.MaxInt128}
	_, err = ApplyLiquidityDelta(full, 0, 0, clmath.NewInt128(1), false, g)
	require.ErrorIs(t, err, errcode.LiquidityOverflow)

	netFull := Tick{Initialized: true, LiquidityGross: uint128.From64(1), LiquidityNet: clmath.MaxInt128}
	_, err = ApplyLiquidityDelta(netFull, 0, 0, clmath.NewInt128(1), false, g)
	require.ErrorIs(t, err, errcode.LiquidityNetOverflow)
}

func TestGrowthsInside(t *testing.T) {
	g := testGlobals()
	lower := Tick{Initialized: true, FeeGrowthOutsideA: uint128.From64(100), FeeGrowthOutsideB: uint128.From64(200)}
	upper := Tick{Initialized: true, FeeGrowthOutsideA: uint128.From64(300), FeeGrowthOutsideB: uint128.From64(50)}

	// in range: global - lower.outside - upper.outside
	in := GrowthsInside(0, -128, lower, 128, upper, g)
	require.Equal(t, uint128.From64(600), in.FeeA)
	require.Equal(t, uint128.From64(1750), in.FeeB)

	// below range: lower.outside - upper.outside
	below := GrowthsInside(-256, -128, lower, 128, upper, g)
	require.Equal(t, uint128.Zero.SubWrap(uint128.From64(200)), below.FeeA)

	// uninitialized ticks give nothing inside
	none := GrowthsInside(0, -128, Tick{}, 128, Tick{}, g)
	require.True(t, none.FeeA.IsZero())
	require.True(t, none.Rewards[0].IsZero())
}

func TestCross(t *testing.T) {
	g := testGlobals()
	tk := Tick{Initialized: true, FeeGrowthOutsideA: uint128.From64(400), LiquidityNet: clmath.NewInt128(30)}
	crossed := Cross(tk, g)
	require.Equal(t, uint128.From64(600), crossed.FeeGrowthOutsideA)
	require.Equal(t, uint128.From64(2000), crossed.FeeGrowthOutsideB)
	require.Equal(t, tk, Cross(crossed, g))

	l, err := CrossLiquidity(tk, uint128.From64(100), true)
	require.NoError(t, err)
	require.Equal(t, uint128.From64(70), l)
	l, err = CrossLiquidity(tk, uint128.From64(100), false)
	require.NoError(t, err)
	require.Equal(t, uint128.From64(130), l)
	_, err = CrossLiquidity(tk, uint128.From64(10), true)
	require.ErrorIs(t, err, errcode.LiquidityUnderflow)
}
