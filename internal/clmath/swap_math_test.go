package clmath

import (
	"testing"

	"github.com/stretchr/testify/require"
	"lukechampine.com/uint128"
)

func TestComputeSwapStep(t *testing.T) {
	liquidity := uint128.From64(2_693_896_000)
	current := MustTickIndexToSqrtPrice(0)
	lower := MustTickIndexToSqrtPrice(-1280)
	upper := MustTickIndexToSqrtPrice(1280)

	cases := []struct {
		name      string
		remaining uint64
		target    uint128.Uint128
		isInput   bool
		aToB      bool
		in, out   uint64
		next      string
		fee       uint64
	}{
		{"exact in a to b, partial", 10_000, lower, true, true, 9970, 9969, "18446675803309447457", 30},
		{"exact in a to b, reaches target", 1_000_000_000_000, lower, true, true, 178036860, 166999998, lower.String(), 535718},
		{"exact out a to b", 10_000, lower, false, true, 10001, 10000, "18446675597628538430", 31},
		{"exact in b to a", 10_000, upper, true, false, 9970, 9969, "18446812344362321761", 30},
		{"exact out b to a", 10_000, upper, false, false, 10001, 10000, "18446812550044755517", 31},
		{"exact out b to a, reaches target", 1_000_000_000_000, upper, false, false, 178036860, 166999998, upper.String(), 502508},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			step, err := ComputeSwapStep(tc.remaining, 3000, liquidity, current, tc.target, tc.isInput, tc.aToB)
			require.NoError(t, err)
			require.Equal(t, tc.in, step.AmountIn)
			require.Equal(t, tc.out, step.AmountOut)
			require.Equal(t, tc.next, step.NextSqrtPrice.String())
			require.Equal(t, tc.fee, step.FeeAmount)
		})
	}
}

func TestComputeSwapStepZeroLiquidityJumpsToTarget(t *testing.T) {
	target := MustTickIndexToSqrtPrice(-1280)
	step, err := ComputeSwapStep(10_000, 3000, uint128.Zero, MustTickIndexToSqrtPrice(0), target, true, true)
	require.NoError(t, err)
	require.Equal(t, target, step.NextSqrtPrice)
	require.Zero(t, step.AmountIn)
	require.Zero(t, step.AmountOut)
	require.Zero(t, step.FeeAmount)
}

func TestNextSqrtPriceFromBRoundsDownOnOutput(t *testing.T) {
	l := uint128.From64(3)
	next, err := NextSqrtPriceFromB(Q64, l, 1, false)
	require.NoError(t, err)
	// 2^64 / 3 rounded up is subtracted
	require.Equal(t, Q64.Sub(uint128.From64(6148914691236517206)), next)
}
