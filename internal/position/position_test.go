package position

import (
	"testing"

	"github.com/stretchr/testify/require"
	"lukechampine.com/uint128"

	"liquidityEngine/internal/clmath"
	"liquidityEngine/internal/errcode"
	"liquidityEngine/internal/model"
	"liquidityEngine/internal/tick"
)

func TestValidateRange(t *testing.T) {
	cases := []struct {
		name         string
		lower, upper int32
		spacing      uint16
		ok           bool
	}{
		{"aligned", -1280, 1280, 64, true},
		{"full range", -443584, 443584, 64, true},
		{"equal bounds", 128, 128, 64, false},
		{"inverted", 128, -128, 64, false},
		{"unaligned lower", -100, 128, 64, false},
		{"below min tick", -443700, 0, 1, false},
		{"above max tick", 0, 443637, 1, false},
		{"zero spacing", -128, 128, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateRange(tc.lower, tc.upper, tc.spacing)
			if tc.ok {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, errcode.InvalidTickRange)
		})
	}
}

func TestModifyLiquidityUpdateAccrues(t *testing.T) {
	p := model.Position{
		Liquidity:            uint128.From64(1000),
		FeeGrowthCheckpointA: clmath.Q64,
		FeeOwedA:             3,
	}
	inside := tick.Growths{
		FeeA: clmath.Q64.Mul64(3),
		FeeB: clmath.Q64,
	}
	inside.Rewards[2] = clmath.Q64.Mul64(2)

	next, err := ModifyLiquidityUpdate(p, clmath.NewInt128(-1000), inside)
	require.NoError(t, err)
	require.Equal(t, uint64(2003), next.FeeOwedA)
	require.Equal(t, uint64(1000), next.FeeOwedB)
	require.Equal(t, uint64(2000), next.RewardInfos[2].AmountOwed)
	require.Equal(t, inside.FeeA, next.FeeGrowthCheckpointA)
	require.Equal(t, inside.Rewards[2], next.RewardInfos[2].GrowthInsideCheckpoint)
	require.True(t, next.Liquidity.IsZero())
	require.False(t, next.IsEmpty())
}

func TestModifyLiquidityUpdateWrappingGrowth(t *testing.T) {
	// inside wrapped past 2^128 since the checkpoint
	p := model.Position{
		Liquidity:            uint128.From64(1),
		FeeGrowthCheckpointA: uint128.Max.Sub(clmath.Q64).Add64(1),
	}
	next, err := ModifyLiquidityUpdate(p, clmath.Int128{}, tick.Growths{FeeA: clmath.Q64})
	require.NoError(t, err)
	require.Equal(t, uint64(2), next.FeeOwedA)
	require.Equal(t, uint128.From64(1), next.Liquidity)
}

func TestModifyLiquidityUpdateErrors(t *testing.T) {
	p := model.Position{Liquidity: uint128.From64(10)}
	_, err := ModifyLiquidityUpdate(p, clmath.NewInt128(-11), tick.Growths{})
	require.ErrorIs(t, err, errcode.LiquidityUnderflow)

	p = model.Position{Liquidity: uint128.From64(2), FeeOwedA: ^uint64(0)}
	_, err = ModifyLiquidityUpdate(p, clmath.Int128{}, tick.Growths{FeeA: clmath.Q64})
	require.ErrorIs(t, err, errcode.AmountCalcOverflow)
}

func TestPendingLeavesPositionUntouched(t *testing.T) {
	p := model.Position{Liquidity: uint128.From64(50), FeeOwedB: 1}
	inside := tick.Growths{FeeB: clmath.Q64}
	inside.Rewards[0] = clmath.Q64

	feeA, feeB, rewards, err := Pending(p, inside)
	require.NoError(t, err)
	require.Zero(t, feeA)
	require.Equal(t, uint64(51), feeB)
	require.Equal(t, uint64(50), rewards[0])
	require.Equal(t, uint64(1), p.FeeOwedB)
	require.True(t, p.FeeGrowthCheckpointB.IsZero())
}
