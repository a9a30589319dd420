package position

import (
	"github.com/ethereum/go-ethereum/common/math"
	"lukechampine.com/uint128"

	"liquidityEngine/internal/clmath"
	"liquidityEngine/internal/errcode"
	"liquidityEngine/internal/model"
	"liquidityEngine/internal/tick"
)

// ValidateRange checks a position's bounds against the pool's spacing.
func ValidateRange(lower, upper int32, spacing uint16) error {
	switch {
	case spacing == 0:
		return errcode.Wrap(errcode.InvalidTickRange, "zero tick spacing")
	case lower >= upper:
		return errcode.Wrap(errcode.InvalidTickRange, "lower %d >= upper %d", lower, upper)
	case !clmath.IsValidTickIndex(lower) || !clmath.IsValidTickIndex(upper):
		return errcode.Wrap(errcode.InvalidTickRange, "range [%d, %d] out of bounds", lower, upper)
	case !clmath.IsTickAligned(lower, spacing) || !clmath.IsTickAligned(upper, spacing):
		return errcode.Wrap(errcode.InvalidTickRange, "range [%d, %d] not aligned to %d", lower, upper, spacing)
	}
	return nil
}

// ModifyLiquidityUpdate returns p with fees and rewards accrued up to the
// supplied inside growths and its liquidity changed by delta. Accrual runs
// even when delta is zero.
func ModifyLiquidityUpdate(p model.Position, delta clmath.Int128, inside tick.Growths) (model.Position, error) {
	var err error
	if p.FeeOwedA, err = accrue(p.FeeOwedA, p, inside.FeeA, p.FeeGrowthCheckpointA); err != nil {
		return p, err
	}
	if p.FeeOwedB, err = accrue(p.FeeOwedB, p, inside.FeeB, p.FeeGrowthCheckpointB); err != nil {
		return p, err
	}
	p.FeeGrowthCheckpointA = inside.FeeA
	p.FeeGrowthCheckpointB = inside.FeeB

	for i := range p.RewardInfos {
		r := &p.RewardInfos[i]
		if r.AmountOwed, err = accrue(r.AmountOwed, p, inside.Rewards[i], r.GrowthInsideCheckpoint); err != nil {
			return p, err
		}
		r.GrowthInsideCheckpoint = inside.Rewards[i]
	}

	if p.Liquidity, err = clmath.AddLiquidityDelta(p.Liquidity, delta); err != nil {
		return p, err
	}
	return p, nil
}

func accrue(owed uint64, p model.Position, inside, checkpoint uint128.Uint128) (uint64, error) {
	growth := inside.SubWrap(checkpoint)
	earned, err := clmath.MulShiftRight64(p.Liquidity, growth)
	if err != nil {
		return owed, err
	}
	sum, overflow := math.SafeAdd(owed, earned)
	if overflow {
		return owed, errcode.Wrap(errcode.AmountCalcOverflow, "owed %d + %d", owed, earned)
	}
	return sum, nil
}

// Pending returns fees and rewards the position would be owed if it
// were updated with the given inside growths. p is not modified.
func Pending(p model.Position, inside tick.Growths) (feeA, feeB uint64, rewards [clmath.NumRewards]uint64, err error) {
	next, err := ModifyLiquidityUpdate(p, clmath.Int128{}, inside)
	if err != nil {
		return 0, 0, rewards, err
	}
	for i, r := range next.RewardInfos {
		rewards[i] = r.AmountOwed
	}
	return next.FeeOwedA, next.FeeOwedB, rewards, nil
}
