package clmath

import (
	"github.com/holiman/uint256"
	"lukechampine.com/uint128"

	"liquidityEngine/internal/errcode"
)

// AddLiquidityDelta applies a signed delta to an unsigned liquidity value.
func AddLiquidityDelta(liquidity uint128.Uint128, delta Int128) (uint128.Uint128, error) {
	if delta.Sign() >= 0 {
		sum := liquidity.AddWrap(delta.Abs())
		if sum.Cmp(liquidity) < 0 {
			return uint128.Zero, errcode.LiquidityOverflow
		}
		return sum, nil
	}
	abs := delta.Abs()
	if liquidity.Cmp(abs) < 0 {
		return uint128.Zero, errcode.LiquidityUnderflow
	}
	return liquidity.Sub(abs), nil
}

// LiquidityToDelta converts an unsigned liquidity amount into a signed delta,
// negated when increase is false.
func LiquidityToDelta(liquidity uint128.Uint128, increase bool) (Int128, error) {
	d, ok := Int128FromUint128(liquidity)
	if !ok {
		return Int128{}, errcode.Wrap(errcode.LiquidityTooHigh, "liquidity %s exceeds i128", liquidity)
	}
	if increase {
		return d, nil
	}
	neg, _ := d.Neg()
	return neg, nil
}

// EstimateLiquidity returns the largest liquidity fundable by amountA and
// amountB over [lower, upper) with the pool at currentTick.
func EstimateLiquidity(currentTick, lower, upper int32, amountA, amountB uint64) (uint128.Uint128, error) {
	if upper < lower {
		return uint128.Zero, errcode.Wrap(errcode.InvalidTickRange, "upper %d below lower %d", upper, lower)
	}
	current, err := TickIndexToSqrtPrice(currentTick)
	if err != nil {
		return uint128.Zero, err
	}
	return EstimateLiquidityAtSqrtPrice(current, currentTick, lower, upper, amountA, amountB)
}

// EstimateLiquidityAtSqrtPrice is EstimateLiquidity with an explicit sqrt
// price for the in-range legs.
func EstimateLiquidityAtSqrtPrice(current uint128.Uint128, currentTick, lower, upper int32, amountA, amountB uint64) (uint128.Uint128, error) {
	lowerSqrt, err := TickIndexToSqrtPrice(lower)
	if err != nil {
		return uint128.Zero, err
	}
	upperSqrt, err := TickIndexToSqrtPrice(upper)
	if err != nil {
		return uint128.Zero, err
	}
	switch {
	case currentTick >= upper:
		return LiquidityFromTokenB(lowerSqrt, upperSqrt, amountB)
	case currentTick < lower:
		return LiquidityFromTokenA(lowerSqrt, upperSqrt, amountA)
	}
	fromA, err := LiquidityFromTokenA(current, upperSqrt, amountA)
	if err != nil {
		return uint128.Zero, err
	}
	fromB, err := LiquidityFromTokenB(lowerSqrt, current, amountB)
	if err != nil {
		return uint128.Zero, err
	}
	if fromA.Cmp(fromB) < 0 {
		return fromA, nil
	}
	return fromB, nil
}

// LiquidityFromTokenA is ((amount * hi * lo) >> 64) / (hi - lo).
func LiquidityFromTokenA(sqrtA, sqrtB uint128.Uint128, amount uint64) (uint128.Uint128, error) {
	lo, hi := orderSqrtPrices(sqrtA, sqrtB)
	if lo.Equals(hi) {
		return uint128.Zero, errcode.DivideByZero
	}
	num := new(uint256.Int).Mul(u256From64(amount), u256(hi))
	if _, overflow := num.MulOverflow(num, u256(lo)); overflow {
		return uint128.Zero, errcode.MultiplicationOverflow
	}
	num.Rsh(num, 64)
	num.Div(num, u256(hi.Sub(lo)))
	if !fitsU128(num) {
		return uint128.Zero, errcode.Wrap(errcode.LiquidityTooHigh, "liquidity from token a overflows u128")
	}
	return toU128(num), nil
}

// LiquidityFromTokenB is (amount << 64) / (hi - lo).
func LiquidityFromTokenB(sqrtA, sqrtB uint128.Uint128, amount uint64) (uint128.Uint128, error) {
	lo, hi := orderSqrtPrices(sqrtA, sqrtB)
	if lo.Equals(hi) {
		return uint128.Zero, errcode.DivideByZero
	}
	num := new(uint256.Int).Lsh(u256From64(amount), 64)
	num.Div(num, u256(hi.Sub(lo)))
	if !fitsU128(num) {
		return uint128.Zero, errcode.Wrap(errcode.LiquidityTooHigh, "liquidity from token b overflows u128")
	}
	return toU128(num), nil
}

func orderSqrtPrices(a, b uint128.Uint128) (uint128.Uint128, uint128.Uint128) {
	if a.Cmp(b) > 0 {
		return b, a
	}
	return a, b
}
