package clmath

import (
	"github.com/holiman/uint256"
	"lukechampine.com/uint128"
)

const (
	slippagePrecision       = 1_000_000
	sqrtSlippageDenominator = 100_000
)

// SqrtPriceBounds is the sqrt price window accepted for a slippage tolerance.
type SqrtPriceBounds struct {
	Min uint128.Uint128
	Max uint128.Uint128
}

// SqrtPriceSlippageBounds scales sqrtPrice by sqrt(1 -/+ bps/10000), clamped
// to the valid price range.
func SqrtPriceSlippageBounds(sqrtPrice uint128.Uint128, slippageBps uint16) SqrtPriceBounds {
	bps := uint64(min(slippageBps, BPSDenominator))
	lowerFactor := isqrt(uint64(BPSDenominator) - bps)
	upperFactor := isqrtCeil(uint64(BPSDenominator) + bps)

	scale := func(factor uint64) *uint256.Int {
		v := new(uint256.Int).Mul(u256(sqrtPrice), u256From64(factor))
		return v.Div(v, u256From64(sqrtSlippageDenominator))
	}

	lower := scale(lowerFactor)
	if lower.Lt(u256(MinSqrtPrice)) {
		lower = u256(MinSqrtPrice)
	}
	upper := scale(upperFactor)
	if upper.Gt(u256(MaxSqrtPrice)) {
		upper = u256(MaxSqrtPrice)
	}
	return SqrtPriceBounds{Min: toU128(lower), Max: toU128(upper)}
}

func isqrt(radicand uint64) uint64 {
	v := u256From64(radicand * slippagePrecision)
	return v.Sqrt(v).Uint64()
}

func isqrtCeil(radicand uint64) uint64 {
	n := radicand * slippagePrecision
	r := isqrt(radicand)
	if r*r < n {
		r++
	}
	return r
}

// AdjustAmountForSlippage scales amount by (10000 +/- bps) / 10000, rounding
// towards the side that protects the caller.
func AdjustAmountForSlippage(amount uint64, slippageBps uint16, up bool) uint64 {
	bps := uint64(min(slippageBps, BPSDenominator))
	if up {
		v, err := MulDivU64(amount, uint64(BPSDenominator)+bps, uint64(BPSDenominator), true)
		if err != nil {
			return ^uint64(0)
		}
		return v
	}
	v, _ := MulDivU64(amount, uint64(BPSDenominator)-bps, uint64(BPSDenominator), false)
	return v
}
