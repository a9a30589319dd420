package clmath

import (
	"github.com/holiman/uint256"
	"lukechampine.com/uint128"

	"liquidityEngine/internal/errcode"
)

// AmountDeltaA returns the token A amount spanned by liquidity between two
// sqrt prices: ((L * (hi - lo)) << 64) / (hi * lo).
func AmountDeltaA(sqrtA, sqrtB, liquidity uint128.Uint128, roundUp bool) (uint64, error) {
	lo, hi := orderSqrtPrices(sqrtA, sqrtB)
	if lo.IsZero() {
		return 0, errcode.DivideByZero
	}
	product := new(uint256.Int).Mul(u256(liquidity), u256(hi.Sub(lo)))
	if product.BitLen() > 192 {
		return 0, errcode.MultiplicationOverflow
	}
	numerator := product.Lsh(product, 64)
	denominator := new(uint256.Int).Mul(u256(hi), u256(lo))
	quotient, rem := new(uint256.Int).DivMod(numerator, denominator, new(uint256.Int))
	if roundUp && !rem.IsZero() {
		quotient.AddUint64(quotient, 1)
	}
	if !quotient.IsUint64() {
		return 0, errcode.Wrap(errcode.TokenMaxExceeded, "token a delta overflows u64")
	}
	return quotient.Uint64(), nil
}

// AmountDeltaB returns the token B amount spanned by liquidity between two
// sqrt prices: (L * (hi - lo)) >> 64.
func AmountDeltaB(sqrtA, sqrtB, liquidity uint128.Uint128, roundUp bool) (uint64, error) {
	lo, hi := orderSqrtPrices(sqrtA, sqrtB)
	product := new(uint256.Int).Mul(u256(liquidity), u256(hi.Sub(lo)))
	roundBit := roundUp && product[0] != 0
	product.Rsh(product, 64)
	if roundBit {
		product.AddUint64(product, 1)
	}
	if !product.IsUint64() {
		return 0, errcode.Wrap(errcode.TokenMaxExceeded, "token b delta overflows u64")
	}
	return product.Uint64(), nil
}

// TokenDeltas returns the token amounts moved by a liquidity delta on
// [lower, upper) with the pool at (currentSqrt, currentTick). Deposits round
// up and withdrawals round down.
func TokenDeltas(currentSqrt uint128.Uint128, currentTick, lower, upper int32, delta Int128) (uint64, uint64, error) {
	if delta.IsZero() {
		return 0, 0, nil
	}
	lowerSqrt, err := TickIndexToSqrtPrice(lower)
	if err != nil {
		return 0, 0, err
	}
	upperSqrt, err := TickIndexToSqrtPrice(upper)
	if err != nil {
		return 0, 0, err
	}
	liquidity := delta.Abs()
	roundUp := delta.Sign() > 0

	var amountA, amountB uint64
	switch {
	case currentTick < lower:
		amountA, err = AmountDeltaA(lowerSqrt, upperSqrt, liquidity, roundUp)
	case currentTick < upper:
		amountA, err = AmountDeltaA(currentSqrt, upperSqrt, liquidity, roundUp)
		if err == nil {
			amountB, err = AmountDeltaB(lowerSqrt, currentSqrt, liquidity, roundUp)
		}
	default:
		amountB, err = AmountDeltaB(lowerSqrt, upperSqrt, liquidity, roundUp)
	}
	if err != nil {
		return 0, 0, err
	}
	return amountA, amountB, nil
}
