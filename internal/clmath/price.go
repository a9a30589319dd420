package clmath

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
	"lukechampine.com/uint128"
)

var (
	two128  = new(big.Int).Lsh(big.NewInt(1), 128)
	five128 = new(big.Int).Exp(big.NewInt(5), big.NewInt(128), nil)
)

// PriceToSqrtPrice converts a decimal-adjusted price of token A in token B
// to a Q64.64 sqrt price: floor(sqrt(price / 10^(decimalsA-decimalsB)) * 2^64).
func PriceToSqrtPrice(price decimal.Decimal, decimalsA, decimalsB uint8) (uint128.Uint128, error) {
	if price.Sign() <= 0 {
		return uint128.Zero, fmt.Errorf("price must be positive: %s", price)
	}
	raw := price.Shift(int32(decimalsB) - int32(decimalsA))
	num := new(big.Int).Mul(raw.Coefficient(), two128)
	exp := raw.Exponent()
	if exp >= 0 {
		num.Mul(num, new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(exp)), nil))
	} else {
		num.Quo(num, new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(-exp)), nil))
	}
	num.Sqrt(num)
	if num.BitLen() > 128 {
		return uint128.Zero, fmt.Errorf("price %s overflows sqrt price", price)
	}
	return uint128.FromBig(num), nil
}

// SqrtPriceToPrice is the exact inverse mapping: (sqrtPrice / 2^64)^2 *
// 10^(decimalsA-decimalsB). The result is exact; callers round as needed.
func SqrtPriceToPrice(sqrtPrice uint128.Uint128, decimalsA, decimalsB uint8) decimal.Decimal {
	sp := sqrtPrice.Big()
	sq := new(big.Int).Mul(sp, sp)
	// x / 2^128 == x * 5^128 / 10^128
	sq.Mul(sq, five128)
	return decimal.NewFromBigInt(sq, -128).Shift(int32(decimalsA) - int32(decimalsB))
}

func TickIndexToPrice(tick int32, decimalsA, decimalsB uint8) (decimal.Decimal, error) {
	sp, err := TickIndexToSqrtPrice(tick)
	if err != nil {
		return decimal.Zero, err
	}
	return SqrtPriceToPrice(sp, decimalsA, decimalsB), nil
}

func PriceToTickIndex(price decimal.Decimal, decimalsA, decimalsB uint8) (int32, error) {
	sp, err := PriceToSqrtPrice(price, decimalsA, decimalsB)
	if err != nil {
		return 0, err
	}
	return SqrtPriceToTickIndex(sp)
}

// InvertPrice returns the price of the inverted pair, snapped to a tick.
func InvertPrice(price decimal.Decimal, decimalsA, decimalsB uint8) (decimal.Decimal, error) {
	tick, err := PriceToTickIndex(price, decimalsA, decimalsB)
	if err != nil {
		return decimal.Zero, err
	}
	return TickIndexToPrice(InvertTickIndex(tick), decimalsA, decimalsB)
}
