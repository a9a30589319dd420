package clmath

import (
	"github.com/holiman/uint256"
	"lukechampine.com/uint128"

	"liquidityEngine/internal/errcode"
)

func u256(x uint128.Uint128) *uint256.Int {
	return &uint256.Int{x.Lo, x.Hi, 0, 0}
}

func u256From64(x uint64) *uint256.Int {
	return uint256.NewInt(x)
}

func fitsU128(z *uint256.Int) bool {
	return z[2] == 0 && z[3] == 0
}

func toU128(z *uint256.Int) uint128.Uint128 {
	return uint128.New(z[0], z[1])
}

// MulDiv returns floor(a*b/denom) and fails when the quotient needs more
// than 128 bits.
func MulDiv(a, b, denom uint128.Uint128) (uint128.Uint128, error) {
	return mulDiv(a, b, denom, false)
}

// MulDivRoundUp is MulDiv rounded towards positive infinity.
func MulDivRoundUp(a, b, denom uint128.Uint128) (uint128.Uint128, error) {
	return mulDiv(a, b, denom, true)
}

func mulDiv(a, b, denom uint128.Uint128, roundUp bool) (uint128.Uint128, error) {
	if denom.IsZero() {
		return uint128.Zero, errcode.DivideByZero
	}
	product := new(uint256.Int).Mul(u256(a), u256(b))
	quotient, rem := new(uint256.Int).DivMod(product, u256(denom), new(uint256.Int))
	if roundUp && !rem.IsZero() {
		quotient.AddUint64(quotient, 1)
	}
	if !fitsU128(quotient) {
		return uint128.Zero, errcode.MulDivOverflow
	}
	return toU128(quotient), nil
}

// MulDivU64 is MulDiv for u64 operands, failing when the quotient exceeds u64.
func MulDivU64(a, b, denom uint64, roundUp bool) (uint64, error) {
	q, err := mulDiv(uint128.From64(a), uint128.From64(b), uint128.From64(denom), roundUp)
	if err != nil {
		return 0, err
	}
	if q.Hi != 0 {
		return 0, errcode.MulDivOverflow
	}
	return q.Lo, nil
}

// MulShiftRight64 returns (a*b) >> 64 as a u64.
func MulShiftRight64(a, b uint128.Uint128) (uint64, error) {
	if a.IsZero() || b.IsZero() {
		return 0, nil
	}
	product := new(uint256.Int).Mul(u256(a), u256(b))
	product.Rsh(product, 64)
	if !product.IsUint64() {
		return 0, errcode.MultiplicationShiftRightOverflow
	}
	return product.Uint64(), nil
}
