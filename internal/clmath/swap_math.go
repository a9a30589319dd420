package clmath

import (
	"errors"

	"github.com/holiman/uint256"
	"lukechampine.com/uint128"

	"liquidityEngine/internal/errcode"
)

// SwapStep is the outcome of swapping within a single liquidity segment.
type SwapStep struct {
	AmountIn      uint64
	AmountOut     uint64
	NextSqrtPrice uint128.Uint128
	FeeAmount     uint64
}

// NextSqrtPriceFromA moves the price by a token A amount, rounding up.
func NextSqrtPriceFromA(sqrtPrice, liquidity uint128.Uint128, amount uint64, isInput bool) (uint128.Uint128, error) {
	if amount == 0 {
		return sqrtPrice, nil
	}
	product := new(uint256.Int).Mul(u256(sqrtPrice), u256From64(amount))
	numerator := new(uint256.Int).Mul(u256(liquidity), u256(sqrtPrice))
	if numerator.BitLen() > 192 {
		return uint128.Zero, errcode.MultiplicationOverflow
	}
	numerator.Lsh(numerator, 64)
	liquidityX64 := new(uint256.Int).Lsh(u256(liquidity), 64)

	denominator := new(uint256.Int)
	if isInput {
		denominator.Add(liquidityX64, product)
	} else {
		if product.Cmp(liquidityX64) >= 0 {
			return uint128.Zero, errcode.DivideByZero
		}
		denominator.Sub(liquidityX64, product)
	}
	quotient, rem := new(uint256.Int).DivMod(numerator, denominator, new(uint256.Int))
	if !rem.IsZero() {
		quotient.AddUint64(quotient, 1)
	}
	if !fitsU128(quotient) {
		return uint128.Zero, errcode.TokenMaxExceeded
	}
	price := toU128(quotient)
	if price.Cmp(MinSqrtPrice) < 0 {
		return uint128.Zero, errcode.TokenMinSubceeded
	}
	if price.Cmp(MaxSqrtPrice) > 0 {
		return uint128.Zero, errcode.TokenMaxExceeded
	}
	return price, nil
}

// NextSqrtPriceFromB moves the price by a token B amount, rounding down.
func NextSqrtPriceFromB(sqrtPrice, liquidity uint128.Uint128, amount uint64, isInput bool) (uint128.Uint128, error) {
	if liquidity.IsZero() {
		return uint128.Zero, errcode.DivideByZero
	}
	amountX64 := uint128.New(0, amount)
	delta, rem := amountX64.QuoRem(liquidity)
	if !isInput && !rem.IsZero() {
		delta = delta.Add64(1)
	}
	if isInput {
		next := sqrtPrice.AddWrap(delta)
		if next.Cmp(sqrtPrice) < 0 {
			return uint128.Zero, errcode.SqrtPriceOutOfBounds
		}
		return next, nil
	}
	if sqrtPrice.Cmp(delta) < 0 {
		return uint128.Zero, errcode.SqrtPriceOutOfBounds
	}
	return sqrtPrice.Sub(delta), nil
}

// ComputeSwapStep swaps amountRemaining against one liquidity segment bounded
// by target. feeRate is in hundredths of a basis point.
func ComputeSwapStep(amountRemaining uint64, feeRate uint16, liquidity, current, target uint128.Uint128, isInput, aToB bool) (SwapStep, error) {
	initialFixed, fixedErr := amountFixedDelta(current, target, liquidity, isInput, aToB)
	if fixedErr != nil && !errors.Is(fixedErr, errcode.TokenMaxExceeded) {
		return SwapStep{}, fixedErr
	}

	amountCalc := amountRemaining
	if isInput {
		var err error
		amountCalc, err = MulDivU64(amountRemaining, uint64(FeeRateDenominator-uint32(feeRate)), uint64(FeeRateDenominator), false)
		if err != nil {
			return SwapStep{}, err
		}
	}

	next := target
	if fixedErr != nil || initialFixed > amountCalc {
		var err error
		next, err = nextSqrtPrice(current, liquidity, amountCalc, isInput, aToB)
		if err != nil {
			return SwapStep{}, err
		}
	}
	isMaxSwap := next.Equals(target)

	unfixed, err := amountUnfixedDelta(current, next, liquidity, isInput, aToB)
	if err != nil {
		return SwapStep{}, err
	}
	fixed := initialFixed
	if !isMaxSwap || fixedErr != nil {
		fixed, err = amountFixedDelta(current, next, liquidity, isInput, aToB)
		if err != nil {
			return SwapStep{}, err
		}
	}
	if !isInput && fixed > amountRemaining {
		fixed = amountRemaining
	}

	var fee uint64
	if isInput && !isMaxSwap {
		fee = amountRemaining - fixed
	} else {
		fee, err = MulDivU64(fixed, uint64(feeRate), uint64(FeeRateDenominator-uint32(feeRate)), true)
		if err != nil {
			return SwapStep{}, err
		}
	}

	step := SwapStep{NextSqrtPrice: next, FeeAmount: fee}
	if isInput {
		step.AmountIn, step.AmountOut = fixed, unfixed
	} else {
		step.AmountIn, step.AmountOut = unfixed, fixed
	}
	return step, nil
}

func amountFixedDelta(current, target, liquidity uint128.Uint128, isInput, aToB bool) (uint64, error) {
	if aToB == isInput {
		return AmountDeltaA(current, target, liquidity, isInput)
	}
	return AmountDeltaB(current, target, liquidity, isInput)
}

func amountUnfixedDelta(current, target, liquidity uint128.Uint128, isInput, aToB bool) (uint64, error) {
	if aToB == isInput {
		return AmountDeltaB(current, target, liquidity, !isInput)
	}
	return AmountDeltaA(current, target, liquidity, !isInput)
}

func nextSqrtPrice(current, liquidity uint128.Uint128, amount uint64, isInput, aToB bool) (uint128.Uint128, error) {
	if aToB == isInput {
		return NextSqrtPriceFromA(current, liquidity, amount, isInput)
	}
	return NextSqrtPriceFromB(current, liquidity, amount, isInput)
}
