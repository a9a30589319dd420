package tick

import (
	"errors"

	"lukechampine.com/uint128"

	"liquidityEngine/internal/clmath"
	"liquidityEngine/internal/errcode"
)

// ApplyLiquidityDelta returns t after a position bound at tickIndex changes
// by delta. A tick whose gross liquidity reaches zero is reset; a tick
// that becomes initialized seeds its outside growths from globals when the
// current tick is at or above it.
func ApplyLiquidityDelta(t Tick, tickIndex, current int32, delta clmath.Int128, isUpper bool, globals Growths) (Tick, error) {
	if delta.IsZero() {
		return t, nil
	}

	gross, err := clmath.AddLiquidityDelta(t.LiquidityGross, delta)
	if err != nil {
		return Tick{}, err
	}
	if gross.IsZero() {
		return Tick{}, nil
	}

	next := t
	if t.LiquidityGross.IsZero() {
		if current >= tickIndex {
			next.setOutside(globals)
		} else {
			next.setOutside(Growths{})
		}
	}

	var ok bool
	if isUpper {
		next.LiquidityNet, ok = t.LiquidityNet.Sub(delta)
	} else {
		next.LiquidityNet, ok = t.LiquidityNet.Add(delta)
	}
	if !ok {
		return Tick{}, errcode.Wrap(errcode.LiquidityNetOverflow, "tick %d", tickIndex)
	}

	next.LiquidityGross = gross
	next.Initialized = true
	return next, nil
}

// GrowthsInside computes fee and reward growth between two bound ticks
// from their current (pre-update) state.
func GrowthsInside(current int32, lowerIndex int32, lower Tick, upperIndex int32, upper Tick, globals Growths) Growths {
	var below Growths
	switch {
	case !lower.Initialized:
		below = globals
	case current < lowerIndex:
		below = globals.sub(lower.outside())
	default:
		below = lower.outside()
	}

	var above Growths
	switch {
	case !upper.Initialized:
	case current < upperIndex:
		above = upper.outside()
	default:
		above = globals.sub(upper.outside())
	}

	return globals.sub(below).sub(above)
}

// Cross flips a tick's outside growths as price moves across it.
func Cross(t Tick, globals Growths) Tick {
	t.setOutside(globals.sub(t.outside()))
	return t
}

// CrossLiquidity returns pool liquidity after crossing a tick in the given
// direction.
func CrossLiquidity(t Tick, liquidity uint128.Uint128, aToB bool) (uint128.Uint128, error) {
	net := t.LiquidityNet
	if aToB {
		var ok bool
		if net, ok = net.Neg(); !ok {
			return uint128.Zero, errcode.LiquidityNetOverflow
		}
	}
	return clmath.AddLiquidityDelta(liquidity, net)
}

// IsNotFound reports whether err means a tick lies outside an array.
func IsNotFound(err error) bool {
	return errors.Is(err, errcode.TickNotFound)
}
