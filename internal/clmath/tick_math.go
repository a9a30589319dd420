package clmath

import (
	"github.com/holiman/uint256"
	"lukechampine.com/uint128"

	"liquidityEngine/internal/errcode"
)

// Per-bit multipliers for positive ticks, Q96.96: sqrt(1.0001)^(2^i).
var positiveTickFactors = [...]string{
	"79232123823359799118286999567",
	"79236085330515764027303304731",
	"79244008939048815603706035061",
	"79259858533276714757314932305",
	"79291567232598584799939703904",
	"79355022692464371645785046466",
	"79482085999252804386437311141",
	"79736823300114093921829183326",
	"80248749790819932309965073892",
	"81282483887344747381513967011",
	"83390072131320151908154831281",
	"87770609709833776024991924138",
	"97234110755111693312479820773",
	"119332217159966728226237229890",
	"179736315981702064433883588727",
	"407748233172238350107850275304",
	"2098478828474011932436660412517",
	"55581415166113811149459800483533",
	"38992368544603139932233054999993551",
}

// Per-bit multipliers for negative ticks, Q64.64: sqrt(1.0001)^(-2^i).
var negativeTickFactors = [...]uint64{
	18445821805675392311,
	18444899583751176498,
	18443055278223354162,
	18439367220385604838,
	18431993317065449817,
	18417254355718160513,
	18387811781193591352,
	18329067761203520168,
	18212142134806087854,
	17980523815641551639,
	17526086738831147013,
	16651378430235024244,
	15030750278693429944,
	12247334978882834399,
	8131365268884726200,
	3584323654723342297,
	696457651847595233,
	26294789957452057,
	37481735321082,
}

var positiveFactors = func() [len(positiveTickFactors)]*uint256.Int {
	var out [len(positiveTickFactors)]*uint256.Int
	for i, s := range positiveTickFactors {
		out[i] = uint256.MustFromDecimal(s)
	}
	return out
}()

// IsValidTickIndex reports whether tick lies within the global bound.
func IsValidTickIndex(tick int32) bool {
	return tick >= MinTickIndex && tick <= MaxTickIndex
}

// IsTickAligned reports whether tick is a multiple of spacing.
func IsTickAligned(tick int32, spacing uint16) bool {
	return spacing != 0 && tick%int32(spacing) == 0
}

// TickIndexToSqrtPrice returns sqrt(1.0001^tick) in Q64.64.
func TickIndexToSqrtPrice(tick int32) (uint128.Uint128, error) {
	if !IsValidTickIndex(tick) {
		return uint128.Zero, errcode.Wrap(errcode.InvalidTickRange, "tick %d out of bounds", tick)
	}
	if tick >= 0 {
		return sqrtPricePositive(uint32(tick)), nil
	}
	return sqrtPriceNegative(uint32(-tick)), nil
}

// MustTickIndexToSqrtPrice panics on an out-of-range tick. Intended for
// constants and tests.
func MustTickIndexToSqrtPrice(tick int32) uint128.Uint128 {
	sp, err := TickIndexToSqrtPrice(tick)
	if err != nil {
		panic(err)
	}
	return sp
}

func sqrtPricePositive(tick uint32) uint128.Uint128 {
	ratio := new(uint256.Int)
	if tick&1 != 0 {
		ratio.Set(positiveFactors[0])
	} else {
		ratio.Lsh(uint256.NewInt(1), 96)
	}
	for i := 1; i < len(positiveFactors); i++ {
		if tick&(1<<i) != 0 {
			ratio.Mul(ratio, positiveFactors[i])
			ratio.Rsh(ratio, 96)
		}
	}
	ratio.Rsh(ratio, 32)
	return toU128(ratio)
}

func sqrtPriceNegative(tick uint32) uint128.Uint128 {
	ratio := new(uint256.Int)
	if tick&1 != 0 {
		ratio.SetUint64(negativeTickFactors[0])
	} else {
		ratio.Lsh(uint256.NewInt(1), 64)
	}
	factor := new(uint256.Int)
	for i := 1; i < len(negativeTickFactors); i++ {
		if tick&(1<<i) != 0 {
			ratio.Mul(ratio, factor.SetUint64(negativeTickFactors[i]))
			ratio.Rsh(ratio, 64)
		}
	}
	return toU128(ratio)
}

// SqrtPriceToTickIndex returns the greatest tick whose sqrt price does not
// exceed sqrtPrice.
func SqrtPriceToTickIndex(sqrtPrice uint128.Uint128) (int32, error) {
	if sqrtPrice.Cmp(MinSqrtPrice) < 0 || sqrtPrice.Cmp(MaxSqrtPrice) > 0 {
		return 0, errcode.Wrap(errcode.SqrtPriceOutOfBounds, "sqrt price %s out of bounds", sqrtPrice)
	}
	lo, hi := MinTickIndex, MaxTickIndex
	for lo < hi {
		mid := lo + (hi-lo+1)/2
		sp, _ := TickIndexToSqrtPrice(mid)
		if sp.Cmp(sqrtPrice) <= 0 {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo, nil
}

// InvertTickIndex maps a tick of the A/B pair to the B/A pair.
func InvertTickIndex(tick int32) int32 {
	return -tick
}

// InvertSqrtPrice maps a sqrt price of the A/B pair to the B/A pair.
func InvertSqrtPrice(sqrtPrice uint128.Uint128) (uint128.Uint128, error) {
	tick, err := SqrtPriceToTickIndex(sqrtPrice)
	if err != nil {
		return uint128.Zero, err
	}
	return TickIndexToSqrtPrice(InvertTickIndex(tick))
}

// FullRangeTicks returns the widest aligned range for spacing.
func FullRangeTicks(spacing uint16) (int32, int32) {
	s := int32(spacing)
	return (MinTickIndex / s) * s, (MaxTickIndex / s) * s
}
