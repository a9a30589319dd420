package clmath

import "lukechampine.com/uint128"

const (
	MinTickIndex int32 = -443636
	MaxTickIndex int32 = 443636

	// TickArraySize is the number of tick slots in one tick array.
	TickArraySize = 88

	// FeeRateDenominator is the unit of Pool.FeeRate (hundredths of a basis point).
	FeeRateDenominator uint32 = 1_000_000
	MaxFeeRate         uint16 = 60_000

	// ProtocolFeeRateDenominator is the unit of Pool.ProtocolFeeRate (basis points).
	ProtocolFeeRateDenominator uint16 = 10_000
	MaxProtocolFeeRate         uint16 = 2_500

	BPSDenominator uint16 = 10_000

	NumRewards = 3
)

var (
	MinSqrtPrice = uint128.From64(4295048016)
	// 79226673515401279992447579055
	MaxSqrtPrice = uint128.New(0x35bb7f32a81b33af, 0xfffec4b1)

	// Q64 is 1.0 in Q64.64.
	Q64 = uint128.New(0, 1)
)

// TickSpacing presets used by the reference fee tiers.
const (
	TickSpacingStable   uint16 = 8
	TickSpacingStandard uint16 = 128
)
