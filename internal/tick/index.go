package tick

import (
	"liquidityEngine/internal/clmath"
	"liquidityEngine/internal/errcode"
)

// TicksInArray is the tick index span covered by one array.
func TicksInArray(spacing uint16) int32 {
	return clmath.TickArraySize * int32(spacing)
}

// StartIndex returns the start of the array holding tickIndex, rounding
// towards negative infinity.
func StartIndex(tickIndex int32, spacing uint16) int32 {
	span := TicksInArray(spacing)
	q := tickIndex / span
	if tickIndex%span != 0 && tickIndex < 0 {
		q--
	}
	return q * span
}

// ValidateStartIndex checks that start is the start of some array. The
// left-edge array may start below the minimum tick.
func ValidateStartIndex(start int32, spacing uint16) error {
	if spacing == 0 {
		return errcode.InvalidTickSpacing
	}
	if start < clmath.MinTickIndex {
		if start != StartIndex(clmath.MinTickIndex, spacing) {
			return errcode.Wrap(errcode.InvalidStartTick, "start %d", start)
		}
		return nil
	}
	if start > clmath.MaxTickIndex || start%TicksInArray(spacing) != 0 {
		return errcode.Wrap(errcode.InvalidStartTick, "start %d", start)
	}
	return nil
}

// Offset returns the slot of tickIndex in the array starting at start.
func Offset(start, tickIndex int32, spacing uint16) (int, error) {
	if !clmath.IsTickAligned(tickIndex, spacing) {
		return 0, errcode.Wrap(errcode.TickNotFound, "tick %d not aligned to spacing %d", tickIndex, spacing)
	}
	if tickIndex < start || tickIndex >= start+TicksInArray(spacing) {
		return 0, errcode.Wrap(errcode.TickNotFound, "tick %d outside array %d", tickIndex, start)
	}
	return int((tickIndex - start) / int32(spacing)), nil
}

// Covers reports whether the array starting at start spans tickIndex.
func Covers(start, tickIndex int32, spacing uint16) bool {
	return tickIndex >= start && tickIndex < start+TicksInArray(spacing)
}
