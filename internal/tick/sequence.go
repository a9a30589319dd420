package tick

import (
	"liquidityEngine/internal/clmath"
	"liquidityEngine/internal/errcode"
)

// Sequence is an ordered run of up to three consecutive arrays walked by a
// swap in its direction of travel.
type Sequence struct {
	arrays  []Array
	spacing uint16
	aToB    bool
}

// MaxSequenceLen is the number of arrays a single swap may traverse.
const MaxSequenceLen = 3

// NewSequence validates that arrays are consecutive in the swap direction
// and that the first one covers the tick a search from current starts at.
func NewSequence(arrays []Array, spacing uint16, aToB bool, current int32) (*Sequence, error) {
	if len(arrays) == 0 || len(arrays) > MaxSequenceLen {
		return nil, errcode.Wrap(errcode.InvalidTickArraySequence, "%d arrays", len(arrays))
	}
	span := TicksInArray(spacing)
	for i := 1; i < len(arrays); i++ {
		want := arrays[i-1].StartIndex() + span
		if aToB {
			want = arrays[i-1].StartIndex() - span
		}
		if arrays[i].StartIndex() != want {
			return nil, errcode.Wrap(errcode.InvalidTickArraySequence, "array %d starts at %d, want %d", i, arrays[i].StartIndex(), want)
		}
	}
	first := arrays[0].StartIndex()
	if !Covers(first, searchIndex(current, spacing, aToB), spacing) {
		return nil, errcode.Wrap(errcode.InvalidTickArraySequence, "first array %d does not cover tick %d", first, current)
	}
	return &Sequence{arrays: arrays, spacing: spacing, aToB: aToB}, nil
}

// searchIndex is the tick whose array a search from current starts in. A
// b-to-a search starts one spacing above current, so a current tick in the
// last slot of an array already belongs to the next one.
func searchIndex(current int32, spacing uint16, aToB bool) int32 {
	if aToB {
		return current
	}
	return current + int32(spacing)
}

func (s *Sequence) find(tickIndex int32) (Array, error) {
	for _, a := range s.arrays {
		if Covers(a.StartIndex(), tickIndex, s.spacing) {
			return a, nil
		}
	}
	return nil, errcode.Wrap(errcode.TickArraySequenceInvalidIndex, "tick %d", tickIndex)
}

// Get reads a tick from whichever array covers it.
func (s *Sequence) Get(tickIndex int32) (Tick, error) {
	a, err := s.find(tickIndex)
	if err != nil {
		return Tick{}, err
	}
	return a.Get(tickIndex, s.spacing)
}

// Update writes a tick into whichever array covers it.
func (s *Sequence) Update(tickIndex int32, t Tick) error {
	a, err := s.find(tickIndex)
	if err != nil {
		return err
	}
	return a.Update(tickIndex, s.spacing, t)
}

// NextInitialized returns the next tick to stop at from current in the
// swap direction. When the covering array has no initialized tick left the
// array boundary is returned with initialized set to false. Searching
// a-to-b includes current itself; b-to-a starts strictly above it.
func (s *Sequence) NextInitialized(current int32) (int32, bool, error) {
	sp := int32(s.spacing)
	if s.aToB {
		a, err := s.find(current)
		if err != nil {
			return 0, false, err
		}
		start := a.StartIndex()
		for off := int((current - start) / sp); off >= 0; off-- {
			if a.At(off).Initialized {
				return start + int32(off)*sp, true, nil
			}
		}
		return max(start, clmath.MinTickIndex), false, nil
	}

	a, err := s.find(searchIndex(current, s.spacing, false))
	if err != nil {
		return 0, false, err
	}
	start := a.StartIndex()
	// first slot strictly above current; rel may be down to -sp
	rel := current - start
	off := int(rel / sp)
	if rel < 0 && rel%sp != 0 {
		off--
	}
	for off++; off < clmath.TickArraySize; off++ {
		if a.At(off).Initialized {
			return start + int32(off)*sp, true, nil
		}
	}
	return min(start+TicksInArray(s.spacing)-1, clmath.MaxTickIndex), false, nil
}
