package clmath

import (
	"fmt"
	"math"
	"strings"

	"github.com/holiman/uint256"
	"lukechampine.com/uint128"
)

// Int128 is a two's-complement signed 128-bit integer. It backs tick
// liquidity-net and signed liquidity deltas. Arithmetic runs on a
// sign-extended 256-bit value and is range-checked on the way back.
type Int128 struct {
	Lo, Hi uint64
}

var (
	MaxInt128 = Int128{Lo: math.MaxUint64, Hi: math.MaxInt64}
	MinInt128 = Int128{Lo: 0, Hi: 1 << 63}

	maxInt128Wide = MaxInt128.wide()
	minInt128Wide = MinInt128.wide()
)

func NewInt128(v int64) Int128 {
	var hi uint64
	if v < 0 {
		hi = math.MaxUint64
	}
	return Int128{Lo: uint64(v), Hi: hi}
}

// Int128FromUint128 reinterprets u as a non-negative Int128. It reports
// false when u exceeds MaxInt128.
func Int128FromUint128(u uint128.Uint128) (Int128, bool) {
	if u.Hi>>63 != 0 {
		return Int128{}, false
	}
	return Int128{Lo: u.Lo, Hi: u.Hi}, true
}

// wide sign-extends i to 256 bits.
func (i Int128) wide() *uint256.Int {
	w := &uint256.Int{i.Lo, i.Hi, 0, 0}
	if i.Hi>>63 != 0 {
		w[2], w[3] = math.MaxUint64, math.MaxUint64
	}
	return w
}

// narrow truncates w back to 128 bits. It reports false when w, read as a
// signed value, is outside the Int128 range.
func narrow(w *uint256.Int) (Int128, bool) {
	if w.Sgt(maxInt128Wide) || w.Slt(minInt128Wide) {
		return Int128{}, false
	}
	return Int128{Lo: w[0], Hi: w[1]}, true
}

func ParseInt128(s string) (Int128, error) {
	digits, negative := strings.CutPrefix(s, "-")
	if digits == "" || strings.HasPrefix(digits, "+") || strings.HasPrefix(digits, "-") {
		return Int128{}, fmt.Errorf("parse int128 %q", s)
	}
	mag, err := uint256.FromDecimal(digits)
	if err != nil {
		return Int128{}, fmt.Errorf("parse int128 %q: %w", s, err)
	}
	if mag.Sign() < 0 {
		return Int128{}, fmt.Errorf("parse int128 %q: out of range", s)
	}
	if negative {
		mag.Neg(mag)
	}
	v, ok := narrow(mag)
	if !ok {
		return Int128{}, fmt.Errorf("parse int128 %q: out of range", s)
	}
	return v, nil
}

func (i Int128) IsZero() bool { return i.Lo == 0 && i.Hi == 0 }

func (i Int128) Sign() int { return i.wide().Sign() }

func (i Int128) Equals(j Int128) bool { return i == j }

func (i Int128) Cmp(j Int128) int {
	a, b := i.wide(), j.wide()
	switch {
	case a.Slt(b):
		return -1
	case a.Sgt(b):
		return 1
	default:
		return 0
	}
}

// Neg returns -i. It reports false for MinInt128.
func (i Int128) Neg() (Int128, bool) {
	w := i.wide()
	return narrow(w.Neg(w))
}

// Abs returns |i| as an unsigned value; |MinInt128| fits.
func (i Int128) Abs() uint128.Uint128 {
	w := i.wide()
	return toU128(w.Abs(w))
}

// Add returns i+j and reports false on signed overflow.
func (i Int128) Add(j Int128) (Int128, bool) {
	w := i.wide()
	return narrow(w.Add(w, j.wide()))
}

// Sub returns i-j and reports false on signed overflow.
func (i Int128) Sub(j Int128) (Int128, bool) {
	w := i.wide()
	return narrow(w.Sub(w, j.wide()))
}

func (i Int128) String() string {
	if i.Sign() < 0 {
		return "-" + i.Abs().String()
	}
	return uint128.New(i.Lo, i.Hi).String()
}

func (i Int128) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

func (i *Int128) UnmarshalText(text []byte) error {
	v, err := ParseInt128(string(text))
	if err != nil {
		return err
	}
	*i = v
	return nil
}
