package errcode

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorRendersHexCode(t *testing.T) {
	cases := map[*Error]string{
		LiquidityZero:            "0x177c",
		TokenMaxExceeded:         "0x1781",
		MissingOrInvalidDelegate: "0x1783",
		TickArrayMismatch:        "0x17a8",
		TickNotFound:             "0x1779",
		ConstraintViolation:      "0x7d3",
		PoolMismatch:             "0x7d1",
		OwnerMismatch:            "0x4",
	}
	for e, hex := range cases {
		if e.Hex() != hex {
			t.Fatalf("%s: expected %s, got %s", e.Name, hex, e.Hex())
		}
		if !strings.Contains(e.Error(), hex) {
			t.Fatalf("%s: message %q missing %s", e.Name, e.Error(), hex)
		}
	}
}

func TestWrappedErrorMatches(t *testing.T) {
	err := fmt.Errorf("increase liquidity: %w", Wrap(TokenMaxExceeded, "token a %d > %d", 10, 5))
	if !errors.Is(err, TokenMaxExceeded) {
		t.Fatalf("expected TokenMaxExceeded, got %v", err)
	}
	if errors.Is(err, TokenMinSubceeded) {
		t.Fatalf("unexpected match against TokenMinSubceeded")
	}
	code, ok := From(err)
	if !ok || code.Code != 6017 {
		t.Fatalf("expected code 6017, got %v", code)
	}
}

func TestSameCodeDifferentProgram(t *testing.T) {
	if errors.Is(InsufficientFunds, &Error{Program: ProgramWhirlpool, Code: 0x1}) {
		t.Fatalf("token and whirlpool codes must not collide")
	}
}

func TestLookup(t *testing.T) {
	e, ok := Lookup("ClosePositionNotEmpty")
	if !ok || e != ClosePositionNotEmpty {
		t.Fatalf("lookup failed: %v", e)
	}
	if _, ok := Lookup("nope"); ok {
		t.Fatalf("unexpected lookup hit")
	}
}
