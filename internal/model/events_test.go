package model

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestLiquidityEventJSONRoundTrip(t *testing.T) {
	idx := 1
	original := LiquidityEvent{
		ID:                "6f1c2f2e-3e55-4ac4-9d1a-8c4b1f1d7b10",
		Sequence:          7,
		Kind:              EventLiquidityIncreased,
		Pool:              "HJPjoWUrhoZzkNfRpHuieeFk9WcZWjwy6PBjZ81ngndJ",
		Position:          "5Q544fKrFoe6tsEbD7S8EmxGTJYAKtTVhAW5Q5pge4j1",
		Timestamp:         1700000000,
		Liquidity:         "2693896",
		TickLower:         -1280,
		TickUpper:         1280,
		TokenA:            "167000",
		TokenB:            "167000",
		TokenATransferFee: "0",
		TokenBTransferFee: "0",
		RewardIndex:       &idx,
		SqrtPrice:         "18446744073709551616",
	}

	b, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded LiquidityEvent
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if !reflect.DeepEqual(original, decoded) {
		t.Fatalf("round-trip mismatch: %+v != %+v", original, decoded)
	}
}

func TestLiquidityEventJSONStringFields(t *testing.T) {
	payload := LiquidityEvent{
		Kind:      EventLiquidityDecreased,
		Liquidity: "-340282366920938463463374607431768211455",
		TokenA:    "18446744073709551615",
		TokenB:    "1",
		SqrtPrice: "79226673515401279992447579055",
	}

	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	for _, key := range []string{"liquidity", "token_a", "token_b", "sqrt_price"} {
		if _, ok := decoded[key].(string); !ok {
			t.Fatalf("%s should be string", key)
		}
	}
	if _, ok := decoded["rejection"]; ok {
		t.Fatalf("rejection should be omitted")
	}
}
