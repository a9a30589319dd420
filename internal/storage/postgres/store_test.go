package postgres

import (
	"encoding/json"
	"strconv"
	"strings"
	"testing"
	"time"

	"liquidityEngine/internal/model"
)

func countPlaceholders(sql string) int {
	n := 0
	for i := 1; ; i++ {
		if !strings.Contains(sql, "$"+strconv.Itoa(i)) {
			return n
		}
		n++
	}
}

func TestEventArgs(t *testing.T) {
	idx := 1
	aToB := true
	ev := model.LiquidityEvent{
		ID:          "id-1",
		Sequence:    7,
		Kind:        model.EventRewardCollected,
		Pool:        "pool",
		Position:    "pos",
		Timestamp:   1_700_000_000,
		TokenA:      "12",
		RewardIndex: &idx,
		AToB:        &aToB,
		TickLower:   -1280,
		TickUpper:   1280,
	}
	args, err := eventArgs(ev)
	if err != nil {
		t.Fatalf("event args: %v", err)
	}
	if len(args) != 23 {
		t.Fatalf("args = %d, want 23", len(args))
	}
	if args[1] != int64(7) || args[2] != "RewardCollected" {
		t.Fatalf("sequence/kind = %v/%v", args[1], args[2])
	}
	if args[5] != nil || args[7] != nil {
		t.Fatalf("empty strings must be NULL: %v %v", args[5], args[7])
	}
	if got := args[6].(time.Time); got.Unix() != 1_700_000_000 {
		t.Fatalf("event ts = %v", got)
	}
	if args[14] != int16(1) || args[16] != true {
		t.Fatalf("reward index/a_to_b = %v/%v", args[14], args[16])
	}
	if args[20] != nil || args[21] != nil {
		t.Fatalf("error columns must be NULL for applied events")
	}

	var decoded model.LiquidityEvent
	if err := json.Unmarshal(args[22].([]byte), &decoded); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if decoded.ID != ev.ID || decoded.TickLower != -1280 {
		t.Fatalf("payload = %+v", decoded)
	}
}

func TestEventArgsRejection(t *testing.T) {
	ev := model.LiquidityEvent{
		ID:        "id-2",
		Kind:      model.EventRejected,
		Rejection: &model.Rejection{Line: 3, Op: "increase_liquidity", Program: "whirlpool", Code: 6017, Name: "TokenMaxExceeded", Error: "x"},
	}
	args, err := eventArgs(ev)
	if err != nil {
		t.Fatalf("event args: %v", err)
	}
	if args[20] != int64(6017) || args[21] != "TokenMaxExceeded" {
		t.Fatalf("error columns = %v/%v", args[20], args[21])
	}
}

func TestPlaceholdersMatchArgs(t *testing.T) {
	args, err := eventArgs(model.LiquidityEvent{ID: "x"})
	if err != nil {
		t.Fatalf("event args: %v", err)
	}
	if got := countPlaceholders(upsertEventSQL); got != len(args) {
		t.Fatalf("event placeholders = %d, args = %d", got, len(args))
	}
	if got := countPlaceholders(upsertWindowSQL); got != len(windowArgs(model.PoolWindowMetrics{})) {
		t.Fatalf("window placeholders = %d", got)
	}
	snap, err := snapshotArgs(model.PoolView{Address: "p", Liquidity: "1", SqrtPrice: "2"})
	if err != nil {
		t.Fatalf("snapshot args: %v", err)
	}
	if got := countPlaceholders(upsertSnapshotSQL); got != len(snap) {
		t.Fatalf("snapshot placeholders = %d, args = %d", got, len(snap))
	}
}

func TestSnapshotArgsRequiresAddress(t *testing.T) {
	if _, err := snapshotArgs(model.PoolView{}); err == nil {
		t.Fatalf("expected error for missing address")
	}
}
