package replay

import (
	"testing"

	"liquidityEngine/internal/model"
)

func instructionsAt(lines ...uint64) []model.Instruction {
	out := make([]model.Instruction, 0, len(lines))
	for _, l := range lines {
		out = append(out, model.Instruction{Line: l, Op: OpAdvanceClock})
	}
	return out
}

func TestSplitBatches(t *testing.T) {
	got, err := SplitBatches(instructionsAt(1, 2, 4, 7, 8), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("batches = %d, want 3", len(got))
	}

	want := [][2]uint64{{1, 2}, {4, 7}, {8, 8}}
	for i, b := range got {
		if b.FirstLine() != want[i][0] || b.LastLine() != want[i][1] {
			t.Fatalf("batch %d spans %d-%d, want %v", i, b.FirstLine(), b.LastLine(), want[i])
		}
	}
}

func TestSplitBatchesEmpty(t *testing.T) {
	got, err := SplitBatches(nil, 3)
	if err != nil || len(got) != 0 {
		t.Fatalf("batches = %v, err = %v", got, err)
	}
}

func TestSplitBatchesInvalid(t *testing.T) {
	if _, err := SplitBatches(instructionsAt(1, 2), 0); err == nil {
		t.Fatalf("expected error for zero batch size")
	}
	if _, err := SplitBatches(instructionsAt(3, 3), 1); err == nil {
		t.Fatalf("expected error for repeated line")
	}
	if _, err := SplitBatches(instructionsAt(5, 2), 1); err == nil {
		t.Fatalf("expected error for decreasing lines")
	}
}
