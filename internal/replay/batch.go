package replay

import (
	"fmt"

	"liquidityEngine/internal/model"
)

// Batch is a run of consecutive instructions whose events reach the sink in
// one write.
type Batch []model.Instruction

func (b Batch) FirstLine() uint64 { return b[0].Line }

func (b Batch) LastLine() uint64 { return b[len(b)-1].Line }

// SplitBatches cuts script into batches of at most size instructions. Script
// lines must be strictly increasing, since checkpoints resume by line.
func SplitBatches(script []model.Instruction, size uint64) ([]Batch, error) {
	if size == 0 {
		return nil, fmt.Errorf("batch size must be greater than zero")
	}
	for i := 1; i < len(script); i++ {
		if script[i].Line <= script[i-1].Line {
			return nil, fmt.Errorf("line %d follows line %d", script[i].Line, script[i-1].Line)
		}
	}

	out := make([]Batch, 0, uint64(len(script))/size+1)
	for rest := script; len(rest) > 0; {
		n := min(uint64(len(rest)), size)
		out = append(out, Batch(rest[:n]))
		rest = rest[n:]
	}
	return out, nil
}
