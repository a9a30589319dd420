package model

import "encoding/json"

// Instruction is one line of a replay script.
type Instruction struct {
	Line        uint64          `json:"-"`
	Op          string          `json:"op"`
	ExpectError string          `json:"expect_error,omitempty"`
	Args        json.RawMessage `json:"args,omitempty"`
}
