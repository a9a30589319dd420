package replay

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"lukechampine.com/uint128"

	"liquidityEngine/internal/model"
)

// ReadScript loads a JSONL instruction script from path.
func ReadScript(path string) ([]model.Instruction, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open script: %w", err)
	}
	defer file.Close()
	return ParseScript(file)
}

// ParseScript reads one instruction per line. Blank lines and lines starting
// with '#' are skipped. Parameters may sit under "args" or next to "op".
func ParseScript(r io.Reader) ([]model.Instruction, error) {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	var out []model.Instruction
	var lineNo uint64
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 || line[0] == '#' {
			continue
		}

		var ins model.Instruction
		if err := json.Unmarshal(line, &ins); err != nil {
			return nil, fmt.Errorf("line %d: decode instruction: %w", lineNo, err)
		}
		if ins.Op == "" {
			return nil, fmt.Errorf("line %d: missing op", lineNo)
		}
		if len(ins.Args) == 0 {
			ins.Args = append(json.RawMessage(nil), line...)
		}
		ins.Line = lineNo
		out = append(out, ins)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan script: %w", err)
	}
	return out, nil
}

// u128 accepts a decimal string or a JSON number.
type u128 struct {
	uint128.Uint128
}

func (v *u128) UnmarshalJSON(data []byte) error {
	text := string(bytes.Trim(data, `"`))
	if text == "" || text == "null" {
		v.Uint128 = uint128.Zero
		return nil
	}
	parsed, err := uint128.FromString(text)
	if err != nil {
		return fmt.Errorf("parse u128 %q: %w", text, err)
	}
	v.Uint128 = parsed
	return nil
}

// u64 accepts a decimal string or a JSON number.
type u64 uint64

func (v *u64) UnmarshalJSON(data []byte) error {
	text := string(bytes.Trim(data, `"`))
	if text == "" || text == "null" {
		*v = 0
		return nil
	}
	parsed, err := strconv.ParseUint(text, 10, 64)
	if err != nil {
		return fmt.Errorf("parse u64 %q: %w", text, err)
	}
	*v = u64(parsed)
	return nil
}
