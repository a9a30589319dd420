package replay

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// Checkpoint is the replay position saved after every flushed batch. Line is
// the last script line whose events reached the sink; Sequence and Clock are
// the engine event sequence and ledger time right after that line. A resumed
// run re-applies the script up to Line and must land on the same Sequence
// and Clock, otherwise the script changed underneath the checkpoint.
type Checkpoint struct {
	Script    string `json:"script,omitempty"`
	Line      uint64 `json:"line"`
	Sequence  uint64 `json:"sequence"`
	Clock     uint64 `json:"clock,omitempty"`
	Events    int    `json:"events"`
	UpdatedAt string `json:"updated_at"`
}

// Matches reports whether the checkpoint was written for script. A
// checkpoint without a script name matches any script.
func (cp Checkpoint) Matches(script string) bool {
	return cp.Script == "" || cp.Script == script
}

// CheckpointStore keeps one checkpoint in a JSON file. A nil or disabled
// store loads nothing and saves nothing.
type CheckpointStore struct {
	path    string
	enabled bool
}

func NewCheckpointStore(path string, enabled bool) *CheckpointStore {
	return &CheckpointStore{path: path, enabled: enabled && path != ""}
}

func (c *CheckpointStore) active() bool { return c != nil && c.enabled }

func (c *CheckpointStore) Load() (Checkpoint, bool, error) {
	var cp Checkpoint
	if !c.active() {
		return cp, false, nil
	}
	data, err := os.ReadFile(c.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return cp, false, nil
	case err != nil:
		return cp, false, fmt.Errorf("read checkpoint: %w", err)
	}
	if err := json.Unmarshal(data, &cp); err != nil {
		return cp, false, fmt.Errorf("parse checkpoint %s: %w", c.path, err)
	}
	return cp, true, nil
}

func (c *CheckpointStore) Save(cp Checkpoint) error {
	if !c.active() {
		return nil
	}
	cp.UpdatedAt = time.Now().UTC().Format(time.RFC3339Nano)
	data, err := json.MarshalIndent(cp, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal checkpoint: %w", err)
	}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create checkpoint dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(c.path)+".*")
	if err != nil {
		return fmt.Errorf("create checkpoint tmp: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write checkpoint tmp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close checkpoint tmp: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.path); err != nil {
		return fmt.Errorf("rename checkpoint: %w", err)
	}
	return nil
}
