package aggregate

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"liquidityEngine/internal/model"
)

// WindowWriter persists flushed windows.
type WindowWriter interface {
	UpsertWindowMetrics(ctx context.Context, metrics []model.PoolWindowMetrics) error
}

// JsonlWindowWriter appends windows to a JSONL file.
type JsonlWindowWriter struct {
	path string
	mu   sync.Mutex
}

func NewJsonlWindowWriter(path string) *JsonlWindowWriter {
	return &JsonlWindowWriter{path: path}
}

func (w *JsonlWindowWriter) UpsertWindowMetrics(_ context.Context, metrics []model.PoolWindowMetrics) error {
	if len(metrics) == 0 {
		return nil
	}
	dir := filepath.Dir(w.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	file, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open output file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	enc := json.NewEncoder(writer)
	for _, m := range metrics {
		if err := enc.Encode(m); err != nil {
			return fmt.Errorf("write window %s@%s: %w", m.PoolAddress, m.WindowStart, err)
		}
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	return nil
}
