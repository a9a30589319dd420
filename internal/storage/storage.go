package storage

import (
	"context"
	"sync"

	"liquidityEngine/internal/model"
)

// Sink receives engine events in the order they were emitted.
type Sink interface {
	PutEvents(ctx context.Context, events []model.LiquidityEvent) error
}

// MemorySink keeps events in memory.
type MemorySink struct {
	mu     sync.Mutex
	events []model.LiquidityEvent
}

func (s *MemorySink) PutEvents(_ context.Context, events []model.LiquidityEvent) error {
	s.mu.Lock()
	s.events = append(s.events, events...)
	s.mu.Unlock()
	return nil
}

// Events returns a copy of everything received so far.
func (s *MemorySink) Events() []model.LiquidityEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.LiquidityEvent(nil), s.events...)
}

// MultiSink fans events out to every sink in order, stopping at the first
// failure.
type MultiSink []Sink

func (m MultiSink) PutEvents(ctx context.Context, events []model.LiquidityEvent) error {
	for _, s := range m {
		if err := s.PutEvents(ctx, events); err != nil {
			return err
		}
	}
	return nil
}
