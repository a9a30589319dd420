package aggregate

import (
	"context"
	"fmt"

	"liquidityEngine/internal/storage/postgres"
)

// DBStateStore keeps the aggregator position in the engine_state table
// under Name.
type DBStateStore struct {
	Store *postgres.Store
	Name  string
}

func (s *DBStateStore) Load(ctx context.Context) (uint64, bool, error) {
	if s == nil || s.Store == nil {
		return 0, false, nil
	}
	ts, ok, err := s.Store.LoadState(ctx, s.Name)
	if err != nil {
		return 0, false, fmt.Errorf("load state %s: %w", s.Name, err)
	}
	return ts, ok, nil
}

func (s *DBStateStore) Save(ctx context.Context, ts uint64) error {
	if s == nil || s.Store == nil {
		return nil
	}
	if err := s.Store.SaveState(ctx, s.Name, ts); err != nil {
		return fmt.Errorf("save state %s: %w", s.Name, err)
	}
	return nil
}
