package chain

import (
	"context"
	"fmt"
	"sort"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"liquidityEngine/internal/dex"
	"liquidityEngine/internal/ledger"
	"liquidityEngine/internal/model"
	"liquidityEngine/internal/tick"
)

// Snapshot is decoded on-chain state for one pool and some of its positions.
type Snapshot struct {
	PoolKey    solana.PublicKey
	Pool       *model.Pool
	Positions  map[solana.PublicKey]*model.Position
	TickArrays map[solana.PublicKey]tick.Array
	Mints      map[solana.PublicKey]*model.Mint
	Tokens     *dex.TokenMetaCache
}

// LoadPoolSnapshot fetches a pool, the given positions, the tick arrays
// holding their bounds and both token mints.
func LoadPoolSnapshot(ctx context.Context, fetcher dex.AccountFetcher, poolKey solana.PublicKey, positionKeys []solana.PublicKey, logger *zap.Logger) (*Snapshot, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	first, err := fetcher.GetAccounts(ctx, append([]solana.PublicKey{poolKey}, positionKeys...))
	if err != nil {
		return nil, err
	}
	data, ok := first[poolKey]
	if !ok {
		return nil, fmt.Errorf("pool %s not found", poolKey)
	}
	pool, err := dex.DecodeWhirlpool(data)
	if err != nil {
		return nil, fmt.Errorf("pool %s: %w", poolKey, err)
	}

	snap := &Snapshot{
		PoolKey:    poolKey,
		Pool:       pool,
		Positions:  make(map[solana.PublicKey]*model.Position, len(positionKeys)),
		TickArrays: make(map[solana.PublicKey]tick.Array),
	}

	arrayKeys := make([]solana.PublicKey, 0, 2*len(positionKeys))
	for _, key := range positionKeys {
		data, ok := first[key]
		if !ok {
			logger.Warn("position not found", zap.String("position", key.String()))
			continue
		}
		pos, err := dex.DecodePosition(data)
		if err != nil {
			return nil, fmt.Errorf("position %s: %w", key, err)
		}
		if !pos.Whirlpool.Equals(poolKey) {
			return nil, fmt.Errorf("position %s belongs to pool %s", key, pos.Whirlpool)
		}
		snap.Positions[key] = pos
		for _, bound := range []int32{pos.TickLowerIndex, pos.TickUpperIndex} {
			arrayKey, err := ledger.TickArrayAddress(poolKey, tick.StartIndex(bound, pool.TickSpacing))
			if err != nil {
				return nil, err
			}
			arrayKeys = append(arrayKeys, arrayKey)
		}
	}

	arrays, err := fetcher.GetAccounts(ctx, arrayKeys)
	if err != nil {
		return nil, err
	}
	for key, data := range arrays {
		arr, err := dex.DecodeTickArray(data)
		if err != nil {
			return nil, fmt.Errorf("tick array %s: %w", key, err)
		}
		snap.TickArrays[key] = arr
	}

	snap.Tokens = dex.NewTokenMetaCache()
	if snap.Mints, err = dex.FetchTokenMetas(ctx, fetcher, []solana.PublicKey{pool.TokenMintA, pool.TokenMintB}, snap.Tokens, logger); err != nil {
		return nil, err
	}

	logger.Info("pool snapshot loaded",
		zap.String("pool", poolKey.String()),
		zap.Int("positions", len(snap.Positions)),
		zap.Int("tick_arrays", len(snap.TickArrays)),
	)
	return snap, nil
}

// ArrayKeys returns the snapshot's tick array keys in stable order.
func (s *Snapshot) ArrayKeys() []solana.PublicKey {
	keys := make([]solana.PublicKey, 0, len(s.TickArrays))
	for k := range s.TickArrays {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	return keys
}

// Seed writes the snapshot into store. Each account is funded at its
// rent-exempt minimum for its current size.
func (s *Snapshot) Seed(store *ledger.Store) error {
	return store.Update(func(tx *ledger.Tx) error {
		if err := seedAccount(tx, s.PoolKey, dex.WhirlpoolLen); err != nil {
			return err
		}
		tx.PutPool(s.PoolKey, s.Pool)
		for key, pos := range s.Positions {
			if err := seedAccount(tx, key, dex.PositionLen); err != nil {
				return err
			}
			tx.PutPosition(key, pos)
		}
		for key, arr := range s.TickArrays {
			if err := seedAccount(tx, key, arr.DataLen()); err != nil {
				return err
			}
			tx.PutTickArray(key, arr)
		}
		for key, m := range s.Mints {
			if err := seedAccount(tx, key, dex.MintLen); err != nil {
				return err
			}
			tx.PutMint(key, m)
		}
		return nil
	})
}

func seedAccount(tx *ledger.Tx, key solana.PublicKey, dataLen int) error {
	if err := tx.Fund(key, ledger.RentExempt(dataLen)); err != nil {
		return err
	}
	return tx.Resize(key, dataLen)
}
