package dex

import (
	"context"
	"fmt"
	"sync"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"liquidityEngine/internal/model"
)

// AccountFetcher loads raw account data by key. Missing accounts are absent
// from the result.
type AccountFetcher interface {
	GetAccounts(ctx context.Context, keys []solana.PublicKey) (map[solana.PublicKey][]byte, error)
}

// TokenMetaCache caches mint metadata by address.
type TokenMetaCache struct {
	mu   sync.RWMutex
	data map[solana.PublicKey]model.TokenMeta
}

func NewTokenMetaCache() *TokenMetaCache {
	return &TokenMetaCache{data: make(map[solana.PublicKey]model.TokenMeta)}
}

func (c *TokenMetaCache) Get(mint solana.PublicKey) (model.TokenMeta, bool) {
	c.mu.RLock()
	meta, ok := c.data[mint]
	c.mu.RUnlock()
	return meta, ok
}

func (c *TokenMetaCache) Set(mint solana.PublicKey, meta model.TokenMeta) {
	c.mu.Lock()
	c.data[mint] = meta
	c.mu.Unlock()
}

// Decimals returns the cached decimals for mint, or fallback.
func (c *TokenMetaCache) Decimals(mint solana.PublicKey, fallback uint8) uint8 {
	if meta, ok := c.Get(mint); ok {
		return meta.Decimals
	}
	return fallback
}

// FetchTokenMetas fills the cache for every mint not already present and
// returns the decoded mints keyed by address.
func FetchTokenMetas(ctx context.Context, fetcher AccountFetcher, mints []solana.PublicKey, cache *TokenMetaCache, logger *zap.Logger) (map[solana.PublicKey]*model.Mint, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("account fetcher is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	accounts, err := fetcher.GetAccounts(ctx, mints)
	if err != nil {
		return nil, fmt.Errorf("fetch mints: %w", err)
	}
	out := make(map[solana.PublicKey]*model.Mint, len(mints))
	for _, key := range mints {
		data, ok := accounts[key]
		if !ok {
			logger.Warn("mint account missing", zap.String("mint", key.String()))
			continue
		}
		m, err := DecodeMint(data)
		if err != nil {
			return nil, fmt.Errorf("mint %s: %w", key, err)
		}
		out[key] = m
		if cache != nil {
			if _, ok := cache.Get(key); !ok {
				cache.Set(key, model.TokenMeta{Address: key.String(), Decimals: m.Decimals})
			}
		}
	}
	return out, nil
}
