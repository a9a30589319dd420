package aggregate

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// PoolDecimals holds the mint decimals of a pool's two tokens.
type PoolDecimals struct {
	A uint8
	B uint8
}

// ParsePoolDecimals parses "A/B", for example "9/6".
func ParsePoolDecimals(value string) (PoolDecimals, error) {
	parts := strings.Split(strings.TrimSpace(value), "/")
	if len(parts) != 2 {
		return PoolDecimals{}, fmt.Errorf("invalid pool decimals %q: want A/B", value)
	}
	a, err := strconv.ParseUint(strings.TrimSpace(parts[0]), 10, 8)
	if err != nil {
		return PoolDecimals{}, fmt.Errorf("invalid decimals a %q: %w", parts[0], err)
	}
	b, err := strconv.ParseUint(strings.TrimSpace(parts[1]), 10, 8)
	if err != nil {
		return PoolDecimals{}, fmt.Errorf("invalid decimals b %q: %w", parts[1], err)
	}
	return PoolDecimals{A: uint8(a), B: uint8(b)}, nil
}

// DecimalsCache caches pool decimals by pool address.
type DecimalsCache struct {
	mu   sync.RWMutex
	data map[string]PoolDecimals
}

func NewDecimalsCache(seed map[string]PoolDecimals) *DecimalsCache {
	data := make(map[string]PoolDecimals, len(seed))
	for k, v := range seed {
		data[k] = v
	}
	return &DecimalsCache{data: data}
}

func (c *DecimalsCache) Get(pool string) (PoolDecimals, bool) {
	c.mu.RLock()
	decimals, ok := c.data[pool]
	c.mu.RUnlock()
	return decimals, ok
}

func (c *DecimalsCache) Set(pool string, decimals PoolDecimals) {
	c.mu.Lock()
	c.data[pool] = decimals
	c.mu.Unlock()
}
