package chain

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// SplitKeys splits keys into consecutive batches of at most batchSize,
// dropping duplicates.
func SplitKeys(keys []solana.PublicKey, batchSize int) ([][]solana.PublicKey, error) {
	if batchSize <= 0 {
		return nil, fmt.Errorf("batch size must be greater than zero")
	}

	seen := make(map[solana.PublicKey]struct{}, len(keys))
	unique := make([]solana.PublicKey, 0, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		unique = append(unique, k)
	}

	batches := make([][]solana.PublicKey, 0, (len(unique)+batchSize-1)/batchSize)
	for start := 0; start < len(unique); start += batchSize {
		end := min(start+batchSize, len(unique))
		batches = append(batches, unique[start:end])
	}
	return batches, nil
}
