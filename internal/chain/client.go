package chain

import (
	"context"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"
)

// DefaultBatchSize is the getMultipleAccounts limit of public RPC nodes.
const DefaultBatchSize = 100

// Options tunes batching and retries.
type Options struct {
	BatchSize  int
	MaxRetries int
	RetryDelay time.Duration
}

// Client wraps the solana-go RPC client with batched, retried account reads.
type Client struct {
	rpc    *rpc.Client
	opts   Options
	logger *zap.Logger
}

// NewClient creates a chain client for the RPC endpoint.
func NewClient(endpoint string, opts Options, logger *zap.Logger) *Client {
	if opts.BatchSize <= 0 || opts.BatchSize > DefaultBatchSize {
		opts.BatchSize = DefaultBatchSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{rpc: rpc.New(endpoint), opts: opts, logger: logger}
}

// Close closes the underlying RPC client.
func (c *Client) Close() error {
	return c.rpc.Close()
}

// GetSlot returns the latest confirmed slot.
func (c *Client) GetSlot(ctx context.Context) (uint64, error) {
	var slot uint64
	err := withRetry(ctx, c.opts.MaxRetries, c.opts.RetryDelay, func(ctx context.Context) error {
		var err error
		slot, err = c.rpc.GetSlot(ctx, rpc.CommitmentConfirmed)
		return err
	})
	return slot, err
}

// GetAccounts fetches raw account data for keys. Accounts that do not exist
// are absent from the result.
func (c *Client) GetAccounts(ctx context.Context, keys []solana.PublicKey) (map[solana.PublicKey][]byte, error) {
	out := make(map[solana.PublicKey][]byte, len(keys))
	batches, err := SplitKeys(keys, c.opts.BatchSize)
	if err != nil {
		return nil, err
	}
	for _, batch := range batches {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		var resp *rpc.GetMultipleAccountsResult
		err := withRetry(ctx, c.opts.MaxRetries, c.opts.RetryDelay, func(ctx context.Context) error {
			var err error
			resp, err = c.rpc.GetMultipleAccountsWithOpts(ctx, batch, &rpc.GetMultipleAccountsOpts{
				Encoding:   solana.EncodingBase64,
				Commitment: rpc.CommitmentConfirmed,
			})
			if err != nil {
				c.logger.Warn("get multiple accounts failed", zap.Int("keys", len(batch)), zap.Error(err))
			}
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("get multiple accounts: %w", err)
		}
		if resp == nil || len(resp.Value) != len(batch) {
			return nil, fmt.Errorf("get multiple accounts: malformed response for %d keys", len(batch))
		}
		for i, acct := range resp.Value {
			if acct == nil || acct.Data == nil {
				continue
			}
			out[batch[i]] = acct.Data.GetBinary()
		}
		c.logger.Debug("accounts batch fetched", zap.Int("keys", len(batch)), zap.Int("found", len(out)))
	}
	return out, nil
}
