package chain

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
)

// Solana JSON-RPC server codes for conditions that clear once the node
// catches up.
const (
	codeInternal                 = -32603
	codeBlockNotAvailable        = -32004
	codeNodeUnhealthy            = -32005
	codeBlockStatusNotYetAvail   = -32014
	codeMinContextSlotNotReached = -32016
)

const maxRetryDelay = 5 * time.Second

// retryable reports whether a failed RPC call may succeed if repeated: rate
// limits, 5xx responses, transport errors and node-behind codes. Invalid
// params, missing accounts and any other JSON-RPC error are final.
func retryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, rpc.ErrNotFound) {
		return false
	}

	var rpcErr *jsonrpc.RPCError
	if errors.As(err, &rpcErr) {
		switch rpcErr.Code {
		case codeInternal, codeBlockNotAvailable, codeNodeUnhealthy,
			codeBlockStatusNotYetAvail, codeMinContextSlotNotReached:
			return true
		}
		return false
	}

	var httpErr *jsonrpc.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code == http.StatusTooManyRequests || httpErr.Code >= http.StatusInternalServerError
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF)
}

// withRetry runs fn until it succeeds, fails with a final error, or has been
// retried maxRetries times. The delay doubles from baseDelay up to
// maxRetryDelay.
func withRetry(ctx context.Context, maxRetries int, baseDelay time.Duration, fn func(context.Context) error) error {
	maxRetries = max(maxRetries, 0)
	if baseDelay <= 0 {
		baseDelay = 100 * time.Millisecond
	}

	delay := baseDelay
	for attempt := 0; ; attempt++ {
		err := fn(ctx)
		switch {
		case err == nil:
			return nil
		case ctx.Err() != nil:
			return ctx.Err()
		case attempt >= maxRetries, !retryable(err):
			return err
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay = min(delay*2, maxRetryDelay)
	}
}
