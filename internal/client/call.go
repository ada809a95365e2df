package client

import (
	"context"
	"encoding/json"
	"net/url"
	"sync/atomic"

	"github.com/alnah/go-twapi/internal/apierr"
)

// Call is a single-shot asynchronous operation. It yields its terminal
// result exactly once: the first Await after completion returns it, every
// later Await returns an OperationCompletedError.
//
// A Call is safe for concurrent use. When several goroutines await the same
// call, one receives the result and the others the completion error.
type Call[T any] struct {
	done     chan struct{}
	val      T
	err      error
	consumed atomic.Bool
}

// Start runs fn in a new goroutine and returns the call tracking it.
// fn receives ctx; cancelling ctx is the way to abandon the work.
func Start[T any](ctx context.Context, fn func(context.Context) (T, error)) *Call[T] {
	c := &Call[T]{done: make(chan struct{})}
	go func() {
		defer close(c.done)
		c.val, c.err = fn(ctx)
	}()
	return c
}

// Done returns a channel closed when the operation has finished.
func (c *Call[T]) Done() <-chan struct{} {
	return c.done
}

// Await blocks until the operation finishes or ctx ends.
//
// If ctx ends first, Await returns a TransportError wrapping the context
// error and the call stays unconsumed: a later Await can still collect the
// result.
func (c *Call[T]) Await(ctx context.Context) (T, error) {
	var zero T

	select {
	case <-c.done:
	case <-ctx.Done():
		// A finished result takes precedence over an expired context.
		select {
		case <-c.done:
		default:
			return zero, apierr.FromTransport(ctx.Err())
		}
	}

	if !c.consumed.CompareAndSwap(false, true) {
		return zero, apierr.OperationAlreadyCompleted()
	}
	return c.val, c.err
}

// GetAsync starts a GET request for path and returns the call yielding the
// raw response body.
func (c *Client) GetAsync(ctx context.Context, path string, params url.Values) *Call[json.RawMessage] {
	return Start(ctx, func(ctx context.Context) (json.RawMessage, error) {
		var body json.RawMessage
		if err := c.Get(ctx, path, params, &body); err != nil {
			return nil, err
		}
		return body, nil
	})
}
