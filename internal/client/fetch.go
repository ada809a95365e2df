package client

import (
	"context"
	"encoding/json"
	"net/url"

	"golang.org/x/sync/errgroup"
)

// MaxRecommendedParallel is the highest fan-out that stays well inside the
// service's per-window request allowance.
const MaxRecommendedParallel = 8

// Getter issues GET requests. *Client implements it.
type Getter interface {
	Get(ctx context.Context, path string, params url.Values, out any) error
}

var _ Getter = (*Client)(nil)

// Result is the outcome of one GET issued by FetchAll.
// Exactly one of Body and Err is set.
type Result struct {
	Path string
	Body json.RawMessage
	Err  error
}

// FetchAll issues a GET for every path concurrently, with at most parallel
// requests in flight, and returns one result per path in input order.
// A failing path does not abort the others; its unified error is reported
// in its Result.
func FetchAll(ctx context.Context, c Getter, paths []string, params url.Values, parallel int) []Result {
	if len(paths) == 0 {
		return nil
	}
	if parallel < 1 {
		parallel = 1
	}

	results := make([]Result, len(paths))

	var g errgroup.Group
	g.SetLimit(parallel)

	for i, path := range paths {
		g.Go(func() error {
			var body json.RawMessage
			err := c.Get(ctx, path, params, &body)
			if err != nil {
				body = nil
			}
			results[i] = Result{Path: path, Body: body, Err: err}
			return nil
		})
	}

	// Workers report failures in their result, never to the group.
	_ = g.Wait()

	return results
}

// Failed returns the results that carry an error.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r)
		}
	}
	return failed
}
