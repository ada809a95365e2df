package client_test

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alnah/go-twapi/internal/apierr"
	"github.com/alnah/go-twapi/internal/client"
)

// ---------------------------------------------------------------------------
// TestFetchAll - Concurrent GET fan-out
// ---------------------------------------------------------------------------

func TestFetchAll(t *testing.T) {
	t.Parallel()

	t.Run("results in input order with per-path errors", func(t *testing.T) {
		t.Parallel()

		srv := newCountingServer(t, func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/a.json":
				time.Sleep(5 * time.Millisecond)
				reply(http.StatusOK, `{"name":"a"}`)(w, r)
			case "/limited.json":
				w.Header().Set("X-Rate-Limit-Reset", "1609459200")
				reply(http.StatusTooManyRequests, rateLimitBody)(w, r)
			default:
				reply(http.StatusNotFound, "")(w, r)
			}
		})
		c := mustNewClient(t, srv.URL)

		paths := []string{"a.json", "limited.json", "missing.json"}
		results := client.FetchAll(context.Background(), c, paths, nil, 3)

		if len(results) != len(paths) {
			t.Fatalf("len(results) = %d, want %d", len(results), len(paths))
		}
		for i, r := range results {
			if r.Path != paths[i] {
				t.Errorf("results[%d].Path = %q, want %q", i, r.Path, paths[i])
			}
		}
		if results[0].Err != nil || string(results[0].Body) != `{"name":"a"}` {
			t.Errorf("results[0] = %+v", results[0])
		}
		wantKind(t, results[1].Err, apierr.KindRateLimited)
		wantKind(t, results[2].Err, apierr.KindBadStatus)
		if results[1].Body != nil {
			t.Errorf("failed result should carry no body, got %s", results[1].Body)
		}

		if failed := client.Failed(results); len(failed) != 2 {
			t.Errorf("len(Failed) = %d, want 2", len(failed))
		}
	})

	t.Run("respects parallel limit", func(t *testing.T) {
		t.Parallel()

		var inFlight, peak atomic.Int32
		srv := newCountingServer(t, func(w http.ResponseWriter, r *http.Request) {
			n := inFlight.Add(1)
			defer inFlight.Add(-1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			reply(http.StatusOK, `{}`)(w, r)
		})
		c := mustNewClient(t, srv.URL)

		paths := []string{"1.json", "2.json", "3.json", "4.json", "5.json", "6.json"}
		results := client.FetchAll(context.Background(), c, paths, nil, 2)

		if failed := client.Failed(results); len(failed) != 0 {
			t.Fatalf("unexpected failures: %+v", failed)
		}
		if got := peak.Load(); got > 2 {
			t.Errorf("peak in-flight = %d, want <= 2", got)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()

		c := mustNewClient(t, "https://api.example")
		if got := client.FetchAll(context.Background(), c, nil, nil, 4); got != nil {
			t.Errorf("FetchAll(nil) = %v, want nil", got)
		}
	})
}
