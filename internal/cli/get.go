package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alnah/go-twapi/internal/client"
	"github.com/alnah/go-twapi/internal/format"
)

// getOptions holds the flags of the get command.
type getOptions struct {
	params   []string
	parallel int
	pretty   bool
}

// GetCmd creates the get command.
// The env parameter provides injectable dependencies for testing.
func GetCmd(env *Env) *cobra.Command {
	var opts getOptions

	cmd := &cobra.Command{
		Use:   "get <path>...",
		Short: "Fetch one or more API endpoints",
		Long: `Fetch one or more API endpoints relative to the base URL.

Response bodies are written to stdout in argument order. Each failed request
is reported on stderr as one classified line, and the exit code reflects the
first failure.

Requires TWAPI_BEARER_TOKEN.`,
		Example: `  twapi get account/verify_credentials.json
  twapi get users/show.json --param screen_name=twitterapi --pretty
  twapi get statuses/user_timeline.json friends/ids.json --parallel 2`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(cmd.Context(), env, args, opts)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.params, "param", "p", nil, "Query parameter as key=value (repeatable)")
	cmd.Flags().IntVar(&opts.parallel, "parallel", 4, fmt.Sprintf("Max concurrent requests (1-%d)", client.MaxRecommendedParallel))
	cmd.Flags().BoolVar(&opts.pretty, "pretty", false, "Indent JSON output")

	return cmd
}

// runGet fetches every path and writes bodies in input order.
func runGet(ctx context.Context, env *Env, paths []string, opts getOptions) error {
	params, err := parseParams(opts.params)
	if err != nil {
		return err
	}

	api, err := newAPI(env)
	if err != nil {
		return err
	}

	parallel := clampParallel(opts.parallel)
	batch := len(paths) > 1
	if batch {
		fmt.Fprintf(env.Stderr, "Fetching %d endpoints (parallel: %d)...\n", len(paths), parallel)
	}

	results := client.FetchAll(ctx, api, paths, params, parallel)

	for _, r := range results {
		if r.Err != nil {
			// A single failure is reported once by the caller.
			if batch {
				fmt.Fprintf(env.Stderr, "%s: %s\n", r.Path, Describe(r.Err, env.Now()))
			}
			continue
		}
		if batch {
			fmt.Fprintf(env.Stderr, "%s: %s\n", r.Path, format.BodySize(len(r.Body)))
		}
		if err := writeBody(env.Stdout, r.Body, opts.pretty); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}

	failed := client.Failed(results)
	if len(failed) == 0 {
		return nil
	}
	if !batch {
		return failed[0].Err
	}
	return fmt.Errorf("%d of %d %w: %w", len(failed), len(paths), ErrRequestsFailed, failed[0].Err)
}

// clampParallel bounds the fan-out to 1..MaxRecommendedParallel.
func clampParallel(n int) int {
	return max(1, min(n, client.MaxRecommendedParallel))
}
