package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/alnah/go-twapi/internal/client"
	"github.com/alnah/go-twapi/internal/format"
)

// stopHint is shown on the first Ctrl+C while waiting for media.
const stopHint = "Stopping, press Ctrl+C again to abort."

// MediaStatusCmd creates the media-status command.
// The env parameter provides injectable dependencies for testing.
func MediaStatusCmd(env *Env) *cobra.Command {
	var wait bool

	cmd := &cobra.Command{
		Use:   "media-status <media-id>",
		Short: "Show the processing status of uploaded media",
		Long: `Show the post-upload processing status of a media item.

With --wait, polls until processing succeeds or fails, honoring the delay
suggested by the service. Progress is reported on stderr. Press Ctrl+C once
to stop waiting and print the last known status, twice to abort.

Requires TWAPI_BEARER_TOKEN.`,
		Example: `  twapi media-status 710511363345354753
  twapi media-status 710511363345354753 --wait`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMediaStatus(cmd.Context(), env, args[0], wait)
		},
	}

	cmd.Flags().BoolVarP(&wait, "wait", "w", false, "Poll until processing finishes")

	return cmd
}

// runMediaStatus fetches, or waits for, the media status and reports it.
func runMediaStatus(ctx context.Context, env *Env, mediaID string, wait bool) error {
	api, err := newAPI(env)
	if err != nil {
		return err
	}

	var status client.MediaStatus
	if wait {
		handler, waitCtx := env.Interrupts(ctx, env.Stderr, stopHint)
		defer handler.Stop()

		start := env.Now()
		status, err = api.WaitMedia(waitCtx, mediaID, func(s client.MediaStatus) {
			fmt.Fprintf(env.Stderr, "  [%s] %s %d%%\n", format.Elapsed(env.Now().Sub(start)), s.State, s.Progress)
		})
		// Stopping on purpose is not a network failure.
		if handler.Interrupted() && errors.Is(err, context.Canceled) {
			fmt.Fprintln(env.Stderr, "Interrupted, last known status:")
			err = context.Canceled
		}
	} else {
		status, err = api.MediaStatus(ctx, mediaID)
	}

	// A failed state still carries the last known status.
	if status.MediaID != "" {
		rows := [][2]string{
			{"media", status.MediaID},
			{"state", string(status.State)},
			{"progress", strconv.Itoa(status.Progress) + "%"},
		}
		if status.CheckAfter > 0 && !status.State.Terminal() {
			rows = append(rows, [2]string{"check after", format.Wait(status.CheckAfter)})
		}
		writeReport(env.Stdout, rows)
	}

	return err
}
