package cli

import (
	"context"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

// WhoamiCmd creates the whoami command.
// The env parameter provides injectable dependencies for testing.
func WhoamiCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the account the token authenticates as",
		Long: `Show the account the bearer token authenticates as.

Useful to check credentials and configuration: every failure is reported
with its classified kind.

Requires TWAPI_BEARER_TOKEN.`,
		Example: `  twapi whoami`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWhoami(cmd.Context(), env)
		},
	}
}

// runWhoami verifies credentials and reports the user.
func runWhoami(ctx context.Context, env *Env) error {
	api, err := newAPI(env)
	if err != nil {
		return err
	}

	u, err := api.VerifyCredentials(ctx)
	if err != nil {
		return err
	}

	writeReport(env.Stdout, [][2]string{
		{"screen name", "@" + u.ScreenName},
		{"name", u.Name},
		{"id", u.ID},
		{"created", u.CreatedAt.UTC().Format(time.RFC3339)},
		{"followers", strconv.Itoa(u.FollowersCount)},
	})
	return nil
}
