package cli

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/alnah/go-twapi/internal/apierr"
	"github.com/alnah/go-twapi/internal/format"
)

// classifyOptions holds the flags of the classify command.
type classifyOptions struct {
	status     int
	reset      string
	label      string
	exitStatus bool
}

// ClassifyCmd creates the classify command.
// The env parameter provides injectable dependencies for testing.
func ClassifyCmd(env *Env) *cobra.Command {
	var opts classifyOptions

	cmd := &cobra.Command{
		Use:   "classify [file|-]",
		Short: "Classify a recorded API response offline",
		Long: `Classify a recorded API response the way the client would.

The body is read from the given file, or from stdin when the argument is
omitted or "-". The report names the error kind, its message, and any detail
carried by the error (remote codes, reset time, status).

With --exit-status the command exits with the code the classified error
would produce in a live request.`,
		Example: `  twapi classify response.json --status 429 --reset 1609459200
  curl -s https://api.twitter.com/1.1/x.json | twapi classify --status 404
  twapi classify body.json --status 200 --context "verify credentials"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := "-"
			if len(args) == 1 {
				input = args[0]
			}
			return runClassify(env, input, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.status, "status", "s", 0, "HTTP status code of the response (required)")
	cmd.Flags().StringVar(&opts.reset, "reset", "", "Value of the X-Rate-Limit-Reset header")
	cmd.Flags().StringVar(&opts.label, "context", "recorded response", "Operation label for invalid responses")
	cmd.Flags().BoolVar(&opts.exitStatus, "exit-status", false, "Exit with the classified error's code")
	_ = cmd.MarkFlagRequired("status")

	return cmd
}

// runClassify reads the body and writes the classification report.
func runClassify(env *Env, input string, opts classifyOptions) error {
	if opts.status < 100 || opts.status > 599 {
		return fmt.Errorf("%d: %w", opts.status, ErrInvalidStatus)
	}

	body, err := readInput(env, input)
	if err != nil {
		return err
	}

	resp := apierr.Response{StatusCode: opts.status, Body: body, RateLimitReset: opts.reset}

	// The client accepts 2xx bodies that carry no remote errors.
	if opts.status >= 200 && opts.status <= 299 && !apierr.HasRemoteErrors(body) && len(body) > 0 {
		writeReport(env.Stdout, [][2]string{
			{"kind", "none"},
			{"status", statusLine(opts.status)},
			{"size", format.BodySize(len(body))},
		})
		return nil
	}

	classified := apierr.Classify(resp, opts.label)
	writeReport(env.Stdout, reportRows(classified, opts.status, env))

	if opts.exitStatus {
		return classified
	}
	return nil
}

// reportRows lists the fields worth showing for a classified error.
func reportRows(e apierr.Error, status int, env *Env) [][2]string {
	rows := [][2]string{
		{"kind", e.Kind().String()},
		{"message", e.Error()},
		{"status", statusLine(status)},
	}

	var (
		rl      *apierr.RateLimitError
		remote  *apierr.RemoteError
		invalid *apierr.InvalidResponseError
	)
	switch {
	case errors.As(e, &rl):
		rows = append(rows, [2]string{"reset", format.ResetIn(rl.Reset, env.Now())})
	case errors.As(e, &remote):
		for _, rec := range remote.Errors.Errors {
			rows = append(rows, [2]string{"remote", rec.String()})
		}
	case errors.As(e, &invalid):
		rows = append(rows, [2]string{"context", invalid.Context})
	}

	rows = append(rows, [2]string{"exit code", strconv.Itoa(ExitCode(e))})
	return rows
}

func statusLine(status int) string {
	if text := http.StatusText(status); text != "" {
		return fmt.Sprintf("%d %s", status, text)
	}
	return strconv.Itoa(status)
}

// readInput reads a whole file, or stdin for "-".
func readInput(env *Env, input string) ([]byte, error) {
	if input == "-" {
		data, err := io.ReadAll(env.Stdin)
		if err != nil {
			return nil, fmt.Errorf("cannot read stdin: %w", apierr.FromIO(err))
		}
		return data, nil
	}

	data, err := os.ReadFile(input) // #nosec G304 -- user-specified input file
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", input, ErrFileNotFound)
		}
		return nil, fmt.Errorf("cannot read input: %w", apierr.FromIO(err))
	}
	return data, nil
}
