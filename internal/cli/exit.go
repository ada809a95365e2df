package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/alnah/go-twapi/internal/apierr"
	"github.com/alnah/go-twapi/internal/client"
	"github.com/alnah/go-twapi/internal/config"
	"github.com/alnah/go-twapi/internal/interrupt"
)

// Exit codes.
const (
	ExitOK        = 0
	ExitGeneral   = 1
	ExitUsage     = 2
	ExitSetup     = 3
	ExitCallerBug = 4
	ExitRemote    = 5
	ExitRateLimit = 6
	ExitNetwork   = 7
	ExitInterrupt = interrupt.ExitInterrupt
)

// kindExitCodes groups unified error kinds by what the user can do about them.
var kindExitCodes = map[apierr.Kind]int{
	apierr.KindBadURL:                    ExitCallerBug,
	apierr.KindInvalidResponse:           ExitCallerBug,
	apierr.KindMissingValue:              ExitCallerBug,
	apierr.KindOperationAlreadyCompleted: ExitCallerBug,
	apierr.KindDecode:                    ExitCallerBug,
	apierr.KindTimestamp:                 ExitCallerBug,
	apierr.KindRemote:                    ExitRemote,
	apierr.KindBadStatus:                 ExitRemote,
	apierr.KindMediaProcessing:           ExitRemote,
	apierr.KindRateLimited:               ExitRateLimit,
	apierr.KindTransport:                 ExitNetwork,
	apierr.KindSecurity:                  ExitNetwork,
	apierr.KindIO:                        ExitNetwork,
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	// Check for context cancellation (interrupt).
	if errors.Is(err, context.Canceled) {
		return ExitInterrupt
	}

	// API failures. Checked before message matching since remote messages
	// are free text.
	if kind, ok := apierr.KindOf(err); ok {
		if code, ok := kindExitCodes[kind]; ok {
			return code
		}
	}

	// Usage errors: Cobra flag/arg parsing errors and malformed flag values.
	if isCobraUsageError(err) || errors.Is(err, ErrInvalidParam) || errors.Is(err, ErrInvalidStatus) ||
		errors.Is(err, config.ErrUnknownKey) || errors.Is(err, config.ErrInvalidKey) {
		return ExitUsage
	}

	// Setup errors.
	if errors.Is(err, ErrTokenMissing) || errors.Is(err, client.ErrEmptyToken) ||
		errors.Is(err, config.ErrInvalidSyntax) || errors.Is(err, config.ErrInvalidValue) {
		return ExitSetup
	}

	return ExitGeneral
}

// cobraUsageErrorPatterns contains error message substrings that indicate Cobra usage errors.
// These patterns are stable across Cobra versions (tested with v1.8+).
// Cobra doesn't expose typed errors, so string matching is the only reliable approach.
var cobraUsageErrorPatterns = []string{
	"required flag",             // Missing required flag
	"unknown flag",              // Flag doesn't exist
	"unknown shorthand",         // Short flag doesn't exist
	"unknown command",           // Subcommand doesn't exist
	"flag needs an argument",    // Flag provided without value
	"invalid argument",          // Invalid flag value type
	"if any flags in the group", // Mutually exclusive flag violation
	"accepts ",                  // Wrong number of arguments (e.g., "accepts 1 arg(s)")
	"requires at least",         // Too few arguments
	"requires at most",          // Too many arguments
}

// isCobraUsageError checks if an error is a Cobra usage/parsing error.
func isCobraUsageError(err error) bool {
	if err == nil {
		return false
	}
	errMsg := err.Error()
	for _, pattern := range cobraUsageErrorPatterns {
		if strings.Contains(errMsg, pattern) {
			return true
		}
	}
	return false
}
