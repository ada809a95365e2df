package cli

import "errors"

// CLI-specific sentinel errors.
// These are validation/usage errors that don't belong to domain packages.

var (
	// ErrTokenMissing indicates TWAPI_BEARER_TOKEN environment variable is not set.
	ErrTokenMissing = errors.New("TWAPI_BEARER_TOKEN environment variable not set")

	// ErrInvalidParam indicates a --param value is not key=value.
	ErrInvalidParam = errors.New("invalid parameter")

	// ErrInvalidStatus indicates an HTTP status code outside 100-599.
	ErrInvalidStatus = errors.New("invalid HTTP status code")

	// ErrFileNotFound indicates the specified input file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrRequestsFailed indicates that at least one request of a batch failed.
	ErrRequestsFailed = errors.New("requests failed")
)
