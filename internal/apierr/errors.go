// Package apierr is the unified error layer of the API client. Every failure
// that can arise while talking to the remote service (transport, TLS, local
// I/O, JSON decoding, timestamp parsing, remote-reported errors, rate limits,
// media processing) is represented by exactly one concrete type implementing
// Error.
//
// Callers branch either on the concrete type:
//
//	var rl *apierr.RateLimitError
//	if errors.As(err, &rl) {
//	    wait(rl.ResetTime())
//	}
//
// or on the sentinel of the variant, which survives fmt.Errorf wrapping:
//
//	if errors.Is(err, apierr.ErrRateLimit) { ... }
//
// The package holds no state and performs no I/O. Retry policy is left to the
// caller; the values here only carry the information a policy needs.
package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Kind identifies the variant of a unified error.
type Kind int

// Variants of the unified error. The zero value is not a valid kind.
const (
	KindBadURL Kind = iota + 1
	KindInvalidResponse
	KindMissingValue
	KindOperationAlreadyCompleted
	KindRemote
	KindRateLimited
	KindMediaProcessing
	KindBadStatus
	KindTransport
	KindSecurity
	KindIO
	KindDecode
	KindTimestamp
)

var kindNames = map[Kind]string{
	KindBadURL:                    "bad_url",
	KindInvalidResponse:           "invalid_response",
	KindMissingValue:              "missing_value",
	KindOperationAlreadyCompleted: "operation_already_completed",
	KindRemote:                    "remote_error",
	KindRateLimited:               "rate_limited",
	KindMediaProcessing:           "media_processing_failed",
	KindBadStatus:                 "bad_status",
	KindTransport:                 "transport_failure",
	KindSecurity:                  "security_failure",
	KindIO:                        "io_failure",
	KindDecode:                    "decode_failure",
	KindTimestamp:                 "timestamp_failure",
}

// String returns the stable snake_case name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Kinds returns every valid kind in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(kindNames))
	for k := KindBadURL; k <= KindTimestamp; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// Sentinel errors, one per variant. A unified error matches exactly one of
// them with errors.Is.
var (
	ErrBadURL             = errors.New("URL given did not match API method")
	ErrInvalidResponse    = errors.New("invalid response received")
	ErrMissingValue       = errors.New("value missing from response")
	ErrOperationCompleted = errors.New("operation has already been completed")
	ErrRemote             = errors.New("error returned from remote service")
	ErrRateLimit          = errors.New("rate limit reached")
	ErrMediaProcessing    = errors.New("error processing media")
	ErrBadStatus          = errors.New("error status received")
	ErrTransport          = errors.New("network error")
	ErrSecurity           = errors.New("TLS error")
	ErrIO                 = errors.New("IO error")
	ErrDecode             = errors.New("JSON decode error")
	ErrTimestamp          = errors.New("error parsing timestamp")
)

var sentinels = map[Kind]error{
	KindBadURL:                    ErrBadURL,
	KindInvalidResponse:           ErrInvalidResponse,
	KindMissingValue:              ErrMissingValue,
	KindOperationAlreadyCompleted: ErrOperationCompleted,
	KindRemote:                    ErrRemote,
	KindRateLimited:               ErrRateLimit,
	KindMediaProcessing:           ErrMediaProcessing,
	KindBadStatus:                 ErrBadStatus,
	KindTransport:                 ErrTransport,
	KindSecurity:                  ErrSecurity,
	KindIO:                        ErrIO,
	KindDecode:                    ErrDecode,
	KindTimestamp:                 ErrTimestamp,
}

// Sentinel returns the sentinel error of a kind, or nil for an invalid kind.
func (k Kind) Sentinel() error {
	return sentinels[k]
}

// Error is implemented by every variant of the unified error. The set of
// implementations is closed: only this package can add one.
type Error interface {
	error
	// Kind reports the variant.
	Kind() Kind
	// Cause returns the wrapped lower-level failure, or nil for variants
	// that do not wrap one.
	Cause() error

	sealed()
}

// KindOf returns the kind of the first unified error in err's chain.
func KindOf(err error) (Kind, bool) {
	var e Error
	if errors.As(err, &e) {
		return e.Kind(), true
	}
	return 0, false
}

// Compile-time interface compliance check.
var (
	_ Error = (*BadURLError)(nil)
	_ Error = (*InvalidResponseError)(nil)
	_ Error = (*MissingValueError)(nil)
	_ Error = (*OperationCompletedError)(nil)
	_ Error = (*RemoteError)(nil)
	_ Error = (*RateLimitError)(nil)
	_ Error = (*MediaProcessingError)(nil)
	_ Error = (*BadStatusError)(nil)
	_ Error = (*TransportError)(nil)
	_ Error = (*SecurityError)(nil)
	_ Error = (*IOError)(nil)
	_ Error = (*DecodeError)(nil)
	_ Error = (*TimestampError)(nil)
)

// pure is embedded by variants that carry no lower-level cause.
type pure struct{}

func (pure) Cause() error { return nil }
func (pure) sealed()      {}

// ---------------------------------------------------------------------------
// Pure variants
// ---------------------------------------------------------------------------

// BadURLError reports a URL that did not match the API method it was given
// to. It is a programmer error and never worth retrying.
type BadURLError struct {
	pure
	// URL is the offending URL as given by the caller.
	URL string
}

func (e *BadURLError) Error() string {
	if e.URL == "" {
		return ErrBadURL.Error()
	}
	return fmt.Sprintf("%s: %s", ErrBadURL, e.URL)
}

func (e *BadURLError) Kind() Kind           { return KindBadURL }
func (e *BadURLError) Is(target error) bool { return target == ErrBadURL }

// InvalidResponseError reports a response whose shape did not match what the
// calling operation expected. Raw holds an excerpt of the offending input
// when one is available.
type InvalidResponseError struct {
	pure
	Context string
	Raw     string
}

func (e *InvalidResponseError) Error() string {
	if e.Raw == "" {
		return fmt.Sprintf("%s: %s", ErrInvalidResponse, e.Context)
	}
	return fmt.Sprintf("%s: %s (%q)", ErrInvalidResponse, e.Context, e.Raw)
}

func (e *InvalidResponseError) Kind() Kind           { return KindInvalidResponse }
func (e *InvalidResponseError) Is(target error) bool { return target == ErrInvalidResponse }

// MissingValueError reports a required field absent from an otherwise
// well-formed response.
type MissingValueError struct {
	pure
	Field string
}

func (e *MissingValueError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingValue, e.Field)
}

func (e *MissingValueError) Kind() Kind           { return KindMissingValue }
func (e *MissingValueError) Is(target error) bool { return target == ErrMissingValue }

// OperationCompletedError is returned when a single-shot operation is awaited
// again after it already yielded its terminal value. Start a new operation to
// retry the request.
type OperationCompletedError struct {
	pure
}

func (e *OperationCompletedError) Error() string        { return ErrOperationCompleted.Error() }
func (e *OperationCompletedError) Kind() Kind           { return KindOperationAlreadyCompleted }
func (e *OperationCompletedError) Is(target error) bool { return target == ErrOperationCompleted }

// RemoteError reports that the service explicitly rejected the call.
type RemoteError struct {
	pure
	// StatusCode is the HTTP status the errors arrived with.
	StatusCode int
	Errors     RemoteErrors
}

// Error renders every record on a single line, in wire order.
func (e *RemoteError) Error() string {
	parts := make([]string, len(e.Errors.Errors))
	for i, rec := range e.Errors.Errors {
		parts[i] = rec.String()
	}
	return fmt.Sprintf("error(s) returned from remote service: %s", strings.Join(parts, ", "))
}

func (e *RemoteError) Kind() Kind           { return KindRemote }
func (e *RemoteError) Is(target error) bool { return target == ErrRemote }

// RateLimitError reports that the rate-limit window for the method is
// exhausted. Reset is the Unix timestamp (UTC, seconds) at which the next
// window opens.
type RateLimitError struct {
	pure
	Reset int64
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s, hold until %d", ErrRateLimit, e.Reset)
}

// ResetTime returns Reset as a UTC time.
func (e *RateLimitError) ResetTime() time.Time {
	return time.Unix(e.Reset, 0).UTC()
}

func (e *RateLimitError) Kind() Kind           { return KindRateLimited }
func (e *RateLimitError) Is(target error) bool { return target == ErrRateLimit }

// MediaProcessingError reports an upload that was accepted but failed during
// asynchronous post-processing.
type MediaProcessingError struct {
	pure
	Media MediaError
}

func (e *MediaProcessingError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMediaProcessing, e.Media.Message)
}

func (e *MediaProcessingError) Kind() Kind           { return KindMediaProcessing }
func (e *MediaProcessingError) Is(target error) bool { return target == ErrMediaProcessing }

// BadStatusError reports a non-2xx status for which no remote error
// collection could be extracted from the body.
type BadStatusError struct {
	pure
	StatusCode int
}

func (e *BadStatusError) Error() string {
	if text := http.StatusText(e.StatusCode); text != "" {
		return fmt.Sprintf("%s: %d %s", ErrBadStatus, e.StatusCode, text)
	}
	return fmt.Sprintf("%s: %d", ErrBadStatus, e.StatusCode)
}

func (e *BadStatusError) Kind() Kind           { return KindBadStatus }
func (e *BadStatusError) Is(target error) bool { return target == ErrBadStatus }

// ---------------------------------------------------------------------------
// Wrapping variants
// ---------------------------------------------------------------------------

// TransportError wraps a connection-level failure.
type TransportError struct{ Err error }

func (e *TransportError) Error() string        { return fmt.Sprintf("%s: %v", ErrTransport, e.Err) }
func (e *TransportError) Kind() Kind           { return KindTransport }
func (e *TransportError) Cause() error         { return e.Err }
func (e *TransportError) Unwrap() error        { return e.Err }
func (e *TransportError) Is(target error) bool { return target == ErrTransport }
func (e *TransportError) sealed()              {}

// SecurityError wraps a TLS or certificate failure.
type SecurityError struct{ Err error }

func (e *SecurityError) Error() string        { return fmt.Sprintf("%s: %v", ErrSecurity, e.Err) }
func (e *SecurityError) Kind() Kind           { return KindSecurity }
func (e *SecurityError) Cause() error         { return e.Err }
func (e *SecurityError) Unwrap() error        { return e.Err }
func (e *SecurityError) Is(target error) bool { return target == ErrSecurity }
func (e *SecurityError) sealed()              {}

// IOError wraps a local stream read or write failure.
type IOError struct{ Err error }

func (e *IOError) Error() string        { return fmt.Sprintf("%s: %v", ErrIO, e.Err) }
func (e *IOError) Kind() Kind           { return KindIO }
func (e *IOError) Cause() error         { return e.Err }
func (e *IOError) Unwrap() error        { return e.Err }
func (e *IOError) Is(target error) bool { return target == ErrIO }
func (e *IOError) sealed()              {}

// DecodeError wraps a JSON syntax or structural decode failure.
type DecodeError struct{ Err error }

func (e *DecodeError) Error() string        { return fmt.Sprintf("%s: %v", ErrDecode, e.Err) }
func (e *DecodeError) Kind() Kind           { return KindDecode }
func (e *DecodeError) Cause() error         { return e.Err }
func (e *DecodeError) Unwrap() error        { return e.Err }
func (e *DecodeError) Is(target error) bool { return target == ErrDecode }
func (e *DecodeError) sealed()              {}

// TimestampError wraps a failure to parse a service-supplied timestamp.
type TimestampError struct{ Err error }

func (e *TimestampError) Error() string        { return fmt.Sprintf("%s: %v", ErrTimestamp, e.Err) }
func (e *TimestampError) Kind() Kind           { return KindTimestamp }
func (e *TimestampError) Cause() error         { return e.Err }
func (e *TimestampError) Unwrap() error        { return e.Err }
func (e *TimestampError) Is(target error) bool { return target == ErrTimestamp }
func (e *TimestampError) sealed()              {}

// ---------------------------------------------------------------------------
// Constructors for the pure variants
// ---------------------------------------------------------------------------

// BadURL returns a BadURLError for rawURL.
func BadURL(rawURL string) *BadURLError {
	return &BadURLError{URL: rawURL}
}

// InvalidResponse returns an InvalidResponseError. raw is truncated to a
// diagnostic excerpt.
func InvalidResponse(context, raw string) *InvalidResponseError {
	return &InvalidResponseError{Context: context, Raw: excerpt(raw)}
}

// MissingValue returns a MissingValueError naming field.
func MissingValue(field string) *MissingValueError {
	return &MissingValueError{Field: field}
}

// OperationAlreadyCompleted returns an OperationCompletedError.
func OperationAlreadyCompleted() *OperationCompletedError {
	return &OperationCompletedError{}
}

// RateLimited returns a RateLimitError for the given reset timestamp.
func RateLimited(reset int64) *RateLimitError {
	return &RateLimitError{Reset: reset}
}

// BadStatus returns a BadStatusError for status.
func BadStatus(status int) *BadStatusError {
	return &BadStatusError{StatusCode: status}
}

// MediaProcessingFailed returns a MediaProcessingError wrapping m.
func MediaProcessingFailed(m MediaError) *MediaProcessingError {
	return &MediaProcessingError{Media: m}
}
