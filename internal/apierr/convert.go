package apierr

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"net"
	"net/url"
	"time"
)

// Each lower-level failure kind has exactly one constructor and one target
// variant. The original value is kept as the cause, unchanged.

// FromTransport wraps a connection-level failure.
func FromTransport(err error) *TransportError {
	return &TransportError{Err: err}
}

// FromSecurity wraps a TLS or certificate failure.
func FromSecurity(err error) *SecurityError {
	return &SecurityError{Err: err}
}

// FromIO wraps a local stream read or write failure.
func FromIO(err error) *IOError {
	return &IOError{Err: err}
}

// FromDecode wraps a JSON syntax or structural decode failure.
func FromDecode(err error) *DecodeError {
	return &DecodeError{Err: err}
}

// FromTimestamp wraps a timestamp parse failure.
func FromTimestamp(err error) *TimestampError {
	return &TimestampError{Err: err}
}

// FromRequest classifies the error returned by an HTTP round trip. TLS and
// certificate failures become SecurityError, everything else TransportError,
// including context cancellation and deadlines.
func FromRequest(err error) Error {
	if isSecurity(err) {
		return FromSecurity(err)
	}
	return FromTransport(err)
}

// Convert maps an arbitrary error to its unified variant by inspecting its
// type. Unified errors already in the chain are returned as-is. Errors of no
// recognized kind are treated as local I/O failures. Convert returns nil for
// a nil error.
func Convert(err error) Error {
	if err == nil {
		return nil
	}

	var unified Error
	if errors.As(err, &unified) {
		return unified
	}

	switch {
	case isSecurity(err):
		return FromSecurity(err)
	case isTimestamp(err):
		return FromTimestamp(err)
	case isDecode(err):
		return FromDecode(err)
	case isTransport(err):
		return FromTransport(err)
	default:
		return FromIO(err)
	}
}

func isSecurity(err error) bool {
	var (
		verifyErr    *tls.CertificateVerificationError
		recordErr    tls.RecordHeaderError
		alertErr     tls.AlertError
		authorityErr x509.UnknownAuthorityError
		hostErr      x509.HostnameError
		invalidErr   x509.CertificateInvalidError
		rootsErr     x509.SystemRootsError
	)
	return errors.As(err, &verifyErr) ||
		errors.As(err, &recordErr) ||
		errors.As(err, &alertErr) ||
		errors.As(err, &authorityErr) ||
		errors.As(err, &hostErr) ||
		errors.As(err, &invalidErr) ||
		errors.As(err, &rootsErr)
}

func isTimestamp(err error) bool {
	var parseErr *time.ParseError
	return errors.As(err, &parseErr)
}

func isDecode(err error) bool {
	var (
		syntaxErr  *json.SyntaxError
		typeErr    *json.UnmarshalTypeError
		invalidErr *json.InvalidUnmarshalError
	)
	return errors.As(err, &syntaxErr) ||
		errors.As(err, &typeErr) ||
		errors.As(err, &invalidErr)
}

func isTransport(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var (
		netErr net.Error
		urlErr *url.Error
	)
	return errors.As(err, &netErr) || errors.As(err, &urlErr)
}
