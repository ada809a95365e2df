package apierr

import (
	"fmt"
	"strings"
)

// RemoteErrorCode is one error reported by the remote service. The code
// space is owned by the service and is not exhaustively known here; unknown
// codes are carried as-is.
type RemoteErrorCode struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// String renders the record as "#<code>: <message>".
func (c RemoteErrorCode) String() string {
	return fmt.Sprintf("#%d: %s", c.Code, c.Message)
}

// RemoteErrors is the collection of errors returned in one response body,
// in wire order. By convention the first record is the primary cause.
type RemoteErrors struct {
	Errors []RemoteErrorCode `json:"errors"`
}

// String renders every record, separated by ",\n", in wire order.
func (e RemoteErrors) String() string {
	var b strings.Builder
	for i, rec := range e.Errors {
		if i > 0 {
			b.WriteString(",\n")
		}
		b.WriteString(rec.String())
	}
	return b.String()
}

// Len returns the number of records.
func (e RemoteErrors) Len() int {
	return len(e.Errors)
}

// Primary returns the first record. ok is false for an empty collection.
func (e RemoteErrors) Primary() (rec RemoteErrorCode, ok bool) {
	if len(e.Errors) == 0 {
		return RemoteErrorCode{}, false
	}
	return e.Errors[0], true
}

// Has reports whether any record carries code.
func (e RemoteErrors) Has(code int) bool {
	for _, rec := range e.Errors {
		if rec.Code == code {
			return true
		}
	}
	return false
}
