package apierr

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
)

// HeaderRateLimitReset carries the Unix timestamp at which the current
// rate-limit window ends. The service sends it outside the JSON body.
const HeaderRateLimitReset = "X-Rate-Limit-Reset"

// CodeRateLimitExceeded is the remote error code for an exhausted
// rate-limit window.
const CodeRateLimitExceeded = 88

// maxExcerpt bounds the raw body kept in an InvalidResponseError.
const maxExcerpt = 256

// Response is the raw outcome of one request attempt, as seen by Classify.
type Response struct {
	StatusCode int
	// Body is the response body; nil when there was none.
	Body []byte
	// RateLimitReset is the raw value of HeaderRateLimitReset; empty when
	// the header was absent.
	RateLimitReset string
}

// ResponseFrom builds a Response from an HTTP status, header set and body.
func ResponseFrom(status int, header http.Header, body []byte) Response {
	return Response{
		StatusCode:     status,
		Body:           body,
		RateLimitReset: strings.TrimSpace(header.Get(HeaderRateLimitReset)),
	}
}

// reset parses the rate-limit header. A malformed value counts as absent.
func (r Response) reset() (int64, bool) {
	if r.RateLimitReset == "" {
		return 0, false
	}
	ts, err := strconv.ParseInt(r.RateLimitReset, 10, 64)
	if err != nil || ts < 0 {
		return 0, false
	}
	return ts, true
}

// IsRateLimitCode reports whether a remote error code signals rate limiting.
func IsRateLimitCode(code int) bool {
	return code == CodeRateLimitExceeded
}

// Classify turns a failed or unexpected response into a unified error.
// context labels the calling operation and is used only for
// InvalidResponseError. First match wins:
//
//  1. a non-empty remote error collection containing a rate-limit code, with
//     a reset header present: RateLimitError
//  2. a non-empty remote error collection: RemoteError
//  3. a status outside 200-299: BadStatusError
//  4. otherwise: InvalidResponseError with an excerpt of the body
//
// Classify never panics; an empty or malformed collection falls through.
func Classify(resp Response, context string) Error {
	if errs, ok := DecodeRemoteErrors(resp.Body); ok {
		if reset, ok := resp.reset(); ok && hasRateLimitCode(errs) {
			return RateLimited(reset)
		}
		return &RemoteError{StatusCode: resp.StatusCode, Errors: errs}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return BadStatus(resp.StatusCode)
	}

	return InvalidResponse(context, string(resp.Body))
}

// wireErrors mirrors the collection shape with pointer fields so that absent
// and null values can be told apart from zero values.
type wireErrors struct {
	Errors []*struct {
		Message *string `json:"message"`
		Code    *int    `json:"code"`
	} `json:"errors"`
}

// DecodeRemoteErrors decodes body as a remote error collection. ok is false
// when the body is absent, is not JSON, does not have the collection shape,
// or holds no records. Every record must carry an integer code and a string
// message; a null or partial record disqualifies the whole body.
func DecodeRemoteErrors(body []byte) (errs RemoteErrors, ok bool) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '{' {
		return RemoteErrors{}, false
	}
	var wire wireErrors
	if err := json.Unmarshal(body, &wire); err != nil {
		return RemoteErrors{}, false
	}
	if len(wire.Errors) == 0 {
		return RemoteErrors{}, false
	}

	errs.Errors = make([]RemoteErrorCode, 0, len(wire.Errors))
	for _, rec := range wire.Errors {
		if rec == nil || rec.Code == nil || rec.Message == nil {
			return RemoteErrors{}, false
		}
		errs.Errors = append(errs.Errors, RemoteErrorCode{Message: *rec.Message, Code: *rec.Code})
	}
	return errs, true
}

// HasRemoteErrors reports whether body carries a non-empty remote error
// collection. Some endpoints report errors with a 200 status.
func HasRemoteErrors(body []byte) bool {
	_, ok := DecodeRemoteErrors(body)
	return ok
}

func hasRateLimitCode(errs RemoteErrors) bool {
	for _, rec := range errs.Errors {
		if IsRateLimitCode(rec.Code) {
			return true
		}
	}
	return false
}

// excerpt trims s to at most maxExcerpt bytes of valid UTF-8.
func excerpt(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= maxExcerpt {
		return s
	}
	return strings.ToValidUTF8(s[:maxExcerpt], "") + "..."
}
