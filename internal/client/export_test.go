package client

import "github.com/alnah/go-twapi/internal/apierr"

// Exports for testing. These allow black-box tests to reach internal logic
// without modifying the public API.

var (
	// Retry policy
	IsRetryable = isRetryable

	// Media status parsing
	ParseMediaStatus = parseMediaStatusJSON
)

// parseMediaStatusJSON runs the media status parser over a raw response body.
func parseMediaStatusJSON(body []byte) (MediaStatus, error) {
	var resp mediaStatusResponse
	if err := decode(apierr.Response{StatusCode: 200, Body: body}, "media status", &resp); err != nil {
		return MediaStatus{}, err
	}
	return parseMediaStatus(resp)
}
