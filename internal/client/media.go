package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/alnah/go-twapi/internal/apierr"
)

// ErrEmptyMediaID indicates that no media ID was given.
var ErrEmptyMediaID = errors.New("media ID is required")

// MediaState is the post-upload processing state reported by the service.
type MediaState string

// Processing states.
const (
	MediaPending    MediaState = "pending"
	MediaInProgress MediaState = "in_progress"
	MediaSucceeded  MediaState = "succeeded"
	MediaFailed     MediaState = "failed"
)

// Terminal reports whether no further state change will happen.
func (s MediaState) Terminal() bool {
	return s == MediaSucceeded || s == MediaFailed
}

// MediaStatus is the processing status of an uploaded media item.
type MediaStatus struct {
	MediaID string
	State   MediaState
	// CheckAfter is the delay the service suggests before polling again.
	// Zero when the state is terminal or no hint was given.
	CheckAfter time.Duration
	// Progress is the completion percentage, 0-100.
	Progress int
}

type processingInfo struct {
	State           *string        `json:"state"`
	CheckAfterSecs  int            `json:"check_after_secs"`
	ProgressPercent int            `json:"progress_percent"`
	Error           map[string]any `json:"error"`
}

type mediaStatusResponse struct {
	MediaIDString  string          `json:"media_id_string"`
	ProcessingInfo *processingInfo `json:"processing_info"`
}

// Validate implements the client's response validation hook.
func (r *mediaStatusResponse) Validate() error {
	if r.MediaIDString == "" {
		return apierr.MissingValue("media_id_string")
	}
	return nil
}

// MediaStatus fetches the processing status of an uploaded media item.
//
// A failed processing state is returned as a MediaProcessingError alongside
// the status. A failed state without an error object yields a
// MissingValueError for "error", and an unrecognized state an
// InvalidResponseError.
func (c *Client) MediaStatus(ctx context.Context, mediaID string) (MediaStatus, error) {
	if mediaID == "" {
		return MediaStatus{}, ErrEmptyMediaID
	}

	params := url.Values{"command": {"STATUS"}, "media_id": {mediaID}}
	var resp mediaStatusResponse
	if err := c.send(ctx, http.MethodGet, c.upload.JoinPath("media/upload.json"), params, &resp); err != nil {
		return MediaStatus{}, err
	}
	return parseMediaStatus(resp)
}

func parseMediaStatus(resp mediaStatusResponse) (MediaStatus, error) {
	status := MediaStatus{MediaID: resp.MediaIDString}

	// No processing info means the media needed no post-processing.
	info := resp.ProcessingInfo
	if info == nil {
		status.State = MediaSucceeded
		status.Progress = 100
		return status, nil
	}
	if info.State == nil {
		return status, apierr.MissingValue("state")
	}

	status.State = MediaState(*info.State)
	status.Progress = info.ProgressPercent
	if info.CheckAfterSecs > 0 {
		status.CheckAfter = time.Duration(info.CheckAfterSecs) * time.Second
	}

	switch status.State {
	case MediaPending, MediaInProgress, MediaSucceeded:
		return status, nil
	case MediaFailed:
		if info.Error == nil {
			return status, apierr.MissingValue("error")
		}
		mediaErr, err := apierr.ParseMediaError(info.Error)
		if err != nil {
			return status, err
		}
		return status, apierr.MediaProcessingFailed(mediaErr)
	default:
		return status, apierr.InvalidResponse(
			fmt.Sprintf("media %s: unknown processing state", resp.MediaIDString),
			*info.State,
		)
	}
}

// WaitMedia polls the processing status until it reaches a terminal state.
// It waits the delay suggested by the service between polls, or the
// client's poll interval when none is given. onPoll, if non-nil, is called
// with each non-terminal status.
func (c *Client) WaitMedia(ctx context.Context, mediaID string, onPoll func(MediaStatus)) (MediaStatus, error) {
	for {
		status, err := c.MediaStatus(ctx, mediaID)
		if err != nil || status.State.Terminal() {
			return status, err
		}
		if onPoll != nil {
			onPoll(status)
		}

		delay := status.CheckAfter
		if delay <= 0 {
			delay = c.pollInterval
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return status, apierr.FromTransport(ctx.Err())
		case <-timer.C:
		}
	}
}
