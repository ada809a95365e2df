package apierr

import (
	"encoding/json"
	"fmt"
	"math"
)

// MediaError describes an asynchronous post-upload processing failure.
type MediaError struct {
	// Code is the numeric error code assigned by the service.
	Code int `json:"code"`
	// Name is the short name of the error.
	Name string `json:"name"`
	// Message is the full text of the error.
	Message string `json:"message"`
}

// mediaErrorFields is the order in which presence is checked.
var mediaErrorFields = []string{"code", "name", "message"}

// ParseMediaError builds a MediaError from a decoded JSON object.
//
// Presence of every field is checked first, in the order code, name,
// message; the first absent one is reported as a MissingValueError. A JSON
// null counts as absent. A present field of the wrong type yields an
// InvalidResponseError naming the field.
func ParseMediaError(obj map[string]any) (MediaError, error) {
	for _, field := range mediaErrorFields {
		if v, ok := obj[field]; !ok || v == nil {
			return MediaError{}, MissingValue(field)
		}
	}

	code, ok := asInt(obj["code"])
	if !ok {
		return MediaError{}, InvalidResponse("media error field \"code\" is not an integer", fmt.Sprint(obj["code"]))
	}
	name, ok := obj["name"].(string)
	if !ok {
		return MediaError{}, InvalidResponse("media error field \"name\" is not a string", fmt.Sprint(obj["name"]))
	}
	message, ok := obj["message"].(string)
	if !ok {
		return MediaError{}, InvalidResponse("media error field \"message\" is not a string", fmt.Sprint(obj["message"]))
	}

	return MediaError{Code: code, Name: name, Message: message}, nil
}

// asInt accepts the numeric representations produced by encoding/json and by
// hand-built maps, rejecting fractional and out-of-range values.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		if n < math.MinInt32 || n > math.MaxInt32 {
			return 0, false
		}
		return n, true
	case int32:
		return int(n), true
	case int64:
		if n < math.MinInt32 || n > math.MaxInt32 {
			return 0, false
		}
		return int(n), true
	case float64:
		if n != math.Trunc(n) || n < math.MinInt32 || n > math.MaxInt32 {
			return 0, false
		}
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return asInt(i)
	default:
		return 0, false
	}
}
