package client

import (
	"context"
	"encoding/json"
	"time"

	"github.com/alnah/go-twapi/internal/apierr"
)

// Timestamp is a time decoded from the service's created_at layout.
type Timestamp struct {
	time.Time
}

// UnmarshalJSON parses a quoted created_at value. A malformed value fails
// with a TimestampError.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return apierr.FromDecode(err)
	}
	parsed, err := apierr.ParseTimestamp(s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// MarshalJSON writes the time back in the created_at layout.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(apierr.TimestampLayout))
}

// User is the subset of a user object the CLI displays.
type User struct {
	ID             string    `json:"id_str"`
	ScreenName     string    `json:"screen_name"`
	Name           string    `json:"name"`
	CreatedAt      Timestamp `json:"created_at"`
	FollowersCount int       `json:"followers_count"`
}

// Validate implements the client's response validation hook.
func (u *User) Validate() error {
	switch {
	case u.ID == "":
		return apierr.MissingValue("id_str")
	case u.ScreenName == "":
		return apierr.MissingValue("screen_name")
	case u.CreatedAt.IsZero():
		return apierr.MissingValue("created_at")
	}
	return nil
}

// VerifyCredentials returns the user the token authenticates as.
func (c *Client) VerifyCredentials(ctx context.Context) (User, error) {
	var u User
	if err := c.Get(ctx, "account/verify_credentials.json", nil, &u); err != nil {
		return User{}, err
	}
	return u, nil
}
