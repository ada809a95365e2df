package apierr

import "time"

// TimestampLayout is the layout of timestamps such as "created_at".
const TimestampLayout = time.RubyDate

// ParseTimestamp parses a service timestamp and returns it in UTC.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(TimestampLayout, s)
	if err != nil {
		return time.Time{}, FromTimestamp(err)
	}
	return t.UTC(), nil
}
