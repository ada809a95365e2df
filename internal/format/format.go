// Package format renders poll clocks, service-imposed waits and response
// body sizes for terminal output.
package format

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Elapsed renders a poll clock as MM:SS, or HH:MM:SS from one hour on.
// Fractions of a second are dropped.
func Elapsed(d time.Duration) string {
	secs := int64(d / time.Second)
	h, m, s := secs/3600, secs/60%60, secs%60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// Wait renders a wait imposed by the service, such as a media check_after
// hint or the time left in a rate-limit window. It is rounded up to the
// coarsest unit shown so the caller never retries early.
// Examples: "45s", "14m", "1h30m", "2h"
func Wait(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}
	if secs := ceilDiv(d, time.Second); secs < 60 {
		return strconv.FormatInt(secs, 10) + "s"
	}
	mins := ceilDiv(d, time.Minute)
	switch {
	case mins < 60:
		return strconv.FormatInt(mins, 10) + "m"
	case mins%60 == 0:
		return fmt.Sprintf("%dh", mins/60)
	}
	return fmt.Sprintf("%dh%dm", mins/60, mins%60)
}

func ceilDiv(d, unit time.Duration) int64 {
	q := int64(d / unit)
	if d%unit != 0 {
		q++
	}
	return q
}

// ResetIn formats the wait until a rate-limit reset, given as epoch seconds,
// along with the reset instant in UTC.
// Examples: "14m (at 2021-01-01T00:00:00Z)", "now (at 2021-01-01T00:00:00Z)"
func ResetIn(reset int64, now time.Time) string {
	at := time.Unix(reset, 0).UTC()
	wait := at.Sub(now)
	if wait < time.Second {
		return fmt.Sprintf("now (at %s)", at.Format(time.RFC3339))
	}
	return fmt.Sprintf("%s (at %s)", Wait(wait), at.Format(time.RFC3339))
}

// BodySize renders the length of a response body. Sizes under 10 KB or
// 10 MB keep one decimal.
// Examples: "1 byte", "17 bytes", "1.5 KB", "42 KB", "10 MB"
func BodySize(n int) string {
	const (
		kb = 1 << 10
		mb = 1 << 20
	)
	switch {
	case n == 1:
		return "1 byte"
	case n < kb:
		return strconv.Itoa(n) + " bytes"
	case n < mb:
		return scaled(n, kb, "KB")
	default:
		return scaled(n, mb, "MB")
	}
}

func scaled(n, unit int, suffix string) string {
	if v := float64(n) / float64(unit); v < 10 {
		return strconv.FormatFloat(math.Round(v*10)/10, 'f', -1, 64) + " " + suffix
	}
	return strconv.Itoa(n/unit) + " " + suffix
}
