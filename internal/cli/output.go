package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/alnah/go-twapi/internal/apierr"
	"github.com/alnah/go-twapi/internal/format"
)

// Describe renders an error as a single line for the terminal. Unified
// errors are prefixed with their kind; a rate limit also shows how long
// until the reset relative to now.
func Describe(err error, now time.Time) string {
	var rl *apierr.RateLimitError
	if errors.As(err, &rl) {
		return fmt.Sprintf("[%s] %v, resets in %s", rl.Kind(), err, format.ResetIn(rl.Reset, now))
	}
	if kind, ok := apierr.KindOf(err); ok {
		return fmt.Sprintf("[%s] %v", kind, err)
	}
	return err.Error()
}

// writeBody writes a JSON body to w, indented when pretty is set.
// Bodies that are not valid JSON are written unchanged.
func writeBody(w io.Writer, body []byte, pretty bool) error {
	out := body
	if pretty {
		var buf bytes.Buffer
		if err := json.Indent(&buf, body, "", "  "); err == nil {
			out = buf.Bytes()
		}
	}
	if _, err := w.Write(out); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// writeReport writes aligned "label: value" lines.
func writeReport(w io.Writer, rows [][2]string) {
	width := 0
	for _, r := range rows {
		width = max(width, len(r[0]))
	}
	for _, r := range rows {
		_, _ = fmt.Fprintf(w, "%-*s  %s\n", width+1, r[0]+":", r[1])
	}
}
