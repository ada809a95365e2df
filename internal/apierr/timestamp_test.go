package apierr_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alnah/go-twapi/internal/apierr"
)

func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	got, err := apierr.ParseTimestamp("Wed Oct 10 20:19:24 +0200 2018")
	require.NoError(t, err)

	assert.True(t, got.Equal(time.Date(2018, time.October, 10, 18, 19, 24, 0, time.UTC)))
	assert.Equal(t, time.UTC, got.Location())
}

func TestParseTimestamp_Invalid(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "2018-10-10T20:19:24Z", "Wed Oct 10 20:19:24 2018"} {
		_, err := apierr.ParseTimestamp(in)
		require.Errorf(t, err, "ParseTimestamp(%q)", in)

		var tsErr *apierr.TimestampError
		require.ErrorAs(t, err, &tsErr)

		var parseErr *time.ParseError
		assert.ErrorAs(t, tsErr.Cause(), &parseErr)
	}
}
