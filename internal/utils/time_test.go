package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	cases := []string{
		"2021-03-04",
		"2021-03-04T10:11:12Z",
		"2021-03-04 23:59:59",
	}
	for _, in := range cases {
		got, err := ParseDate(in)
		require.NoError(t, err, in)
		assert.Equal(t, time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC), got, in)
	}
}

func TestParseDateInvalid(t *testing.T) {
	_, err := ParseDate("not-a-date")
	assert.Error(t, err)
}

func TestFormatAPITime(t *testing.T) {
	loc := time.FixedZone("KST", 9*60*60)
	in := time.Date(2021, 3, 4, 9, 0, 0, 0, loc)
	assert.Equal(t, "2021-03-04T00:00:00", FormatAPITime(in))
	assert.Equal(t, "2021-03-04", FormatDate(in))
}
