package utils

import (
	"time"

	"github.com/araddon/dateparse"
)

const (
	DateLayout = "2006-01-02"
	// APITimeLayout is the naive UTC layout the compute API accepts.
	APITimeLayout = "2006-01-02T15:04:05"
)

func TimeParser(datestr string) (time.Time, error) {
	t, err := dateparse.ParseIn(datestr, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// ParseDate parses any common date or datetime layout and drops the clock
// part, so "2021-03-04T10:00:00Z" and "03/04/2021" both become 2021-03-04.
func ParseDate(datestr string) (time.Time, error) {
	t, err := TimeParser(datestr)
	if err != nil {
		return time.Time{}, err
	}
	return Date(t), nil
}

// Date returns midnight UTC of t's calendar day.
func Date(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatAPITime renders t as naive UTC.
func FormatAPITime(t time.Time) string {
	return t.UTC().Format(APITimeLayout)
}
