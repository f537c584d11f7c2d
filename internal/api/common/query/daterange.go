package query

import (
	"fmt"
	"time"

	"usage-report-server/internal/api/common/messages"
	"usage-report-server/internal/utils"
)

const invalidDateMessage = "Invalid date format: Using today as default."

// DateForm is the start/end pair submitted with a report request. A form is
// bound when the request carried a start or end key at all.
type DateForm struct {
	RawStart string
	RawEnd   string
	Bound    bool

	start time.Time
	end   time.Time
	valid bool
	// InitialStart/InitialEnd are the defaults offered by an unbound form.
	InitialStart time.Time
	InitialEnd   time.Time
}

func NewBoundForm(start, end string) DateForm {
	form := DateForm{RawStart: start, RawEnd: end, Bound: true}
	if start == "" || end == "" {
		return form
	}
	s, err := utils.ParseDate(start)
	if err != nil {
		return form
	}
	e, err := utils.ParseDate(end)
	if err != nil {
		return form
	}
	form.start, form.end, form.valid = s, e, true
	return form
}

func NewUnboundForm(today time.Time) DateForm {
	start, end := InitialRange(today)
	return DateForm{InitialStart: start, InitialEnd: end}
}

func (f DateForm) IsValid() bool {
	return f.Bound && f.valid
}

// Cleaned returns the parsed dates of a valid bound form.
func (f DateForm) Cleaned() (time.Time, time.Time, bool) {
	if !f.IsValid() {
		return time.Time{}, time.Time{}, false
	}
	return f.start, f.end, true
}

// InitialRange is the range suggested when no dates were submitted: the
// previous month during the first days of a month, else month-to-date.
func InitialRange(today time.Time) (time.Time, time.Time) {
	today = utils.Date(today)
	first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	if today.Day() < 5 {
		end := first.AddDate(0, 0, -1)
		return time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC), end
	}
	return first, today
}

func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, time.UTC)
}

// Resolve turns the form into the effective [start, end] window. An invalid
// bound form falls back to today and leaves a message for the user.
func (f DateForm) Resolve(today time.Time, msgs *messages.Messages) (time.Time, time.Time) {
	start, end := today, today
	switch {
	case f.IsValid():
		start, end = f.start, f.end
	case f.Bound:
		if msgs != nil {
			msgs.Error(invalidDateMessage)
		}
	default:
		start, end = f.InitialStart, f.InitialEnd
		if start.IsZero() || end.IsZero() {
			start, end = InitialRange(today)
		}
	}
	return StartOfDay(start), EndOfDay(end)
}

// CSVLink is the relative link that downloads the same report as CSV.
func (f DateForm) CSVLink(today time.Time) string {
	start, end, ok := f.Cleaned()
	if !ok {
		start, end = today, today
	}
	return fmt.Sprintf("?start=%s&end=%s&format=csv", utils.FormatDate(start), utils.FormatDate(end))
}
