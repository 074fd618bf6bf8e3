package slot

import (
	"time"

	"github.com/listenline/session-booking/internal/httperr"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// ParseDate validates a calendar date in YYYY-MM-DD form.
func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, httperr.Validation(
			httperr.CodeInvalidInput,
			"date must be a calendar date in YYYY-MM-DD form",
		)
	}
	return t, nil
}

// ParseClock converts an HH:MM time-of-day into minutes since midnight.
func ParseClock(clock string) (int, error) {
	t, err := time.Parse(ClockLayout, clock)
	if err != nil {
		return 0, httperr.Validation(
			httperr.CodeInvalidInput,
			"time must be HH:MM",
		)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// Window validates a slot's [start,end) pair and returns its duration
// in minutes. Inverted or zero-length windows are rejected.
func Window(startTime, endTime string) (int, error) {
	start, err := ParseClock(startTime)
	if err != nil {
		return 0, err
	}
	end, err := ParseClock(endTime)
	if err != nil {
		return 0, err
	}
	if start >= end {
		return 0, httperr.Validation(
			httperr.CodeInvalidInput,
			"start_time must be before end_time",
		)
	}
	return end - start, nil
}
