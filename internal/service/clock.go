package service

import (
	"strconv"
	"strings"
	"time"
)

// Clock gives services the current time and "today" in the clinic's timezone.
type Clock struct {
	Loc *time.Location
	Now func() time.Time
}

// SystemClock is the wall clock in loc.
func SystemClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return Clock{Loc: loc, Now: time.Now}
}

// Today is the current local date as a UTC midnight, the form dates are stored in.
func (c Clock) Today() time.Time {
	return dateOnly(c.Now().In(c.Loc))
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

const dateLayout = "2006-01-02"

// parseDate accepts YYYY-MM-DD, optionally followed by a time part.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if len(s) > len(dateLayout) {
		s = s[:len(dateLayout)]
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func itoa(i int) string { return strconv.Itoa(i) }
