package util

import (
	"fmt"
	"time"
)

// resolveLayouts are the date/time forms the CLI and the agenda scanner
// hand to ResolveDate. They are already-isolated substrings, never free
// natural language.
var resolveLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ResolveDate parses an isolated date or date+time string into a local
// timestamp. Date-only input resolves to midnight, the all-day form.
func ResolveDate(s string) (time.Time, error) {
	for _, layout := range resolveLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("could not parse date string: %q", s)
}

// ParseClock parses an "HH:MM" time-of-day string. ok is false when the
// string is empty or not a valid clock time.
func ParseClock(s string) (hour, min int, ok bool) {
	if s == "" {
		return 0, 0, false
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, false
	}
	return t.Hour(), t.Minute(), true
}

// DateOf truncates a timestamp to its calendar date (local midnight).
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// CombineDateTime builds a timestamp from a calendar date and a clock
// time. hour=0, min=0 yields the all-day form.
func CombineDateTime(date time.Time, hour, min int) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), hour, min, 0, 0, date.Location())
}

// IsAllDay reports whether a due timestamp is the all-day sentinel, i.e.
// sits at exactly midnight. A midnight due means "due that day", never an
// event scheduled at 00:00.
func IsAllDay(t time.Time) bool {
	return t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0
}
