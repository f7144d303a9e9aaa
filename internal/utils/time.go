package utils

import (
	"fmt"
	"strings"
	"time"
)

const (
	LayoutDate     = "2006-01-02"
	layoutClock    = "15:04"
	layoutClockSec = "15:04:05"
)

// ParseDate parses YYYY-MM-DD in local timezone. RFC3339 timestamps are
// accepted too and reduced to their local calendar day.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(LayoutDate, s, time.Local); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return StartOfDay(t), nil
}

// ParseClock parses "HH:MM" or "HH:MM:SS" and returns the offset from
// midnight.
func ParseClock(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	layout := layoutClock
	if strings.Count(s, ":") == 2 {
		layout = layoutClockSec
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second, nil
}

// StartOfDay truncates t to midnight of its local calendar day.
func StartOfDay(t time.Time) time.Time {
	t = t.In(time.Local)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}

// FormatDate formats time to YYYY-MM-DD in local timezone.
func FormatDate(t time.Time) string {
	return t.In(time.Local).Format(LayoutDate)
}
