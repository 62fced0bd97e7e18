package domain

import "time"

// DateFormat is the canonical wire format for calendar dates.
const DateFormat = "2006-01-02"

// DateOnly truncates t to midnight UTC. Summary rows and goal layer windows are
// keyed by these truncated dates.
func DateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a midnight-UTC date.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateFormat, s, time.UTC)
}

// FormatDate renders a date in the canonical wire format.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateFormat)
}

// IsWeekend reports whether the date falls on Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.UTC().Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
