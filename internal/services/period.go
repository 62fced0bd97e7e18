package services

import "time"

// WeekKey identifies an ISO-8601 week.
type WeekKey struct {
	Year int
	Week int
}

// MonthKey identifies a calendar month.
type MonthKey struct {
	Year  int
	Month int
}

// ISOWeekStart returns the Monday that opens the given ISO week, using the
// first-Thursday rule: week 1 is the week containing January 4th, so
// year-boundary weeks (52/53 vs 1) resolve correctly.
func ISOWeekStart(isoYear, isoWeek int) time.Time {
	jan4 := time.Date(isoYear, time.January, 4, 0, 0, 0, 0, time.UTC)
	weekday := int(jan4.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday counts as day 7 in ISO numbering
	}
	week1Monday := jan4.AddDate(0, 0, -(weekday - 1))
	return week1Monday.AddDate(0, 0, (isoWeek-1)*7)
}

// WeeksTouched lists every ISO week intersecting [start, end] in order.
func WeeksTouched(start, end time.Time) []WeekKey {
	var out []WeekKey
	seen := map[WeekKey]bool{}
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		y, w := d.ISOWeek()
		key := WeekKey{Year: y, Week: w}
		if !seen[key] {
			seen[key] = true
			out = append(out, key)
		}
	}
	return out
}

// MonthsTouched lists every calendar month intersecting [start, end] in order.
func MonthsTouched(start, end time.Time) []MonthKey {
	var out []MonthKey
	seen := map[MonthKey]bool{}
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		key := MonthKey{Year: d.Year(), Month: int(d.Month())}
		if !seen[key] {
			seen[key] = true
			out = append(out, key)
		}
	}
	return out
}
