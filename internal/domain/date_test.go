package domain

import (
	"testing"
	"time"
)

func TestDateOnlyNormalizesToUTCMidnight(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	in := time.Date(2026, 3, 2, 23, 45, 12, 0, loc)

	got := DateOnly(in)
	if got.Hour() != 0 || got.Minute() != 0 || got.Location() != time.UTC {
		t.Errorf("DateOnly = %v", got)
	}
	if FormatDate(got) != "2026-03-02" {
		t.Errorf("date component changed: %s", FormatDate(got))
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2026-03-02")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if FormatDate(got) != "2026-03-02" {
		t.Errorf("round trip = %s", FormatDate(got))
	}
	if _, err := ParseDate("03/02/2026"); err == nil {
		t.Error("non-ISO format accepted")
	}
}

func TestIsWeekend(t *testing.T) {
	saturday := time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)
	if !IsWeekend(saturday) || !IsWeekend(saturday.AddDate(0, 0, 1)) {
		t.Error("saturday/sunday must be weekend")
	}
	if IsWeekend(saturday.AddDate(0, 0, 2)) {
		t.Error("monday flagged as weekend")
	}
}
