package services

import (
	"testing"
	"time"

	"github.com/brudallism/macromuse-backend/internal/domain"
)

func TestISOWeekStart(t *testing.T) {
	tests := []struct {
		isoYear int
		isoWeek int
		want    string
	}{
		// 2026-01-04 is a Sunday, so week 1 of 2026 opens in December 2025.
		{2026, 1, "2025-12-29"},
		{2026, 10, "2026-03-02"},
		// 2020 is a 53-week ISO year.
		{2020, 53, "2020-12-28"},
		{2021, 1, "2021-01-04"},
	}
	for _, tt := range tests {
		got := ISOWeekStart(tt.isoYear, tt.isoWeek)
		if domain.FormatDate(got) != tt.want {
			t.Errorf("ISOWeekStart(%d, %d) = %s, want %s", tt.isoYear, tt.isoWeek, domain.FormatDate(got), tt.want)
		}
		if got.Weekday() != time.Monday {
			t.Errorf("ISOWeekStart(%d, %d) is a %s, want Monday", tt.isoYear, tt.isoWeek, got.Weekday())
		}
		// Round-trip against the standard library's ISO numbering.
		y, w := got.ISOWeek()
		if y != tt.isoYear || w != tt.isoWeek {
			t.Errorf("ISOWeekStart(%d, %d).ISOWeek() = %d, %d", tt.isoYear, tt.isoWeek, y, w)
		}
	}
}

func TestWeeksTouchedYearBoundary(t *testing.T) {
	start := time.Date(2020, 12, 28, 0, 0, 0, 0, time.UTC)
	end := time.Date(2021, 1, 10, 0, 0, 0, 0, time.UTC)

	got := WeeksTouched(start, end)
	want := []WeekKey{{Year: 2020, Week: 53}, {Year: 2021, Week: 1}, {Year: 2021, Week: 2}}
	if len(got) != len(want) {
		t.Fatalf("got %d weeks %v, want %v", len(got), got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("week %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestWeeksTouchedSingleDay(t *testing.T) {
	d := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)
	got := WeeksTouched(d, d)
	if len(got) != 1 || got[0] != (WeekKey{Year: 2026, Week: 10}) {
		t.Errorf("got %v, want [{2026 10}]", got)
	}
}

func TestMonthsTouched(t *testing.T) {
	start := time.Date(2025, 11, 15, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)

	got := MonthsTouched(start, end)
	want := []MonthKey{{Year: 2025, Month: 11}, {Year: 2025, Month: 12}, {Year: 2026, Month: 1}}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("month %d = %v, want %v", i, got[i], want[i])
		}
	}
}
