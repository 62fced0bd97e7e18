package services

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/brudallism/macromuse-backend/internal/domain"
	"github.com/brudallism/macromuse-backend/internal/repos"
	"github.com/brudallism/macromuse-backend/internal/repos/testutil"
)

func newRollupService(t *testing.T) (RollupService, repos.SummaryRepo, *testEnv) {
	t.Helper()
	env := newTestEnv(t)
	intake := repos.NewIntakeRepo(env.tx, env.log)
	summary := repos.NewSummaryRepo(env.tx, env.log)
	return NewRollupService(intake, summary, env.log, 1), summary, env
}

func TestRunDailySumsAndRounds(t *testing.T) {
	svc, _, env := newRollupService(t)
	userID := uuid.New()
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	testutil.SeedIntakeEntry(t, env.ctx, env.tx, userID, day.Add(8*time.Hour), domain.NutrientVector{
		domain.NutrientCalories: 95,
		domain.NutrientProtein:  6.5,
	})
	testutil.SeedIntakeEntry(t, env.ctx, env.tx, userID, day.Add(13*time.Hour), domain.NutrientVector{
		domain.NutrientCalories: 165,
		domain.NutrientProtein:  31,
		domain.NutrientIron:     1.2,
	})

	row, err := svc.RunDaily(env.ctx, userID, day)
	if err != nil {
		t.Fatalf("RunDaily: %v", err)
	}
	if row.EntryCount != 2 {
		t.Errorf("entry count = %d, want 2", row.EntryCount)
	}
	if got := row.Nutrients[domain.NutrientCalories]; got != 260 {
		t.Errorf("calories = %v, want 260", got)
	}
	if got := row.Nutrients[domain.NutrientProtein]; got != 37.5 {
		t.Errorf("protein = %v, want 37.5", got)
	}
	// Sparse: iron appears because one entry carried it, nothing else leaks in.
	if got := row.Nutrients[domain.NutrientIron]; got != 1.2 {
		t.Errorf("iron = %v, want 1.2", got)
	}
	if len(row.Nutrients) != 3 {
		t.Errorf("nutrient keys = %d, want 3", len(row.Nutrients))
	}
}

func TestRunDailyIdempotent(t *testing.T) {
	svc, summary, env := newRollupService(t)
	userID := uuid.New()
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	testutil.SeedIntakeEntry(t, env.ctx, env.tx, userID, day.Add(8*time.Hour), domain.NutrientVector{
		domain.NutrientCalories: 500,
	})

	if _, err := svc.RunDaily(env.ctx, userID, day); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if _, err := svc.RunDaily(env.ctx, userID, day); err != nil {
		t.Fatalf("second run: %v", err)
	}

	var count int64
	if err := env.tx.Model(&domain.DailySummary{}).
		Where("user_id = ?", userID).Count(&count).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if count != 1 {
		t.Errorf("daily rows = %d, want exactly 1 after rerun", count)
	}

	got, err := summary.GetDaily(dbcFor(env), userID, day)
	if err != nil {
		t.Fatalf("GetDaily: %v", err)
	}
	if got == nil || got.Nutrients[domain.NutrientCalories] != 500 {
		t.Errorf("reread summary = %+v", got)
	}
}

func TestRunDailyEmptyDayWritesEmptyRow(t *testing.T) {
	svc, summary, env := newRollupService(t)
	userID := uuid.New()
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	row, err := svc.RunDaily(env.ctx, userID, day)
	if err != nil {
		t.Fatalf("RunDaily: %v", err)
	}
	if row.EntryCount != 0 || len(row.Nutrients) != 0 {
		t.Errorf("empty day row = %+v", row)
	}

	// The write matters: a day whose entries were deleted must overwrite the
	// stale summary.
	got, err := summary.GetDaily(dbcFor(env), userID, day)
	if err != nil {
		t.Fatalf("GetDaily: %v", err)
	}
	if got == nil {
		t.Fatal("empty day must still persist a summary row")
	}
}

func TestRunWeeklyAveragesContributingDaysOnly(t *testing.T) {
	svc, _, env := newRollupService(t)
	userID := uuid.New()
	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC) // 2026-W10

	calories := []float64{1800, 2000, 2200}
	for i, c := range calories {
		testutil.SeedDailySummary(t, env.ctx, env.tx, userID, monday.AddDate(0, 0, i),
			domain.NutrientVector{domain.NutrientCalories: c}, 3)
	}
	// An empty daily row must not drag the average down.
	testutil.SeedDailySummary(t, env.ctx, env.tx, userID, monday.AddDate(0, 0, 3),
		domain.NutrientVector{}, 0)

	row, wrote, err := svc.RunWeekly(env.ctx, userID, 2026, 10)
	if err != nil {
		t.Fatalf("RunWeekly: %v", err)
	}
	if !wrote {
		t.Fatal("expected a write")
	}
	if row.DaysWithData != 3 {
		t.Errorf("days with data = %d, want 3", row.DaysWithData)
	}
	if got := row.AvgNutrients[domain.NutrientCalories]; got != 2000 {
		t.Errorf("avg calories = %v, want 2000 (mean over 3 days, not 7)", got)
	}
	if row.EntryCount != 9 {
		t.Errorf("entry count = %d, want 9", row.EntryCount)
	}
}

func TestRunWeeklySkipsEmptyWeek(t *testing.T) {
	svc, summary, env := newRollupService(t)
	userID := uuid.New()

	row, wrote, err := svc.RunWeekly(env.ctx, userID, 2026, 10)
	if err != nil {
		t.Fatalf("RunWeekly: %v", err)
	}
	if wrote || row != nil {
		t.Errorf("empty week must skip, got wrote=%v row=%+v", wrote, row)
	}
	got, err := summary.GetWeekly(dbcFor(env), userID, 2026, 10)
	if err != nil {
		t.Fatalf("GetWeekly: %v", err)
	}
	if got != nil {
		t.Errorf("no row should exist, got %+v", got)
	}
}

func TestRunMonthly(t *testing.T) {
	svc, _, env := newRollupService(t)
	userID := uuid.New()

	first := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	testutil.SeedDailySummary(t, env.ctx, env.tx, userID, first,
		domain.NutrientVector{domain.NutrientProtein: 80}, 2)
	testutil.SeedDailySummary(t, env.ctx, env.tx, userID, first.AddDate(0, 0, 27), // Feb 28
		domain.NutrientVector{domain.NutrientProtein: 120}, 1)

	row, wrote, err := svc.RunMonthly(env.ctx, userID, 2026, 2)
	if err != nil {
		t.Fatalf("RunMonthly: %v", err)
	}
	if !wrote || row.DaysWithData != 2 {
		t.Fatalf("wrote=%v days=%d", wrote, row.DaysWithData)
	}
	if got := row.AvgNutrients[domain.NutrientProtein]; got != 100 {
		t.Errorf("avg protein = %v, want 100", got)
	}

	if _, _, err := svc.RunMonthly(env.ctx, userID, 2026, 13); err == nil {
		t.Error("month 13 must be rejected")
	}
}

func TestBackfillSweepsDaysWeeksMonths(t *testing.T) {
	svc, summary, env := newRollupService(t)
	userID := uuid.New()

	// Mon 2026-03-02 .. Tue 2026-03-10: 9 days spanning ISO weeks 10 and 11,
	// all inside March.
	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	for _, offset := range []int{0, 1, 7} {
		testutil.SeedIntakeEntry(t, env.ctx, env.tx, userID, start.AddDate(0, 0, offset).Add(12*time.Hour),
			domain.NutrientVector{domain.NutrientCalories: 2000})
	}

	report, err := svc.Backfill(env.ctx, userID, start, end)
	if err != nil {
		t.Fatalf("Backfill: %v", err)
	}
	if report.DaysProcessed != 9 || report.DaysFailed != 0 {
		t.Errorf("days processed/failed = %d/%d, want 9/0", report.DaysProcessed, report.DaysFailed)
	}
	if report.WeeksProcessed != 2 || report.WeeksSkipped != 0 {
		t.Errorf("weeks processed/skipped = %d/%d, want 2/0", report.WeeksProcessed, report.WeeksSkipped)
	}
	if report.MonthsProcessed != 1 {
		t.Errorf("months processed = %d, want 1", report.MonthsProcessed)
	}
	if len(report.Errors) != 0 {
		t.Errorf("unexpected errors: %v", report.Errors)
	}

	weekly, err := summary.GetWeekly(dbcFor(env), userID, 2026, 10)
	if err != nil {
		t.Fatalf("GetWeekly: %v", err)
	}
	if weekly == nil || weekly.DaysWithData != 2 {
		t.Fatalf("week 10 summary = %+v, want 2 contributing days", weekly)
	}
}

func TestBackfillRejectsInvertedRange(t *testing.T) {
	svc, _, env := newRollupService(t)
	start := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	if _, err := svc.Backfill(env.ctx, uuid.New(), start, end); err == nil {
		t.Error("inverted range must be rejected")
	}
}
