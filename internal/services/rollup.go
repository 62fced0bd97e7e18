package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/brudallism/macromuse-backend/internal/domain"
	"github.com/brudallism/macromuse-backend/internal/nutrition"
	"github.com/brudallism/macromuse-backend/internal/pkg/ctxutil"
	"github.com/brudallism/macromuse-backend/internal/pkg/dbctx"
	pkgerrors "github.com/brudallism/macromuse-backend/internal/pkg/errors"
	"github.com/brudallism/macromuse-backend/internal/pkg/logger"
	"github.com/brudallism/macromuse-backend/internal/repos"
)

// BackfillReport counts what a best-effort backfill actually did. Individual
// period failures are recorded here, never propagated to sibling periods.
type BackfillReport struct {
	DaysProcessed   int      `json:"days_processed"`
	DaysFailed      int      `json:"days_failed"`
	WeeksProcessed  int      `json:"weeks_processed"`
	WeeksSkipped    int      `json:"weeks_skipped"`
	WeeksFailed     int      `json:"weeks_failed"`
	MonthsProcessed int      `json:"months_processed"`
	MonthsSkipped   int      `json:"months_skipped"`
	MonthsFailed    int      `json:"months_failed"`
	Errors          []string `json:"errors,omitempty"`
}

// RollupService computes idempotent period summaries from raw intake entries.
type RollupService interface {
	// RunDaily recomputes one calendar day's summary. Always writes: a day
	// whose entries were all removed rolls back up to an empty row.
	RunDaily(ctx context.Context, userID uuid.UUID, date time.Time) (*domain.DailySummary, error)
	// RunWeekly averages the ISO week's daily summaries. The boolean is false
	// when no day in the week had data and nothing was written.
	RunWeekly(ctx context.Context, userID uuid.UUID, isoYear, isoWeek int) (*domain.WeeklySummary, bool, error)
	// RunMonthly averages the calendar month's daily summaries, same skip
	// semantics as RunWeekly.
	RunMonthly(ctx context.Context, userID uuid.UUID, year, month int) (*domain.MonthlySummary, bool, error)
	// Backfill reruns every day, then every touched ISO week, then every
	// touched month in [start, end]. Best effort: failures are isolated and
	// counted, and idempotent upserts make an interrupted backfill safe to
	// resume.
	Backfill(ctx context.Context, userID uuid.UUID, start, end time.Time) (*BackfillReport, error)
}

type rollupService struct {
	intake  repos.IntakeRepo
	summary repos.SummaryRepo
	log     *logger.Logger
	workers int
}

func NewRollupService(intake repos.IntakeRepo, summary repos.SummaryRepo, baseLog *logger.Logger, workers int) RollupService {
	if workers <= 0 {
		workers = 4
	}
	return &rollupService{
		intake:  intake,
		summary: summary,
		log:     baseLog.With("service", "RollupService"),
		workers: workers,
	}
}

func (s *rollupService) RunDaily(ctx context.Context, userID uuid.UUID, date time.Time) (*domain.DailySummary, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("%w: user id required", pkgerrors.ErrInvalidArgument)
	}
	dbc := dbctx.Context{Ctx: ctxutil.Default(ctx)}
	dayStart := domain.DateOnly(date)
	dayEnd := dayStart.AddDate(0, 0, 1)

	entries, err := s.intake.FindByUserAndDateRange(dbc, userID, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("fetch intake entries for %s: %w", domain.FormatDate(dayStart), err)
	}

	total := domain.NutrientVector{}
	for _, e := range entries {
		total = nutrition.Merge(total, e.Nutrients)
	}

	row := &domain.DailySummary{
		ID:         uuid.New(),
		UserID:     userID,
		Date:       dayStart,
		Nutrients:  total,
		EntryCount: len(entries),
		ComputedAt: time.Now().UTC(),
	}
	if err := s.summary.UpsertDaily(dbc, row); err != nil {
		return nil, fmt.Errorf("upsert daily summary for %s: %w", domain.FormatDate(dayStart), err)
	}
	s.log.Debug("Daily rollup complete", "user_id", userID, "date", domain.FormatDate(dayStart), "entries", len(entries))
	return row, nil
}

func (s *rollupService) RunWeekly(ctx context.Context, userID uuid.UUID, isoYear, isoWeek int) (*domain.WeeklySummary, bool, error) {
	if userID == uuid.Nil {
		return nil, false, fmt.Errorf("%w: user id required", pkgerrors.ErrInvalidArgument)
	}
	weekStart := ISOWeekStart(isoYear, isoWeek)
	weekEnd := weekStart.AddDate(0, 0, 6)

	avg, days, entries, err := s.averageDailies(ctx, userID, weekStart, weekEnd)
	if err != nil {
		return nil, false, fmt.Errorf("weekly rollup %d-W%02d: %w", isoYear, isoWeek, err)
	}
	if days == 0 {
		s.log.Debug("Weekly rollup skipped, no contributing days", "user_id", userID, "iso_year", isoYear, "iso_week", isoWeek)
		return nil, false, nil
	}

	row := &domain.WeeklySummary{
		ID:           uuid.New(),
		UserID:       userID,
		ISOYear:      isoYear,
		ISOWeek:      isoWeek,
		AvgNutrients: avg,
		DaysWithData: days,
		EntryCount:   entries,
		ComputedAt:   time.Now().UTC(),
	}
	dbc := dbctx.Context{Ctx: ctxutil.Default(ctx)}
	if err := s.summary.UpsertWeekly(dbc, row); err != nil {
		return nil, false, fmt.Errorf("upsert weekly summary %d-W%02d: %w", isoYear, isoWeek, err)
	}
	return row, true, nil
}

func (s *rollupService) RunMonthly(ctx context.Context, userID uuid.UUID, year, month int) (*domain.MonthlySummary, bool, error) {
	if userID == uuid.Nil {
		return nil, false, fmt.Errorf("%w: user id required", pkgerrors.ErrInvalidArgument)
	}
	if month < 1 || month > 12 {
		return nil, false, fmt.Errorf("%w: month %d out of range", pkgerrors.ErrInvalidArgument, month)
	}
	monthStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)

	avg, days, entries, err := s.averageDailies(ctx, userID, monthStart, monthEnd)
	if err != nil {
		return nil, false, fmt.Errorf("monthly rollup %d-%02d: %w", year, month, err)
	}
	if days == 0 {
		s.log.Debug("Monthly rollup skipped, no contributing days", "user_id", userID, "year", year, "month", month)
		return nil, false, nil
	}

	row := &domain.MonthlySummary{
		ID:           uuid.New(),
		UserID:       userID,
		Year:         year,
		Month:        month,
		AvgNutrients: avg,
		DaysWithData: days,
		EntryCount:   entries,
		ComputedAt:   time.Now().UTC(),
	}
	dbc := dbctx.Context{Ctx: ctxutil.Default(ctx)}
	if err := s.summary.UpsertMonthly(dbc, row); err != nil {
		return nil, false, fmt.Errorf("upsert monthly summary %d-%02d: %w", year, month, err)
	}
	return row, true, nil
}

// averageDailies means the daily summaries in [start, end] over contributing
// days only: a week with 3 logged days averages those 3, it does not divide
// by 7. Empty daily rows (zero entries) do not contribute.
func (s *rollupService) averageDailies(ctx context.Context, userID uuid.UUID, start, end time.Time) (domain.NutrientVector, int, int, error) {
	dbc := dbctx.Context{Ctx: ctxutil.Default(ctx)}
	dailies, err := s.summary.GetDailyRange(dbc, userID, start, end)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("fetch daily summaries: %w", err)
	}

	total := domain.NutrientVector{}
	days := 0
	entries := 0
	for _, d := range dailies {
		if d.EntryCount == 0 {
			continue
		}
		total = nutrition.Merge(total, d.Nutrients)
		days++
		entries += d.EntryCount
	}
	return nutrition.Mean(total, days), days, entries, nil
}

func (s *rollupService) Backfill(ctx context.Context, userID uuid.UUID, start, end time.Time) (*BackfillReport, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("%w: user id required", pkgerrors.ErrInvalidArgument)
	}
	start = domain.DateOnly(start)
	end = domain.DateOnly(end)
	if start.After(end) {
		return nil, fmt.Errorf("%w: start %s after end %s", pkgerrors.ErrInvalidArgument, domain.FormatDate(start), domain.FormatDate(end))
	}
	ctx = ctxutil.Default(ctx)

	report := &BackfillReport{}
	var mu sync.Mutex
	record := func(fn func(*BackfillReport)) {
		mu.Lock()
		defer mu.Unlock()
		fn(report)
	}

	// Distinct period keys upsert disjoint rows, so days can run in parallel
	// under a bounded pool. Errors are swallowed into the report; only context
	// cancellation stops the sweep.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		day := d
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if _, err := s.RunDaily(gctx, userID, day); err != nil {
				s.log.Warn("Backfill daily rollup failed", "user_id", userID, "date", domain.FormatDate(day), "error", err)
				record(func(r *BackfillReport) {
					r.DaysFailed++
					r.Errors = append(r.Errors, fmt.Sprintf("day %s: %v", domain.FormatDate(day), err))
				})
				return nil
			}
			record(func(r *BackfillReport) { r.DaysProcessed++ })
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report, err
	}

	for _, wk := range WeeksTouched(start, end) {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		_, wrote, err := s.RunWeekly(ctx, userID, wk.Year, wk.Week)
		switch {
		case err != nil:
			s.log.Warn("Backfill weekly rollup failed", "user_id", userID, "iso_year", wk.Year, "iso_week", wk.Week, "error", err)
			report.WeeksFailed++
			report.Errors = append(report.Errors, fmt.Sprintf("week %d-W%02d: %v", wk.Year, wk.Week, err))
		case !wrote:
			report.WeeksSkipped++
		default:
			report.WeeksProcessed++
		}
	}

	for _, mo := range MonthsTouched(start, end) {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		_, wrote, err := s.RunMonthly(ctx, userID, mo.Year, mo.Month)
		switch {
		case err != nil:
			s.log.Warn("Backfill monthly rollup failed", "user_id", userID, "year", mo.Year, "month", mo.Month, "error", err)
			report.MonthsFailed++
			report.Errors = append(report.Errors, fmt.Sprintf("month %d-%02d: %v", mo.Year, mo.Month, err))
		case !wrote:
			report.MonthsSkipped++
		default:
			report.MonthsProcessed++
		}
	}

	s.log.Info("Backfill complete",
		"user_id", userID,
		"start", domain.FormatDate(start),
		"end", domain.FormatDate(end),
		"days_processed", report.DaysProcessed,
		"days_failed", report.DaysFailed)
	return report, nil
}
