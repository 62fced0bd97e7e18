package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/brudallism/macromuse-backend/internal/domain"
	"github.com/brudallism/macromuse-backend/internal/pkg/ctxutil"
	"github.com/brudallism/macromuse-backend/internal/pkg/dbctx"
	pkgerrors "github.com/brudallism/macromuse-backend/internal/pkg/errors"
	"github.com/brudallism/macromuse-backend/internal/pkg/logger"
	"github.com/brudallism/macromuse-backend/internal/repos"
)

// correlationFloor is the Pearson |r| below which a fitted slope is treated as
// statistical noise and the series classifies stable.
const correlationFloor = 0.3

// StreakPredicate decides whether one point satisfies the streak condition.
// The discriminating condition tag travels with it explicitly; predicates are
// never compared for identity.
type StreakPredicate func(value float64, target *float64) bool

// PredicateFor returns the standard predicate for a streak condition. Points
// without target data never satisfy a target-relative condition.
func PredicateFor(cond domain.StreakCondition) StreakPredicate {
	switch cond {
	case domain.StreakBelowTarget:
		return func(value float64, target *float64) bool {
			return target != nil && *target > 0 && value < *target
		}
	case domain.StreakAboveTarget:
		return func(value float64, target *float64) bool {
			return target != nil && *target > 0 && value > *target
		}
	default: // StreakMetTarget
		return func(value float64, target *float64) bool {
			return target != nil && *target > 0 && value >= *target
		}
	}
}

// TrendService statistically describes single-nutrient time series and
// assembles TrendResults from stored daily summaries.
type TrendService interface {
	ComputeTrends(ctx context.Context, userID uuid.UUID, start, end time.Time, nutrientKeys []string) ([]*domain.TrendResult, error)
	DetectStreaks(ctx context.Context, userID uuid.UUID, start, end time.Time, nutrientKey string, cond domain.StreakCondition) (*domain.StreakRecord, error)
}

type trendService struct {
	summary repos.SummaryRepo
	targets TargetService
	log     *logger.Logger
}

func NewTrendService(summary repos.SummaryRepo, targets TargetService, baseLog *logger.Logger) TrendService {
	return &trendService{
		summary: summary,
		targets: targets,
		log:     baseLog.With("service", "TrendService"),
	}
}

func (s *trendService) ComputeTrends(ctx context.Context, userID uuid.UUID, start, end time.Time, nutrientKeys []string) ([]*domain.TrendResult, error) {
	ctx = ctxutil.Default(ctx)
	series, err := s.buildSeries(ctx, userID, start, end, nutrientKeys)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.TrendResult, 0, len(nutrientKeys))
	for _, key := range nutrientKeys {
		points := series[key]
		if len(points) == 0 {
			continue
		}
		out = append(out, &domain.TrendResult{
			Nutrient:      key,
			Points:        points,
			Direction:     Direction(points),
			PercentChange: PercentChange(points),
			Consistency:   ConsistencyScore(points),
		})
	}
	return out, nil
}

func (s *trendService) DetectStreaks(ctx context.Context, userID uuid.UUID, start, end time.Time, nutrientKey string, cond domain.StreakCondition) (*domain.StreakRecord, error) {
	ctx = ctxutil.Default(ctx)
	series, err := s.buildSeries(ctx, userID, start, end, []string{nutrientKey})
	if err != nil {
		return nil, err
	}
	rec := DetectStreaks(series[nutrientKey], cond, PredicateFor(cond))
	rec.Nutrient = nutrientKey
	return &rec, nil
}

// buildSeries reads the daily summaries in range and joins each day's value
// with its resolved target, one ordered series per requested nutrient. Days
// with no logged data are absent from the series, not zero-filled.
func (s *trendService) buildSeries(ctx context.Context, userID uuid.UUID, start, end time.Time, nutrientKeys []string) (map[string][]domain.TrendPoint, error) {
	dbc := dbctx.Context{Ctx: ctx}
	dailies, err := s.summary.GetDailyRange(dbc, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("fetch daily summaries: %w", err)
	}

	out := make(map[string][]domain.TrendPoint, len(nutrientKeys))
	for _, d := range dailies {
		if d.EntryCount == 0 {
			continue
		}
		var targets *domain.TargetVector
		if s.targets != nil {
			// Target resolution failures degrade the point to value-only;
			// trends must survive malformed goal history.
			if tv, terr := s.targets.Resolve(ctx, userID, d.Date); terr == nil {
				targets = tv
			}
		}
		for _, key := range nutrientKeys {
			value, ok := d.Nutrients.Get(key)
			if !ok {
				continue
			}
			point := domain.TrendPoint{Date: d.Date, Value: value}
			if targets != nil {
				if tv, ok := targets.ValueFor(key); ok && tv > 0 {
					point.Target = &tv
				}
			}
			out[key] = append(out[key], point)
		}
	}
	return out, nil
}

// RollingAverages smooths a series with a sliding window, one output point per
// valid window position. Value and target average independently; a window
// whose average target is 0 emits no target. Series shorter than the window
// are returned unmodified.
func RollingAverages(series []domain.TrendPoint, windowSize int) []domain.TrendPoint {
	if windowSize <= 0 || len(series) < windowSize {
		return series
	}
	out := make([]domain.TrendPoint, 0, len(series)-windowSize+1)
	for i := 0; i+windowSize <= len(series); i++ {
		window := series[i : i+windowSize]
		var valueSum, targetSum float64
		for _, p := range window {
			valueSum += p.Value
			if p.Target != nil {
				targetSum += *p.Target
			}
		}
		point := domain.TrendPoint{
			Date:  window[len(window)-1].Date,
			Value: domain.Round2(valueSum / float64(windowSize)),
		}
		if avgTarget := targetSum / float64(windowSize); avgTarget > 0 {
			rounded := domain.Round2(avgTarget)
			point.Target = &rounded
		}
		out = append(out, point)
	}
	return out
}

// Direction fits a least-squares line (index as x) and classifies by slope
// sign, except that a Pearson correlation weaker than the floor is stable
// regardless of slope. Fewer than 2 points is always stable.
func Direction(series []domain.TrendPoint) string {
	n := len(series)
	if n < 2 {
		return domain.TrendStable
	}

	var sumX, sumY, sumXY, sumXX, sumYY float64
	for i, p := range series {
		x := float64(i)
		sumX += x
		sumY += p.Value
		sumXY += x * p.Value
		sumXX += x * x
		sumYY += p.Value * p.Value
	}
	fn := float64(n)
	slopeDen := fn*sumXX - sumX*sumX
	if slopeDen == 0 {
		return domain.TrendStable
	}
	slope := (fn*sumXY - sumX*sumY) / slopeDen

	corrDen := math.Sqrt(fn*sumXX-sumX*sumX) * math.Sqrt(fn*sumYY-sumY*sumY)
	if corrDen == 0 {
		// Zero variance in values: a perfectly flat line.
		return domain.TrendStable
	}
	correlation := (fn*sumXY - sumX*sumY) / corrDen
	if math.Abs(correlation) < correlationFloor {
		return domain.TrendStable
	}
	if slope > 0 {
		return domain.TrendIncreasing
	}
	return domain.TrendDecreasing
}

// PercentChange is (last-first)/first*100. A zero first point returns 100 when
// the series rose and 0 otherwise, signaling direction without dividing by
// zero.
func PercentChange(series []domain.TrendPoint) float64 {
	if len(series) == 0 {
		return 0
	}
	first := series[0].Value
	last := series[len(series)-1].Value
	if first == 0 {
		if last > 0 {
			return 100
		}
		return 0
	}
	return domain.Round2((last - first) / first * 100)
}

// DetectStreaks scans backward from the most recent point in a single pass,
// tracking both the run touching the series end (the active streak) and the
// longest run anywhere in the series.
func DetectStreaks(series []domain.TrendPoint, cond domain.StreakCondition, pred StreakPredicate) domain.StreakRecord {
	rec := domain.StreakRecord{Condition: cond}
	if len(series) == 0 || pred == nil {
		return rec
	}

	run := 0
	var runEnd int
	var valueSum, targetSum float64
	for i := len(series) - 1; i >= 0; i-- {
		p := series[i]
		if pred(p.Value, p.Target) {
			if run == 0 {
				runEnd = i
			}
			run++
			if run > rec.MaxStreak {
				rec.MaxStreak = run
			}
			if runEnd == len(series)-1 {
				// Still inside the run touching the most recent point.
				rec.CurrentStreak = run
				valueSum += p.Value
				if p.Target != nil {
					targetSum += *p.Target
				}
			}
			continue
		}
		run = 0
	}

	if rec.CurrentStreak > 0 {
		rec.IsActive = true
		start := series[len(series)-rec.CurrentStreak].Date
		end := series[len(series)-1].Date
		rec.StartDate = &start
		rec.EndDate = &end
		rec.AvgValue = domain.Round2(valueSum / float64(rec.CurrentStreak))
		rec.AvgTarget = domain.Round2(targetSum / float64(rec.CurrentStreak))
	}
	return rec
}

// ConsistencyScore converts each point to percent-of-target and reports
// 100 - CV*100 clamped to [0, 100], where CV is the coefficient of variation
// of that percentage series. Day-to-day regularity scores high even when the
// absolute level misses the target.
func ConsistencyScore(series []domain.TrendPoint) float64 {
	var pcts []float64
	for _, p := range series {
		if p.Target != nil && *p.Target > 0 {
			pcts = append(pcts, p.Value / *p.Target*100)
		}
	}
	if len(pcts) == 0 {
		return 0
	}

	var sum float64
	for _, v := range pcts {
		sum += v
	}
	mean := sum / float64(len(pcts))
	if mean == 0 {
		return 0
	}
	var variance float64
	for _, v := range pcts {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(pcts))
	cv := math.Sqrt(variance) / mean

	score := 100 - cv*100
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return domain.Round2(score)
}

// TrendForSeries classifies a raw series, failing loudly on the contract
// violation of an empty input instead of fabricating a direction.
func TrendForSeries(series []domain.TrendPoint) (string, error) {
	if len(series) == 0 {
		return "", pkgerrors.ErrEmptySeries
	}
	return Direction(series), nil
}
