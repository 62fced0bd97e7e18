package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/brudallism/macromuse-backend/internal/domain"
	"github.com/brudallism/macromuse-backend/internal/nutrition"
	"github.com/brudallism/macromuse-backend/internal/pkg/ctxutil"
	"github.com/brudallism/macromuse-backend/internal/pkg/dbctx"
	"github.com/brudallism/macromuse-backend/internal/pkg/logger"
	"github.com/brudallism/macromuse-backend/internal/repos"
)

// InsightService evaluates the fixed rule catalog over a window of per-day
// intake tuples and returns deduplicated, severity-then-priority sorted
// findings.
type InsightService interface {
	Evaluate(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*domain.Insight, error)
}

// insightRule is one independent predicate over the window. Rules share no
// mutable state; each returns zero or more findings.
type insightRule struct {
	key      string
	priority int
	eval     func(window []domain.DayIntake, cfg RuleConfig) []*domain.Insight
}

type insightService struct {
	summary repos.SummaryRepo
	targets TargetService
	cfg     RuleConfig
	rules   []insightRule
	log     *logger.Logger
}

func NewInsightService(summary repos.SummaryRepo, targets TargetService, cfg RuleConfig, baseLog *logger.Logger) InsightService {
	return &insightService{
		summary: summary,
		targets: targets,
		cfg:     cfg,
		rules:   ruleCatalog(),
		log:     baseLog.With("service", "InsightService"),
	}
}

func (s *insightService) Evaluate(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*domain.Insight, error) {
	ctx = ctxutil.Default(ctx)
	window, err := s.buildWindow(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	// A single day cannot exhibit a pattern; empty result, not an error.
	if len(window) < 2 {
		return []*domain.Insight{}, nil
	}

	seen := map[string]bool{}
	var out []*domain.Insight
	for _, rule := range s.rules {
		for _, insight := range rule.eval(window, s.cfg) {
			if insight == nil || seen[insight.ID] {
				continue
			}
			seen[insight.ID] = true
			insight.RuleKey = rule.key
			insight.Priority = rule.priority
			out = append(out, insight)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := domain.SeverityRank(out[i].Severity), domain.SeverityRank(out[j].Severity)
		if ri != rj {
			return ri < rj
		}
		return out[i].Priority < out[j].Priority
	})
	if out == nil {
		out = []*domain.Insight{}
	}
	return out, nil
}

// buildWindow joins each day's summary with its resolved targets and adherence
// scores. Days without logged data are absent; a day whose target resolution
// fails degrades to a target-less tuple rather than failing the whole window.
func (s *insightService) buildWindow(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]domain.DayIntake, error) {
	dailies, err := s.summary.GetDailyRange(dbctx.Context{Ctx: ctx}, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("fetch daily summaries: %w", err)
	}

	window := make([]domain.DayIntake, 0, len(dailies))
	for _, d := range dailies {
		if d.EntryCount == 0 {
			continue
		}
		day := domain.DayIntake{
			Date:       d.Date,
			Nutrients:  d.Nutrients,
			EntryCount: d.EntryCount,
		}
		if targets, terr := s.targets.Resolve(ctx, userID, d.Date); terr == nil {
			day.Targets = targets
			day.Adherence = nutrition.AdherenceVector(d.Nutrients, targets)
		}
		window = append(window, day)
	}
	return window, nil
}
