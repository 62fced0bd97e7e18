package app

import (
	"gorm.io/gorm"

	"github.com/brudallism/macromuse-backend/internal/pkg/logger"
	"github.com/brudallism/macromuse-backend/internal/services"
)

type Services struct {
	Rollup  services.RollupService
	Trend   services.TrendService
	Insight services.InsightService
	Target  services.TargetService
	Goal    services.GoalService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, clients Clients) (Services, error) {
	log.Info("Wiring services...")

	var cache services.TargetCache
	if clients.Redis != nil {
		cache = services.NewRedisTargetCache(clients.Redis, cfg.TargetCacheTTL, log)
	} else {
		cache = services.NewMemoryTargetCache(cfg.TargetCacheTTL)
	}

	ruleCfg, err := services.LoadRuleConfig(cfg.InsightRulesPath)
	if err != nil {
		return Services{}, err
	}

	target := services.NewTargetService(r.GoalLayer, r.UserProfile, cache, log)
	return Services{
		Rollup:  services.NewRollupService(r.Intake, r.Summary, log, cfg.BackfillWorkers),
		Trend:   services.NewTrendService(r.Summary, target, log),
		Insight: services.NewInsightService(r.Summary, target, ruleCfg, log),
		Target:  target,
		Goal:    services.NewGoalService(r.GoalLayer, target, log),
	}, nil
}
