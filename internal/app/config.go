package app

import (
	"time"

	"github.com/brudallism/macromuse-backend/internal/pkg/logger"
	"github.com/brudallism/macromuse-backend/internal/utils"
)

type Config struct {
	ServiceName      string
	Environment      string
	Port             string
	AllowedOrigins   string
	InsightRulesPath string
	TargetCacheTTL   time.Duration
	BackfillWorkers  int
	RedisAddr        string
	RedisPassword    string
}

func LoadConfig(log *logger.Logger) Config {
	cacheTTLSeconds := utils.GetEnvAsInt("TARGET_CACHE_TTL", 300, log)
	return Config{
		ServiceName:      utils.GetEnv("SERVICE_NAME", "macromuse-analytics", log),
		Environment:      utils.GetEnv("ENVIRONMENT", "development", log),
		Port:             utils.GetEnv("PORT", "8080", log),
		AllowedOrigins:   utils.GetEnv("ALLOWED_ORIGINS", "", log),
		InsightRulesPath: utils.GetEnv("INSIGHT_RULES_PATH", "", log),
		TargetCacheTTL:   time.Duration(cacheTTLSeconds) * time.Second,
		BackfillWorkers:  utils.GetEnvAsInt("BACKFILL_WORKERS", 4, log),
		RedisAddr:        utils.GetEnv("REDIS_ADDR", "", log),
		RedisPassword:    utils.GetEnv("REDIS_PASSWORD", "", log),
	}
}
