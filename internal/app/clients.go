package app

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/brudallism/macromuse-backend/internal/pkg/logger"
)

type Clients struct {
	Redis *goredis.Client
}

// wireClients connects optional external clients. Redis is optional: without
// REDIS_ADDR the target cache stays in-process.
func wireClients(log *logger.Logger, cfg Config) Clients {
	var clients Clients
	if cfg.RedisAddr == "" {
		return clients
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("Redis unreachable, falling back to in-memory target cache", "addr", cfg.RedisAddr, "error", err)
		_ = rdb.Close()
		return clients
	}
	log.Info("Redis connected", "addr", cfg.RedisAddr)
	clients.Redis = rdb
	return clients
}
