package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/brudallism/macromuse-backend/internal/domain"
	"github.com/brudallism/macromuse-backend/internal/pkg/logger"
)

// TargetCache holds resolved target vectors per (user, date) with a TTL.
// Invalidation is coarse: any goal layer change drops every entry for that
// user. Goal writes are rare relative to reads, so the linear prefix scan is a
// deliberate trade.
type TargetCache interface {
	Get(ctx context.Context, userID uuid.UUID, date time.Time) (*domain.TargetVector, bool)
	Set(ctx context.Context, userID uuid.UUID, date time.Time, targets *domain.TargetVector)
	InvalidateUser(ctx context.Context, userID uuid.UUID)
}

func targetCacheKey(userID uuid.UUID, date time.Time) string {
	return fmt.Sprintf("target:%s:%s", userID, domain.FormatDate(date))
}

func targetCacheUserPrefix(userID uuid.UUID) string {
	return fmt.Sprintf("target:%s:", userID)
}

type memoryCacheEntry struct {
	targets   *domain.TargetVector
	expiresAt time.Time
}

type memoryTargetCache struct {
	mu      sync.RWMutex
	entries map[string]memoryCacheEntry
	ttl     time.Duration
}

// NewMemoryTargetCache is the default single-process cache: a mutex-guarded
// map, expired entries dropped lazily on read.
func NewMemoryTargetCache(ttl time.Duration) TargetCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &memoryTargetCache{
		entries: make(map[string]memoryCacheEntry),
		ttl:     ttl,
	}
}

func (c *memoryTargetCache) Get(_ context.Context, userID uuid.UUID, date time.Time) (*domain.TargetVector, bool) {
	key := targetCacheKey(userID, date)
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}
	return entry.targets, true
}

func (c *memoryTargetCache) Set(_ context.Context, userID uuid.UUID, date time.Time, targets *domain.TargetVector) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[targetCacheKey(userID, date)] = memoryCacheEntry{
		targets:   targets,
		expiresAt: time.Now().Add(c.ttl),
	}
}

func (c *memoryTargetCache) InvalidateUser(_ context.Context, userID uuid.UUID) {
	prefix := targetCacheUserPrefix(userID)
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
}

type redisTargetCache struct {
	rdb *goredis.Client
	ttl time.Duration
	log *logger.Logger
}

// NewRedisTargetCache shares resolved targets across instances. Cache failures
// are logged and treated as misses; resolution never depends on redis health.
func NewRedisTargetCache(rdb *goredis.Client, ttl time.Duration, baseLog *logger.Logger) TargetCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &redisTargetCache{
		rdb: rdb,
		ttl: ttl,
		log: baseLog.With("service", "RedisTargetCache"),
	}
}

func (c *redisTargetCache) Get(ctx context.Context, userID uuid.UUID, date time.Time) (*domain.TargetVector, bool) {
	raw, err := c.rdb.Get(ctx, targetCacheKey(userID, date)).Bytes()
	if err != nil {
		if err != goredis.Nil {
			c.log.Warn("Target cache read failed", "user_id", userID, "error", err)
		}
		return nil, false
	}
	var t domain.TargetVector
	if err := json.Unmarshal(raw, &t); err != nil {
		c.log.Warn("Target cache entry corrupt, dropping", "user_id", userID, "error", err)
		_ = c.rdb.Del(ctx, targetCacheKey(userID, date)).Err()
		return nil, false
	}
	return &t, true
}

func (c *redisTargetCache) Set(ctx context.Context, userID uuid.UUID, date time.Time, targets *domain.TargetVector) {
	raw, err := json.Marshal(targets)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, targetCacheKey(userID, date), raw, c.ttl).Err(); err != nil {
		c.log.Warn("Target cache write failed", "user_id", userID, "error", err)
	}
}

func (c *redisTargetCache) InvalidateUser(ctx context.Context, userID uuid.UUID) {
	pattern := targetCacheUserPrefix(userID) + "*"
	iter := c.rdb.Scan(ctx, 0, pattern, 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.log.Warn("Target cache scan failed during invalidation", "user_id", userID, "error", err)
		return
	}
	if len(keys) > 0 {
		if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
			c.log.Warn("Target cache delete failed during invalidation", "user_id", userID, "error", err)
		}
	}
}
