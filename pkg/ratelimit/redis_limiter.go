package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter shares minute buckets across instances via INCR on a
// per-minute key. Counting errors fail open: a broken Redis should degrade
// rate limiting, not take the API down.
type RedisLimiter struct {
	client    *redis.Client
	cfg       Config
	whitelist map[string]struct{}
	now       func() time.Time
}

func NewRedisLimiter(client *redis.Client, cfg Config) *RedisLimiter {
	whitelist := make(map[string]struct{}, len(cfg.Whitelist))
	for _, key := range cfg.Whitelist {
		whitelist[key] = struct{}{}
	}
	return &RedisLimiter{
		client:    client,
		cfg:       cfg,
		whitelist: whitelist,
		now:       time.Now,
	}
}

func (l *RedisLimiter) Admit(ctx context.Context, clientKey, routeClass string) bool {
	if _, ok := l.whitelist[clientKey]; ok {
		return true
	}
	limit := l.cfg.limitFor(routeClass)
	if limit <= 0 {
		return false
	}

	minute := l.now().Unix() / 60
	key := fmt.Sprintf("ratelimit:%s:%s:%d", clientKey, routeClass, minute)

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return true
	}
	if count == 1 {
		// Two minutes covers clock skew between instances.
		l.client.Expire(ctx, key, 2*time.Minute)
	}
	return count <= int64(limit)
}
