package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// Limiter admits or rejects a request before any pipeline work happens.
type Limiter interface {
	// Admit reports whether clientKey may make another request in the
	// current minute for the given route class.
	Admit(ctx context.Context, clientKey, routeClass string) bool
}

// Config holds per-route-class ceilings and the bypass list.
type Config struct {
	// Limits maps a route class to its per-minute ceiling. Classes not
	// present fall back to DefaultLimit.
	Limits       map[string]int
	DefaultLimit int
	Whitelist    []string
}

func (c Config) limitFor(routeClass string) int {
	if limit, ok := c.Limits[routeClass]; ok {
		return limit
	}
	return c.DefaultLimit
}

type bucket struct {
	minute int64
	count  int
}

// MemoryLimiter counts requests in minute buckets held in a TTL cache, so
// stale client entries age out without a manual sweep. Single-process only;
// use RedisLimiter behind multiple instances.
type MemoryLimiter struct {
	mu        sync.Mutex
	buckets   *cache.Cache
	cfg       Config
	whitelist map[string]struct{}
	now       func() time.Time
}

func NewMemoryLimiter(cfg Config) *MemoryLimiter {
	whitelist := make(map[string]struct{}, len(cfg.Whitelist))
	for _, key := range cfg.Whitelist {
		whitelist[key] = struct{}{}
	}
	return &MemoryLimiter{
		buckets:   cache.New(2*time.Minute, 5*time.Minute),
		cfg:       cfg,
		whitelist: whitelist,
		now:       time.Now,
	}
}

func (l *MemoryLimiter) Admit(_ context.Context, clientKey, routeClass string) bool {
	if _, ok := l.whitelist[clientKey]; ok {
		return true
	}
	limit := l.cfg.limitFor(routeClass)
	if limit <= 0 {
		return false
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	minute := l.now().Unix() / 60
	key := clientKey + ":" + routeClass

	var b *bucket
	if x, found := l.buckets.Get(key); found {
		b = x.(*bucket)
	}
	// A new minute starts a fresh bucket regardless of the old count.
	if b == nil || b.minute != minute {
		b = &bucket{minute: minute}
		l.buckets.Set(key, b, cache.DefaultExpiration)
	}

	if b.count >= limit {
		return false
	}
	b.count++
	return true
}
