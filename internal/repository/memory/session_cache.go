package memory

import (
	"time"

	"timecapsule-be/internal/entity"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// SessionCache holds recent message history snapshots keyed by session id.
// Entries expire after the configured TTL and the least recently used entry
// is evicted once capacity is reached. Snapshots are stored as-is; callers
// must not mutate a slice after handing it to Save.
type SessionCache struct {
	lru *expirable.LRU[uuid.UUID, []*entity.ChatMessage]
}

func NewSessionCache(capacity int, ttl time.Duration) *SessionCache {
	return &SessionCache{
		lru: expirable.NewLRU[uuid.UUID, []*entity.ChatMessage](capacity, nil, ttl),
	}
}

func (c *SessionCache) Save(sessionId uuid.UUID, messages []*entity.ChatMessage) {
	c.lru.Add(sessionId, messages)
}

func (c *SessionCache) Get(sessionId uuid.UUID) ([]*entity.ChatMessage, bool) {
	return c.lru.Get(sessionId)
}

func (c *SessionCache) Invalidate(sessionId uuid.UUID) {
	c.lru.Remove(sessionId)
}

func (c *SessionCache) Purge() {
	c.lru.Purge()
}
