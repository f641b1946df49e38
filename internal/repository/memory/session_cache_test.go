package memory

import (
	"testing"
	"time"

	"timecapsule-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func messagesFixture(n int) []*entity.ChatMessage {
	msgs := make([]*entity.ChatMessage, n)
	for i := range msgs {
		msgs[i] = &entity.ChatMessage{Id: uuid.New(), Role: "user", Content: "hello"}
	}
	return msgs
}

func TestSessionCache_SaveAndGet(t *testing.T) {
	cache := NewSessionCache(10, time.Minute)
	sessionId := uuid.New()

	_, found := cache.Get(sessionId)
	assert.False(t, found)

	msgs := messagesFixture(3)
	cache.Save(sessionId, msgs)

	got, found := cache.Get(sessionId)
	assert.True(t, found)
	assert.Len(t, got, 3)
	assert.Equal(t, msgs[0].Id, got[0].Id)
}

func TestSessionCache_Invalidate(t *testing.T) {
	cache := NewSessionCache(10, time.Minute)
	sessionId := uuid.New()

	cache.Save(sessionId, messagesFixture(1))
	cache.Invalidate(sessionId)

	_, found := cache.Get(sessionId)
	assert.False(t, found)
}

func TestSessionCache_TTLExpiry(t *testing.T) {
	cache := NewSessionCache(10, 20*time.Millisecond)
	sessionId := uuid.New()

	cache.Save(sessionId, messagesFixture(1))
	time.Sleep(50 * time.Millisecond)

	_, found := cache.Get(sessionId)
	assert.False(t, found)
}

func TestSessionCache_CapacityEviction(t *testing.T) {
	cache := NewSessionCache(2, time.Minute)
	first := uuid.New()
	second := uuid.New()
	third := uuid.New()

	cache.Save(first, messagesFixture(1))
	cache.Save(second, messagesFixture(1))
	cache.Save(third, messagesFixture(1))

	_, found := cache.Get(first)
	assert.False(t, found, "oldest entry should be evicted at capacity")

	_, found = cache.Get(third)
	assert.True(t, found)
}
