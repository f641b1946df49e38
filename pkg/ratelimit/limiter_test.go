package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testConfig() Config {
	return Config{
		Limits: map[string]int{
			"auth":  5,
			"admin": 60,
		},
		DefaultLimit: 30,
		Whitelist:    []string{"trusted-client"},
	}
}

func TestMemoryLimiter_AdmitsUpToLimit(t *testing.T) {
	limiter := NewMemoryLimiter(testConfig())
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		assert.True(t, limiter.Admit(ctx, "1.2.3.4", "auth"), "request %d should pass", i+1)
	}
	assert.False(t, limiter.Admit(ctx, "1.2.3.4", "auth"), "request over the ceiling must be denied")
}

func TestMemoryLimiter_DefaultClassLimit(t *testing.T) {
	limiter := NewMemoryLimiter(testConfig())
	ctx := context.Background()

	for i := 0; i < 30; i++ {
		assert.True(t, limiter.Admit(ctx, "1.2.3.4", "default"))
	}
	assert.False(t, limiter.Admit(ctx, "1.2.3.4", "default"))
}

func TestMemoryLimiter_ClientsAreIndependent(t *testing.T) {
	limiter := NewMemoryLimiter(testConfig())
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		limiter.Admit(ctx, "1.2.3.4", "auth")
	}
	assert.False(t, limiter.Admit(ctx, "1.2.3.4", "auth"))
	assert.True(t, limiter.Admit(ctx, "5.6.7.8", "auth"), "other clients keep their own bucket")
}

func TestMemoryLimiter_ClassesAreIndependent(t *testing.T) {
	limiter := NewMemoryLimiter(testConfig())
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		limiter.Admit(ctx, "1.2.3.4", "auth")
	}
	assert.False(t, limiter.Admit(ctx, "1.2.3.4", "auth"))
	assert.True(t, limiter.Admit(ctx, "1.2.3.4", "default"))
}

func TestMemoryLimiter_BucketResetsNextMinute(t *testing.T) {
	limiter := NewMemoryLimiter(testConfig())
	ctx := context.Background()

	current := time.Date(2024, 5, 1, 10, 30, 59, 0, time.UTC)
	limiter.now = func() time.Time { return current }

	for i := 0; i < 5; i++ {
		limiter.Admit(ctx, "1.2.3.4", "auth")
	}
	assert.False(t, limiter.Admit(ctx, "1.2.3.4", "auth"))

	current = current.Add(time.Second)
	assert.True(t, limiter.Admit(ctx, "1.2.3.4", "auth"), "next minute starts a fresh bucket")
}

func TestMemoryLimiter_WhitelistBypasses(t *testing.T) {
	limiter := NewMemoryLimiter(testConfig())
	ctx := context.Background()

	for i := 0; i < 100; i++ {
		assert.True(t, limiter.Admit(ctx, "trusted-client", "auth"))
	}
}
