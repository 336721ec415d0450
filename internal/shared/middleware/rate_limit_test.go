package middleware

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// stubCache is an in-memory cache.Cache for rate limiter tests.
type stubCache struct {
	mu       sync.Mutex
	counts   map[string]int64
	ttls     map[string]time.Duration
	incErr   error
	ttlValue time.Duration
}

func newStubCache() *stubCache {
	return &stubCache{
		counts:   make(map[string]int64),
		ttls:     make(map[string]time.Duration),
		ttlValue: 30 * time.Second,
	}
}

func (s *stubCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	return false, nil
}

func (s *stubCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}

func (s *stubCache) Delete(ctx context.Context, keys ...string) error { return nil }
func (s *stubCache) Ping(ctx context.Context) error                   { return nil }

func (s *stubCache) Increment(ctx context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.incErr != nil {
		return 0, s.incErr
	}
	s.counts[key]++
	return s.counts[key], nil
}

func (s *stubCache) Expire(ctx context.Context, key string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ttls[key] = ttl
	return nil
}

func (s *stubCache) TTL(ctx context.Context, key string) (time.Duration, error) {
	return s.ttlValue, nil
}

func TestRateLimiterAllowsWithinWindow(t *testing.T) {
	rl := NewRateLimiter(newStubCache())

	for i := 0; i < 5; i++ {
		result := rl.Check(context.Background(), "1.2.3.4", "login", 5, time.Minute)
		assert.True(t, result.Allowed, "attempt %d should be allowed", i+1)
	}
}

func TestRateLimiterBlocksOverLimit(t *testing.T) {
	rl := NewRateLimiter(newStubCache())

	for i := 0; i < 5; i++ {
		rl.Check(context.Background(), "1.2.3.4", "login", 5, time.Minute)
	}
	result := rl.Check(context.Background(), "1.2.3.4", "login", 5, time.Minute)

	assert.False(t, result.Allowed)
	assert.Equal(t, int64(0), result.Remaining)
	assert.Equal(t, 30*time.Second, result.RetryAfter)
}

func TestRateLimiterRemainingCountsDown(t *testing.T) {
	rl := NewRateLimiter(newStubCache())

	first := rl.Check(context.Background(), "1.2.3.4", "login", 3, time.Minute)
	second := rl.Check(context.Background(), "1.2.3.4", "login", 3, time.Minute)

	assert.Equal(t, int64(2), first.Remaining)
	assert.Equal(t, int64(1), second.Remaining)
}

func TestRateLimiterSeparatesActionsAndClients(t *testing.T) {
	rl := NewRateLimiter(newStubCache())

	rl.Check(context.Background(), "1.2.3.4", "login", 1, time.Minute)

	otherAction := rl.Check(context.Background(), "1.2.3.4", "signup", 1, time.Minute)
	otherClient := rl.Check(context.Background(), "5.6.7.8", "login", 1, time.Minute)

	assert.True(t, otherAction.Allowed)
	assert.True(t, otherClient.Allowed)
}

func TestRateLimiterFailsOpenOnCacheError(t *testing.T) {
	c := newStubCache()
	c.incErr = errors.New("redis down")
	rl := NewRateLimiter(c)

	result := rl.Check(context.Background(), "1.2.3.4", "login", 5, time.Minute)

	assert.True(t, result.Allowed, "a broken cache must not take down the request path")
}

func TestRateLimiterSetsWindowOnFirstHit(t *testing.T) {
	c := newStubCache()
	rl := NewRateLimiter(c)

	rl.Check(context.Background(), "1.2.3.4", "login", 5, time.Minute)
	rl.Check(context.Background(), "1.2.3.4", "login", 5, time.Minute)

	assert.Equal(t, time.Minute, c.ttls["ratelimit:login:1.2.3.4"], "TTL is set once, on the first increment")
}
