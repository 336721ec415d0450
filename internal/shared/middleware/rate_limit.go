package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"bizcard-backend/internal/shared/response"
	"bizcard-backend/pkg/cache"
	"bizcard-backend/pkg/logger"
)

// RateLimitResult describes the outcome of one rate-limit check.
type RateLimitResult struct {
	Allowed    bool
	Remaining  int64
	RetryAfter time.Duration
}

// RateLimiter implements fixed-window rate limiting on top of the cache
// layer. The counter key is "ratelimit:<action>:<identifier>"; the first
// increment in a window sets the TTL, so the window expires on its own and
// there is nothing to clean up.
type RateLimiter struct {
	cache cache.Cache
}

func NewRateLimiter(c cache.Cache) *RateLimiter {
	return &RateLimiter{cache: c}
}

// Check counts one attempt for identifier/action and reports whether it is
// still within maxAttempts per window. Cache failures fail open: rate
// limiting is protection, not a dependency the request path may die on.
func (rl *RateLimiter) Check(ctx context.Context, identifier, action string, maxAttempts int64, window time.Duration) RateLimitResult {
	key := fmt.Sprintf("ratelimit:%s:%s", action, identifier)

	count, err := rl.cache.Increment(ctx, key)
	if err != nil {
		logger.Error("Rate limit increment failed, allowing request", err)
		return RateLimitResult{Allowed: true, Remaining: maxAttempts}
	}

	// First hit in this window starts the clock
	if count == 1 {
		if err := rl.cache.Expire(ctx, key, window); err != nil {
			logger.Error("Rate limit expire failed", err)
		}
	}

	if count > maxAttempts {
		retryAfter, err := rl.cache.TTL(ctx, key)
		if err != nil || retryAfter <= 0 {
			retryAfter = window
		}
		return RateLimitResult{Allowed: false, Remaining: 0, RetryAfter: retryAfter}
	}

	return RateLimitResult{Allowed: true, Remaining: maxAttempts - count}
}

// RateLimit builds a gin middleware limiting each client IP to maxAttempts
// per window for the given action (e.g. "login", "card_view").
func RateLimit(rl *RateLimiter, action string, maxAttempts int64, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.GetString("client_ip")
		if ip == "" {
			ip = c.ClientIP()
		}

		result := rl.Check(c.Request.Context(), ip, action, maxAttempts, window)

		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", result.Remaining))

		if !result.Allowed {
			c.Header("Retry-After", fmt.Sprintf("%d", int(result.RetryAfter.Seconds())))
			response.TooManyRequests(c, "too many requests, please try again later")
			c.Abort()
			return
		}

		c.Next()
	}
}
