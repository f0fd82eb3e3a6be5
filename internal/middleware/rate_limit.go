package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimitConfig defines configuration for rate limiting
type RateLimitConfig struct {
	// Window is the time window for rate limiting
	Window time.Duration
	// Limit is the maximum number of requests allowed in the window
	Limit int
	// Key prefix for Redis keys
	KeyPrefix string
}

// RateLimiter is a fixed window limiter backed by Redis. A limiter without a
// Redis client lets every request through.
type RateLimiter struct {
	redis  *redis.Client
	config RateLimitConfig
	logger *zap.Logger
}

// NewRateLimiter creates a new rate limiter instance
func NewRateLimiter(redisClient *redis.Client, config RateLimitConfig, logger *zap.Logger) *RateLimiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.Window <= 0 {
		config.Window = time.Minute
	}
	if config.KeyPrefix == "" {
		config.KeyPrefix = "fridgechef:rate_limit"
	}
	return &RateLimiter{
		redis:  redisClient,
		config: config,
		logger: logger,
	}
}

// NewAIRateLimiter limits the endpoints that call the AI collaborators.
func NewAIRateLimiter(redisClient *redis.Client, requests int, window time.Duration, logger *zap.Logger) *RateLimiter {
	return NewRateLimiter(redisClient, RateLimitConfig{
		Window:    window,
		Limit:     requests,
		KeyPrefix: "fridgechef:rate_limit:ai",
	}, logger)
}

// clientKey identifies the caller by authenticated username, else by IP.
func clientKey(c *gin.Context) string {
	if name := c.GetString(ContextUsername); name != "" {
		return "user:" + name
	}
	return "ip:" + c.ClientIP()
}

// RateLimitMiddleware returns a Gin middleware that enforces rate limiting
func (rl *RateLimiter) RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.redis == nil || rl.config.Limit <= 0 {
			c.Next()
			return
		}

		allowed, remaining, resetTime, err := rl.IsAllowed(c.Request.Context(), clientKey(c))
		if err != nil {
			// Redis trouble must not take the API down
			rl.logger.Warn("rate limit check failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
			c.Header("X-RateLimit-Error", "rate limit check failed")
			c.Next()
			return
		}

		// Set rate limit headers
		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.config.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			retryAfter := int(time.Until(resetTime).Seconds()) + 1
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       fmt.Sprintf("요청이 너무 많습니다. %d초 후에 다시 시도해주세요.", retryAfter),
				"retry_after": retryAfter,
			})
			return
		}

		c.Next()
	}
}

// IsAllowed checks if a request from the given client is allowed
// Returns: allowed, remaining requests, reset time, error
func (rl *RateLimiter) IsAllowed(ctx context.Context, client string) (bool, int, time.Time, error) {
	now := time.Now()
	windowStart := now.Truncate(rl.config.Window)
	key := fmt.Sprintf("%s:%s:%d", rl.config.KeyPrefix, client, windowStart.Unix())

	// Use Redis pipeline for atomic operations
	pipe := rl.redis.Pipeline()
	incrCmd := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, rl.config.Window)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, time.Time{}, err
	}

	count := int(incrCmd.Val())
	remaining := rl.config.Limit - count
	if remaining < 0 {
		remaining = 0
	}

	resetTime := windowStart.Add(rl.config.Window)
	allowed := count <= rl.config.Limit

	return allowed, remaining, resetTime, nil
}
