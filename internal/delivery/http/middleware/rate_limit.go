package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"leadgen-backend/pkg/logger"
	"leadgen-backend/pkg/metrics"
	"leadgen-backend/pkg/security"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// RateLimitMessage is the body text returned with 429 responses.
const RateLimitMessage = "Too many requests, please try again later"

// RateLimitConfig holds configuration for rate limiting
type RateLimitConfig struct {
	// Requests per window
	Limit int
	// Rolling window duration
	Window time.Duration
	// Endpoint group; every route sharing a group shares the budget
	KeyPrefix string
	// Custom key extractor (default: IP-based)
	KeyFunc func(*gin.Context) string
}

// IntakeRateLimitConfig returns the shared config for the three form endpoints
func IntakeRateLimitConfig(limit int, window time.Duration) RateLimitConfig {
	return RateLimitConfig{
		Limit:     limit,
		Window:    window,
		KeyPrefix: "rl:intake:",
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
	}
}

// Decision is the outcome of one limiter check
type Decision struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// Limiter counts requests per key over a sliding window. Allow must record the
// request and decide atomically with respect to concurrent callers.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (Decision, error)
}

// MemoryLimiter is a process-local sliding-window log.
type MemoryLimiter struct {
	mu        sync.Mutex
	hits      map[string][]time.Time
	now       func() time.Time
	lastSweep time.Time
}

func NewMemoryLimiter() *MemoryLimiter {
	return NewMemoryLimiterWithClock(time.Now)
}

// NewMemoryLimiterWithClock lets tests control time.
func NewMemoryLimiterWithClock(now func() time.Time) *MemoryLimiter {
	return &MemoryLimiter{
		hits: make(map[string][]time.Time),
		now:  now,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string, limit int, window time.Duration) (Decision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= window {
		// Drop idle keys so the map stays bounded by active clients
		for k := range l.hits {
			l.prune(k, now, window)
		}
		l.lastSweep = now
	}

	l.prune(key, now, window)
	hits := l.hits[key]
	if len(hits) >= limit {
		return Decision{Allowed: false, Remaining: 0, ResetAt: hits[0].Add(window)}, nil
	}

	hits = append(hits, now)
	l.hits[key] = hits
	return Decision{Allowed: true, Remaining: limit - len(hits), ResetAt: hits[0].Add(window)}, nil
}

// prune removes timestamps that left the window. Caller holds l.mu.
func (l *MemoryLimiter) prune(key string, now time.Time, window time.Duration) {
	cutoff := now.Add(-window)
	hits := l.hits[key]
	i := 0
	for i < len(hits) && !hits[i].After(cutoff) {
		i++
	}
	if i == len(hits) {
		delete(l.hits, key)
		return
	}
	l.hits[key] = hits[i:]
}

// Lua script for sliding window rate limiting
// KEYS[1] = rate limit key
// ARGV[1] = max count allowed
// ARGV[2] = window size in milliseconds
// ARGV[3] = current timestamp in milliseconds
// ARGV[4] = unique member for this request
// Returns: {allowed (1/0), count after this call, oldest timestamp in window}
const slidingWindowScript = `
local key = KEYS[1]
local limit = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local now = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, 0, now - window)

local count = redis.call('ZCARD', key)
local oldest = now
local first = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
if first[2] then
    oldest = tonumber(first[2])
end

if count >= limit then
    return {0, count, oldest}
end

redis.call('ZADD', key, now, ARGV[4])
redis.call('PEXPIRE', key, window)
return {1, count + 1, oldest}
`

var slidingWindow = goredis.NewScript(slidingWindowScript)

// RedisLimiter shares the sliding window across processes.
type RedisLimiter struct {
	client *goredis.Client
	now    func() time.Time
}

func NewRedisLimiter(client *goredis.Client) *RedisLimiter {
	return &RedisLimiter{client: client, now: time.Now}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (Decision, error) {
	now := l.now()
	res, err := slidingWindow.Run(ctx, l.client, []string{key},
		limit, window.Milliseconds(), now.UnixMilli(), uuid.NewString(),
	).Int64Slice()
	if err != nil {
		return Decision{}, fmt.Errorf("redis rate limit eval failed: %w", err)
	}
	if len(res) < 3 {
		return Decision{}, fmt.Errorf("unexpected redis result format")
	}

	count := int(res[1])
	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Allowed:   res[0] == 1,
		Remaining: remaining,
		ResetAt:   time.UnixMilli(res[2]).Add(window),
	}, nil
}

// FallbackLimiter consults primary and switches to secondary when primary errors.
type FallbackLimiter struct {
	primary   Limiter
	secondary Limiter
	secLog    *security.SecurityLogger
}

func NewFallbackLimiter(primary, secondary Limiter, secLog *security.SecurityLogger) *FallbackLimiter {
	return &FallbackLimiter{primary: primary, secondary: secondary, secLog: secLog}
}

func (l *FallbackLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (Decision, error) {
	d, err := l.primary.Allow(ctx, key, limit, window)
	if err == nil {
		return d, nil
	}
	l.secLog.Log(ctx, security.SecurityEvent{
		Event:       security.EventRateLimitDegraded,
		SubjectType: "system",
		Details:     map[string]interface{}{"error": err.Error()},
	})
	return l.secondary.Allow(ctx, key, limit, window)
}

// RateLimitMiddleware creates a rate limiting middleware with the given config.
// Limiter errors fail open.
func RateLimitMiddleware(limiter Limiter, config RateLimitConfig, secLog *security.SecurityLogger) gin.HandlerFunc {
	if config.KeyFunc == nil {
		config.KeyFunc = func(c *gin.Context) string { return c.ClientIP() }
	}

	return func(c *gin.Context) {
		key := config.KeyPrefix + config.KeyFunc(c)

		decision, err := limiter.Allow(c.Request.Context(), key, config.Limit, config.Window)
		if err != nil {
			logger.Log.Error("rate limiter unavailable", "error", err, "path", c.FullPath())
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(config.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		c.Header("X-RateLimit-Reset", decision.ResetAt.UTC().Format(time.RFC3339))

		if !decision.Allowed {
			retryAfter := int(time.Until(decision.ResetAt).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))

			metrics.RateLimitedTotal.Inc()
			secLog.LogRateLimitTriggered(
				c.Request.Context(),
				c.ClientIP(),
				c.GetHeader("User-Agent"),
				c.GetString(RequestIDKey),
				c.FullPath(),
			)

			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": RateLimitMessage})
			return
		}

		c.Next()
	}
}
