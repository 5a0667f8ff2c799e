package middleware

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"job-tracker-backend/internal/delivery/http/response"
	"job-tracker-backend/pkg/apperror"
	"job-tracker-backend/pkg/logger"
	"job-tracker-backend/pkg/security"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// maxLocalLimiters bounds the in-memory fallback; the map is reset past it.
const maxLocalLimiters = 10000

// Lua script for atomic increment with TTL on first set
// KEYS[1] = counter key
// ARGV[1] = TTL in seconds
// Returns: [current_count, ttl_remaining]
const rateLimitLuaScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('TTL', KEYS[1])
return {count, ttl}
`

// RateLimiter limits requests per client IP. Counters live in Redis when a
// client is given; otherwise, or when Redis fails, per-IP token buckets are used.
type RateLimiter struct {
	limit     int
	window    time.Duration
	keyPrefix string
	redis     *goredis.Client

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewRateLimiter allows perMinute requests per client. redisClient may be nil.
func NewRateLimiter(perMinute int, redisClient *goredis.Client) *RateLimiter {
	return &RateLimiter{
		limit:     perMinute,
		window:    time.Minute,
		keyPrefix: "rl:ip:",
		redis:     redisClient,
		limiters:  make(map[string]*rate.Limiter),
	}
}

// WithKeyPrefix separates this limiter's Redis counters from other limiters.
func (rl *RateLimiter) WithKeyPrefix(prefix string) *RateLimiter {
	rl.keyPrefix = prefix
	return rl
}

// Handler returns the middleware. A non-positive limit disables it.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	if rl.limit <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		key := c.ClientIP()

		allowed, retryAfter := rl.allow(c.Request.Context(), key)
		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.limit))

		if !allowed {
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			security.DefaultLogger().LogRateLimitTriggered(
				c.Request.Context(),
				key,
				c.GetHeader("User-Agent"),
				response.RequestID(c),
				c.FullPath(),
			)
			c.Error(apperror.TooManyRequests("Rate limit exceeded. Please try again later."))
			c.Abort()
			return
		}

		c.Next()
	}
}

// allow reports whether the request fits and, if not, the seconds to wait.
func (rl *RateLimiter) allow(ctx context.Context, key string) (bool, int) {
	if rl.redis != nil {
		count, ttl, err := rl.checkRedis(ctx, rl.keyPrefix+key)
		if err == nil {
			return count <= rl.limit, max(ttl, 1)
		}
		// fail open to the local limiter
		logger.Log.Warn("Rate limit redis check failed", "error", err)
	}

	limiter := rl.localLimiter(key)
	if limiter.Allow() {
		return true, 0
	}
	wait := time.Duration(float64(time.Second) / float64(limiter.Limit()))
	return false, max(int(wait.Seconds()), 1)
}

func (rl *RateLimiter) checkRedis(ctx context.Context, key string) (int, int, error) {
	result, err := rl.redis.Eval(ctx, rateLimitLuaScript, []string{key}, int(rl.window.Seconds())).Result()
	if err != nil {
		return 0, 0, fmt.Errorf("redis rate limit eval failed: %w", err)
	}

	arr, ok := result.([]any)
	if !ok || len(arr) < 2 {
		return 0, 0, fmt.Errorf("unexpected redis result format")
	}
	count, _ := arr[0].(int64)
	ttl, _ := arr[1].(int64)
	return int(count), int(ttl), nil
}

func (rl *RateLimiter) localLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limiter, ok := rl.limiters[key]
	if !ok {
		if len(rl.limiters) >= maxLocalLimiters {
			rl.limiters = make(map[string]*rate.Limiter)
		}
		limiter = rate.NewLimiter(rate.Every(rl.window/time.Duration(rl.limit)), rl.limit)
		rl.limiters[key] = limiter
	}
	return limiter
}
