package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"board-champions-backend/internal/delivery/http/response"
	"board-champions-backend/internal/domain"
	"board-champions-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

// RateLimitConfig holds configuration for rate limiting
type RateLimitConfig struct {
	// Requests per window
	Limit int
	// Time window duration
	Window time.Duration
	// Key extractor (default: IP-based)
	KeyFunc func(*gin.Context) string
	// Key prefix in Redis
	KeyPrefix string
	// Reject instead of falling back to memory when Redis errors
	FailClosed bool
}

// KEYS[1] = counter key, ARGV[1] = TTL in seconds. Returns {count, ttl}.
var rateLimitScript = goredis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('TTL', KEYS[1])
return {count, ttl}
`)

// ClientIPKey keys by client address.
func ClientIPKey(c *gin.Context) string {
	return c.ClientIP()
}

// ViewerKey keys signed-in callers by user id and everyone else by address.
func ViewerKey(c *gin.Context) string {
	if id := c.GetString(string(domain.KeyUserID)); id != "" {
		return "user:" + id
	}
	return "ip:" + c.ClientIP()
}

type memoryEntry struct {
	count   int
	resetAt time.Time
}

// RateLimiter counts requests in fixed windows, in Redis when a client is
// configured and in process memory otherwise.
type RateLimiter struct {
	cfg   RateLimitConfig
	redis *goredis.Client

	mu        sync.Mutex
	entries   map[string]*memoryEntry
	lastSweep time.Time
	now       func() time.Time
}

func NewRateLimiter(cfg RateLimitConfig, client *goredis.Client) *RateLimiter {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = ClientIPKey
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	return &RateLimiter{
		cfg:     cfg,
		redis:   client,
		entries: make(map[string]*memoryEntry),
		now:     time.Now,
	}
}

// Middleware enforces the limit and sets the X-RateLimit-* headers.
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := l.cfg.KeyPrefix + l.cfg.KeyFunc(c)

		count, resetAt, err := l.hit(c.Request.Context(), key)
		if err != nil {
			logger.Log.Warn("rate limit store unavailable", "error", err, "fail_closed", l.cfg.FailClosed)
			if l.cfg.FailClosed {
				response.Error(c, http.StatusServiceUnavailable, "Service temporarily unavailable. Please try again.", nil)
				c.Abort()
				return
			}
			count, resetAt = l.hitMemory(key)
		}

		remaining := l.cfg.Limit - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(l.cfg.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", resetAt.Format(time.RFC3339))

		if count > l.cfg.Limit {
			retryAfter := int(resetAt.Sub(l.now()).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			logger.Log.Info("rate limit triggered",
				"key", key,
				"path", c.FullPath(),
				"request_id", c.GetString(response.RequestIDKey),
			)
			response.Error(c, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}

func (l *RateLimiter) hit(ctx context.Context, key string) (int, time.Time, error) {
	if l.redis == nil {
		count, resetAt := l.hitMemory(key)
		return count, resetAt, nil
	}

	res, err := rateLimitScript.Run(ctx, l.redis, []string{key}, int(l.cfg.Window.Seconds())).Int64Slice()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("redis rate limit eval failed: %w", err)
	}
	if len(res) < 2 {
		return 0, time.Time{}, fmt.Errorf("unexpected redis result %v", res)
	}
	return int(res[0]), l.now().Add(time.Duration(res[1]) * time.Second), nil
}

func (l *RateLimiter) hitMemory(key string) (int, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) > l.cfg.Window {
		for k, e := range l.entries {
			if now.After(e.resetAt) {
				delete(l.entries, k)
			}
		}
		l.lastSweep = now
	}

	e, ok := l.entries[key]
	if !ok || now.After(e.resetAt) {
		e = &memoryEntry{resetAt: now.Add(l.cfg.Window)}
		l.entries[key] = e
	}
	e.count++
	return e.count, e.resetAt
}
