package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	limiterCleanupInterval = 5 * time.Minute
	limiterIdleTTL         = time.Hour
)

// rateLimiterStore holds per-key rate limiters with automatic cleanup.
type rateLimiterStore struct {
	limiters sync.Map // map[string]*rateLimiterEntry
	rps      float64
	burst    int
}

// rateLimiterEntry holds a rate limiter and last access time for cleanup.
type rateLimiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
	mu         sync.Mutex
}

// RateLimitMiddleware enforces per-caller rate limiting.
//
// Requests addressing a session (after SessionMiddleware) are limited per session id;
// anything else is limited per client IP. Each key gets an independent token bucket
// from golang.org/x/time/rate. The cleanup goroutine stops when ctx is done.
//
// Returns:
//   - 429 Too Many Requests: Rate limit exceeded (includes Retry-After header)
//   - Continues: Request allowed within rate limit
func RateLimitMiddleware(ctx context.Context, rps float64, burst int, logger *slog.Logger) gin.HandlerFunc {
	store := &rateLimiterStore{
		rps:   rps,
		burst: burst,
	}

	go store.cleanupStale(ctx, limiterCleanupInterval, limiterIdleTTL)

	return func(c *gin.Context) {
		key := rateLimitKey(c)
		limiter := store.getLimiter(key)

		if !limiter.Allow() {
			reservation := limiter.Reserve()
			retryAfter := int(reservation.Delay().Seconds())
			reservation.Cancel()

			logger.Debug("rate limit exceeded",
				slog.String("key", key),
				slog.Int("retry_after", retryAfter))

			c.Header("Retry-After", fmt.Sprintf("%d", retryAfter))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":   "rate_limit_exceeded",
				"message": "Too many requests. Please retry after the specified delay.",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

func rateLimitKey(c *gin.Context) string {
	if session, ok := GetSession(c.Request.Context()); ok && session != nil {
		return "session:" + session.ID.String()
	}
	return "ip:" + c.ClientIP()
}

// getLimiter retrieves or creates a rate limiter for key.
func (s *rateLimiterStore) getLimiter(key string) *rate.Limiter {
	if val, ok := s.limiters.Load(key); ok {
		entry := val.(*rateLimiterEntry)
		entry.mu.Lock()
		entry.lastAccess = time.Now()
		entry.mu.Unlock()
		return entry.limiter
	}

	entry := &rateLimiterEntry{
		limiter:    rate.NewLimiter(rate.Limit(s.rps), s.burst),
		lastAccess: time.Now(),
	}
	actual, _ := s.limiters.LoadOrStore(key, entry)
	return actual.(*rateLimiterEntry).limiter
}

// cleanupStale removes limiters not accessed within ttl.
func (s *rateLimiterStore) cleanupStale(ctx context.Context, interval, ttl time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.evictIdle(time.Now().Add(-ttl))
		}
	}
}

func (s *rateLimiterStore) evictIdle(threshold time.Time) {
	s.limiters.Range(func(key, value any) bool {
		entry := value.(*rateLimiterEntry)
		entry.mu.Lock()
		shouldDelete := entry.lastAccess.Before(threshold)
		entry.mu.Unlock()

		if shouldDelete {
			s.limiters.Delete(key)
		}
		return true
	})
}
