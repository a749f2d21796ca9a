package api

import (
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/flowy/internal/logger"
	"golang.org/x/time/rate"
)

const rateLimiterIdleTTL = 10 * time.Minute

type rateLimiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// requestRateLimiter keeps one token bucket per user or client address.
type requestRateLimiter struct {
	mu        sync.Mutex
	entries   map[string]*rateLimiterEntry
	limit     rate.Limit
	burst     int
	lastPrune time.Time
}

// newRequestRateLimiter returns nil when rps is not positive, which disables
// limiting.
func newRequestRateLimiter(rps float64, burst int) *requestRateLimiter {
	if rps <= 0 {
		return nil
	}
	if burst < 1 {
		burst = int(rps) + 1
	}
	return &requestRateLimiter{
		entries: make(map[string]*rateLimiterEntry),
		limit:   rate.Limit(rps),
		burst:   burst,
	}
}

func (limiter *requestRateLimiter) allow(key string, now time.Time) bool {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	if now.Sub(limiter.lastPrune) > rateLimiterIdleTTL {
		for candidate, entry := range limiter.entries {
			if now.Sub(entry.lastSeen) > rateLimiterIdleTTL {
				delete(limiter.entries, candidate)
			}
		}
		limiter.lastPrune = now
	}

	entry, ok := limiter.entries[key]
	if !ok {
		entry = &rateLimiterEntry{limiter: rate.NewLimiter(limiter.limit, limiter.burst)}
		limiter.entries[key] = entry
	}
	entry.lastSeen = now
	return entry.limiter.AllowN(now, 1)
}

func (limiter *requestRateLimiter) retryAfterSeconds() int {
	seconds := int(1 / float64(limiter.limit))
	if seconds < 1 {
		return 1
	}
	return seconds
}

// RateLimit throttles requests by authenticated user, or by client address
// before authentication.
func (handler *Handler) RateLimit(c *fiber.Ctx) error {
	if handler.requestLimiter == nil {
		return c.Next()
	}

	key := "ip:" + c.IP()
	if user, ok := currentUser(c); ok {
		key = "user:" + user.ID
	}
	if handler.requestLimiter.allow(key, handler.now()) {
		return c.Next()
	}

	logger.Log.WithField("limiter_key", key).WithField("path", c.Path()).Warn("rate limit exceeded")
	c.Set(fiber.HeaderRetryAfter, strconv.Itoa(handler.requestLimiter.retryAfterSeconds()))
	return apiError(c, fiber.StatusTooManyRequests, "too many requests")
}
