package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// client holds one token bucket plus the last time it was used, so idle
// buckets can be evicted.
type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter enforces per-client-IP token-bucket limits. Buckets are created
// on demand in an internal map guarded by a mutex, and idle entries are
// evicted opportunistically during lookups to bound memory.
//
// The limiter is process-local; with multiple replicas each process enforces
// its own budget. Safe for concurrent use.
type RateLimiter struct {
	rps   rate.Limit
	burst int

	mu      sync.Mutex
	clients map[string]*client
	ttl     time.Duration
	lookups uint64
}

// NewRateLimiter builds a limiter replenishing rps tokens per second with the
// given burst size. Burst values <= 0 are coerced to 1.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		rps:     rate.Limit(rps),
		burst:   burst,
		clients: make(map[string]*client),
		ttl:     10 * time.Minute,
	}
}

// bucket returns the limiter for key, creating it if absent. Every ~5000
// lookups idle entries are swept first, so a stale bucket for the requested
// key is evicted rather than refreshed.
func (rl *RateLimiter) bucket(key string) *rate.Limiter {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.lookups++
	if rl.lookups >= 5000 {
		for k, cl := range rl.clients {
			if now.Sub(cl.lastSeen) >= rl.ttl {
				delete(rl.clients, k)
			}
		}
		rl.lookups = 0
	}

	if cl, ok := rl.clients[key]; ok {
		cl.lastSeen = now
		return cl.limiter
	}

	lim := rate.NewLimiter(rl.rps, rl.burst)
	rl.clients[key] = &client{limiter: lim, lastSeen: now}
	return lim
}

// Handler returns the Gin middleware. Requests over budget receive a 429 with
// the standard error envelope and a minimal Retry-After header.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.bucket("ip:" + c.ClientIP()).Allow() {
			c.Next()
			return
		}

		c.Header("Retry-After", "1")
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"request_id": c.Writer.Header().Get(requestIDHeader),
			"code":       "rate_limited",
			"message":    "rate limit exceeded",
		})
	}
}
