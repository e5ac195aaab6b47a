package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimitConfig defines rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int
	Burst             int
	// IdleTTL is how long an idle client's limiter is kept. Zero keeps
	// limiters forever.
	IdleTTL time.Duration
}

// DefaultRateLimitConfig returns production-ready rate limit configuration.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 100,
		Burst:             200,
		IdleTTL:           10 * time.Minute,
	}
}

// RateLimit creates a per-IP rate limiting middleware.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	type client struct {
		limiter  *rate.Limiter
		lastSeen time.Time
	}

	var (
		mu        sync.Mutex
		clients   = make(map[string]*client)
		lastSweep = time.Now()
	)

	return func(c *gin.Context) {
		ip := c.ClientIP()
		now := time.Now()

		mu.Lock()
		if cfg.IdleTTL > 0 && now.Sub(lastSweep) > cfg.IdleTTL {
			for key, cl := range clients {
				if now.Sub(cl.lastSeen) > cfg.IdleTTL {
					delete(clients, key)
				}
			}
			lastSweep = now
		}
		cl, exists := clients[ip]
		if !exists {
			cl = &client{
				limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
			}
			clients[ip] = cl
		}
		cl.lastSeen = now
		limiter := cl.limiter
		mu.Unlock()

		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			return
		}

		c.Next()
	}
}
