package devserver

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiterConfig configures per-IP rate limiting.
type RateLimiterConfig struct {
	RequestsPerSecond float64
	Burst             int
}

type rateLimiterMap struct {
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
	config   RateLimiterConfig
}

func newRateLimiterMap(config RateLimiterConfig) *rateLimiterMap {
	rl := &rateLimiterMap{
		limiters: make(map[string]*rate.Limiter),
		config:   config,
	}
	go rl.cleanup()
	return rl
}

func (rl *rateLimiterMap) getLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limiter, exists := rl.limiters[ip]
	if !exists {
		limiter = rate.NewLimiter(rate.Limit(rl.config.RequestsPerSecond), rl.config.Burst)
		rl.limiters[ip] = limiter
	}
	return limiter
}

// cleanup caps the limiter map so long-running dev sessions do not leak.
func (rl *rateLimiterMap) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		if len(rl.limiters) > 1000 {
			rl.limiters = make(map[string]*rate.Limiter)
		}
		rl.mu.Unlock()
	}
}

// RateLimiterMiddleware rejects requests over the per-IP budget with 429.
func RateLimiterMiddleware(config RateLimiterConfig) gin.HandlerFunc {
	limiterMap := newRateLimiterMap(config)

	return func(c *gin.Context) {
		limiter := limiterMap.getLimiter(c.ClientIP())

		if !limiter.Allow() {
			reservation := limiter.Reserve()
			retryAfter := reservation.DelayFrom(time.Now()).Seconds()
			reservation.Cancel()

			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded. Please try again later.",
				"retry_after": retryAfter,
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
