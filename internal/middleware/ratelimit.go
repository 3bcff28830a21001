package middleware

import (
	"sync"
	"time"

	"visaflow_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// rateLimiterPool keeps one token bucket per client IP and evicts idle
// entries in the background.
type rateLimiterPool struct {
	mu       sync.Mutex
	clients  map[string]*clientLimiter
	rps      rate.Limit
	burst    int
	lifetime time.Duration
}

func newRateLimiterPool(perMinute int) *rateLimiterPool {
	pool := &rateLimiterPool{
		clients:  make(map[string]*clientLimiter),
		rps:      rate.Limit(float64(perMinute) / 60.0),
		burst:    perMinute,
		lifetime: 10 * time.Minute,
	}
	go pool.cleanup()
	return pool
}

func (p *rateLimiterPool) get(key string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()

	entry, ok := p.clients[key]
	if !ok {
		entry = &clientLimiter{limiter: rate.NewLimiter(p.rps, p.burst)}
		p.clients[key] = entry
	}
	entry.lastSeen = time.Now()
	return entry.limiter
}

func (p *rateLimiterPool) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		p.mu.Lock()
		for key, entry := range p.clients {
			if time.Since(entry.lastSeen) > p.lifetime {
				delete(p.clients, key)
			}
		}
		p.mu.Unlock()
	}
}

// RateLimitMiddleware throttles per client IP. perMinute is the
// sustained budget; bursts up to the same amount are allowed.
func RateLimitMiddleware(perMinute int) gin.HandlerFunc {
	pool := newRateLimiterPool(perMinute)

	return func(c *gin.Context) {
		if !pool.get(c.ClientIP()).Allow() {
			err := apperrors.New(apperrors.CodeRateLimited, "http", "Too many requests", 429)
			c.AbortWithStatusJSON(err.HTTPCode, gin.H{"error": err})
			return
		}
		c.Next()
	}
}
