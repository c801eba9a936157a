package main

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/Zachkp/portfolio/internal/logger"
)

// Limiters idle longer than this are forgotten.
const limiterIdle = 10 * time.Minute

type clientEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientLimiter keeps one token bucket per client address. A zero rate
// disables limiting.
type clientLimiter struct {
	mu        sync.Mutex
	perMinute int
	clients   map[string]*clientEntry
	lastSweep time.Time
}

func newClientLimiter(perMinute int) *clientLimiter {
	return &clientLimiter{perMinute: perMinute, clients: make(map[string]*clientEntry)}
}

func (l *clientLimiter) allow(client string, now time.Time) bool {
	if l.perMinute <= 0 {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) > limiterIdle {
		for k, e := range l.clients {
			if now.Sub(e.lastSeen) > limiterIdle {
				delete(l.clients, k)
			}
		}
		l.lastSweep = now
	}

	e, ok := l.clients[client]
	if !ok {
		burst := max(l.perMinute/6, 1)
		e = &clientEntry{limiter: rate.NewLimiter(rate.Limit(float64(l.perMinute)/60), burst)}
		l.clients[client] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

func (s *server) rateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.limiter.allow(c.ClientIP(), s.now()) {
			logger.Named("chat").Debugw("rate limited", logger.FieldClient, c.ClientIP())
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "slow down a little"})
			return
		}
		c.Next()
	}
}
