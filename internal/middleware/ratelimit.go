package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/stockperf/internal/domain/dto"
)

const (
	defaultRateLimit  = 60
	defaultRateWindow = time.Minute
)

// client represents a rate-limited client with request count and window start.
type client struct {
	windowStart time.Time
	count       int
}

// rateLimiter is an in-memory fixed window counter keyed by client IP.
// NOTE: multi-instance deployments need a shared store.
type rateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*client
	window    time.Duration
	limit     int
	lastSweep time.Time
	now       func() time.Time
}

// RateLimiter limits each client IP to 60 requests per minute.
func RateLimiter() gin.HandlerFunc {
	return NewRateLimiter(defaultRateLimit, defaultRateWindow)
}

// NewRateLimiter limits each client IP to limit requests per window.
//
// Response when limit exceeded:
//
//	HTTP/1.1 429 Too Many Requests
//	{"message": "rate limit exceeded", "timestamp": "..."}
//
// A non-positive limit disables the middleware.
func NewRateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	if limit <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if window <= 0 {
		window = defaultRateWindow
	}
	rl := &rateLimiter{clients: make(map[string]*client), window: window, limit: limit, now: time.Now}
	return rl.handle
}

func (rl *rateLimiter) handle(c *gin.Context) {
	if !rl.allow(c.ClientIP()) {
		c.Header("Retry-After", rl.window.String())
		c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponse("rate limit exceeded", nil))
		return
	}
	c.Next()
}

func (rl *rateLimiter) allow(ip string) bool {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	if now.Sub(rl.lastSweep) > rl.window {
		for k, cl := range rl.clients {
			if now.Sub(cl.windowStart) > rl.window {
				delete(rl.clients, k)
			}
		}
		rl.lastSweep = now
	}

	cl, ok := rl.clients[ip]
	if !ok || now.Sub(cl.windowStart) > rl.window {
		rl.clients[ip] = &client{windowStart: now, count: 1}
		return true
	}
	cl.count++
	return cl.count <= rl.limit
}
