package http

import (
	"net/http"
	"sync"
	"time"

	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/silkmart/support-assistant/internal/infra/config"
)

func errorHandlingMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		httpErr := asHTTPError(c.Errors.Last().Err)
		message := httpErr.Message
		if message == "" {
			message = httpErr.Error()
		}

		if httpErr.Status >= http.StatusInternalServerError {
			logger.Error("request failed", "code", httpErr.Code, "status", httpErr.Status, "path", c.Request.URL.Path, "error", httpErr.Err)
		} else {
			logger.Warn("request failed", "code", httpErr.Code, "status", httpErr.Status, "path", c.Request.URL.Path, "error", httpErr.Err)
		}

		c.JSON(httpErr.Status, gin.H{
			"error": gin.H{
				"code":    httpErr.Code,
				"message": message,
			},
		})
	}
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("http request", "method", c.Request.Method, "path", c.Request.URL.Path, "status", c.Writer.Status(), "latency_ms", latency.Milliseconds())
	}
}

func rateLimitMiddleware(cfg config.RateLimitConfig, logger *slog.Logger) gin.HandlerFunc {
	if !cfg.Enabled || cfg.RequestsPerMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	limiter := newClientLimiter(cfg)
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if limiter.take(ip) {
			c.Next()
			return
		}
		logger.Warn("rate limit exceeded", "ip", ip, "path", c.Request.URL.Path)
		abortWithError(c, NewHTTPError(http.StatusTooManyRequests, "rate_limit_exceeded", "too many requests", nil))
	}
}

// clientLimiter is a per-IP token bucket. Buckets refill continuously at
// the configured per-minute rate and idle entries expire.
type clientLimiter struct {
	mu       sync.Mutex
	buckets  map[string]*bucket
	perToken time.Duration
	burst    float64
	idleTTL  time.Duration
}

type bucket struct {
	tokens float64
	filled time.Time
}

func newClientLimiter(cfg config.RateLimitConfig) *clientLimiter {
	return &clientLimiter{
		buckets:  make(map[string]*bucket),
		perToken: time.Minute / time.Duration(cfg.RequestsPerMinute),
		burst:    float64(cfg.Burst),
		idleTTL:  5 * time.Minute,
	}
}

func (l *clientLimiter) take(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	b, ok := l.buckets[ip]
	if !ok {
		b = &bucket{tokens: l.burst, filled: now}
		l.buckets[ip] = b
	} else {
		refill := float64(now.Sub(b.filled)) / float64(l.perToken)
		if refill > 0 {
			b.tokens = min(l.burst, b.tokens+refill)
			b.filled = now
		}
	}

	for key, stale := range l.buckets {
		if now.Sub(stale.filled) > l.idleTTL {
			delete(l.buckets, key)
		}
	}

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}
