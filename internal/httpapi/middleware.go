package httpapi

import (
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
)

// RateLimiter hands out one golang.org/x/time/rate.Limiter per client
// IP, matching the rate-limited-per-client shape the rest of the pack
// uses for public write endpoints.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	perSec   rate.Limit
	burst    int
}

// NewRateLimiter builds a RateLimiter allowing perSecond requests per
// client IP, with the given burst allowance.
func NewRateLimiter(perSecond float64, burst int) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		perSec:   rate.Limit(perSecond),
		burst:    burst,
	}
}

func (rl *RateLimiter) limiterFor(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	l, ok := rl.limiters[key]
	if !ok {
		l = rate.NewLimiter(rl.perSec, rl.burst)
		rl.limiters[key] = l
	}
	return l
}

// Middleware rejects requests from a client IP once its rate budget is
// exhausted.
func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !rl.limiterFor(c.RealIP()).Allow() {
				return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded"})
			}
			return next(c)
		}
	}
}

// AdminKeyAuth guards an endpoint behind a bcrypt-hashed API key
// supplied out of band (e.g. provisioned by cmd/seed). An empty hash
// disables the check, since not every deployment configures one.
func AdminKeyAuth(hash string, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if hash == "" {
				return next(c)
			}
			key := c.Request().Header.Get("X-API-Key")
			if key == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing API key"})
			}
			if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(key)); err != nil {
				logger.Warn("rejected request with invalid API key", zap.String("path", c.Path()))
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid API key"})
			}
			return next(c)
		}
	}
}
