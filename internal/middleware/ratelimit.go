package middleware

import (
	"context"
	"net/http"
	"recommendationService/pkg/logger"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

// RateCounter counts hits for a subject inside the current fixed window.
type RateCounter interface {
	Incr(ctx context.Context, subject string, window time.Duration) (int64, error)
}

type RateLimitConfig struct {
	Counter RateCounter
	RPS     int
	Window  time.Duration // defaults to 1s
}

// RateLimit applies a fixed-window limit per client IP. With no counter or a
// non-positive RPS every request passes. Counter failures fail open.
func RateLimit(cfg RateLimitConfig) echo.MiddlewareFunc {
	if cfg.Window <= 0 {
		cfg.Window = time.Second
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if cfg.Counter == nil || cfg.RPS <= 0 {
				return next(c)
			}

			now := time.Now()
			cnt, err := cfg.Counter.Incr(c.Request().Context(), c.RealIP(), cfg.Window)
			if err != nil {
				logger.Warn("Rate limiter unavailable, allowing request", "error", err)
				return next(c)
			}

			if cnt > int64(cfg.RPS) {
				// seconds until next window, at least 1
				remain := cfg.Window - time.Duration(now.UnixNano()%int64(cfg.Window))
				secs := int(remain.Round(time.Second) / time.Second)
				if secs < 1 {
					secs = 1
				}
				c.Response().Header().Set("Retry-After", strconv.Itoa(secs))
				return echo.NewHTTPError(http.StatusTooManyRequests, MessageRateLimited)
			}

			return next(c)
		}
	}
}
