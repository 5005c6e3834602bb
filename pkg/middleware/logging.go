package middleware

import (
	"time"

	"github.com/nimburion/zipcodes/pkg/observability/logger"
	"github.com/nimburion/zipcodes/pkg/server/router"
)

// RequestLogging creates middleware that logs one structured entry per request
// with method, path, status, and duration. The request ID is carried by the
// context-aware logger.
func RequestLogging(log logger.Logger) router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			start := time.Now()
			err := next(c)
			duration := time.Since(start)

			entry := log.WithContext(c.Request().Context())
			fields := []any{
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", c.Response().Status(),
				"duration_ms", float64(duration.Microseconds()) / 1000.0,
			}
			if err != nil {
				entry.Error("request failed", append(fields, "error", err)...)
				return err
			}

			entry.Info("request completed", fields...)
			return nil
		}
	}
}
