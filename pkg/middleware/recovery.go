package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/nimburion/zipcodes/pkg/observability/logger"
	"github.com/nimburion/zipcodes/pkg/server/router"
)

// Recovery creates middleware that recovers from panics in HTTP handlers.
// The panic is logged with its stack trace and the client receives HTTP 500
// unless a response was already written.
func Recovery(log logger.Logger) router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			defer func() {
				if r := recover(); r != nil {
					requestID := logger.RequestIDFromContext(c.Request().Context())

					log.Error("panic recovered",
						"request_id", requestID,
						"panic", r,
						"stack", string(debug.Stack()),
					)

					if !c.Response().Written() {
						errorResponse := map[string]interface{}{
							"error":      "internal_server_error",
							"message":    "an unexpected error occurred",
							"request_id": requestID,
						}
						if err := c.JSON(http.StatusInternalServerError, errorResponse); err != nil {
							log.Error("failed to send error response",
								"request_id", requestID,
								"error", err,
							)
						}
					}
				}
			}()

			return next(c)
		}
	}
}
