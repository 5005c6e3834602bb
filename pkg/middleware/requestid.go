// Package middleware provides HTTP middleware components for the service.
package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/nimburion/zipcodes/pkg/observability/logger"
	"github.com/nimburion/zipcodes/pkg/server/router"
)

// RequestIDHeader is the HTTP header name for the request ID.
const RequestIDHeader = "X-Request-ID"

// RequestID creates middleware that generates or extracts request IDs.
// An existing X-Request-ID header is preserved; otherwise a UUID is generated.
// The ID is stored in the request context and echoed in the response header.
func RequestID() router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			requestID := c.Request().Header.Get(RequestIDHeader)
			if requestID == "" {
				requestID = uuid.New().String()
			}

			c.Set(string(logger.RequestIDKey), requestID)
			c.Response().Header().Set(RequestIDHeader, requestID)

			ctx := context.WithValue(c.Request().Context(), logger.RequestIDKey, requestID)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}
