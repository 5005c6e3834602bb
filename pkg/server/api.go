package server

import (
	"net/http"

	"github.com/nimburion/zipcodes/pkg/health"
	"github.com/nimburion/zipcodes/pkg/middleware"
	"github.com/nimburion/zipcodes/pkg/observability/logger"
	"github.com/nimburion/zipcodes/pkg/observability/metrics"
	"github.com/nimburion/zipcodes/pkg/server/router"
)

// APIServer is the public HTTP server with the standard middleware stack
// (request ID, logging, recovery, metrics) and the operational endpoints
// mounted alongside the API routes.
type APIServer struct {
	*Server
	Router router.Router
}

// NewAPIServer builds the server around the given router. Middleware is
// applied in order: request ID first so every later layer can correlate,
// then logging, recovery, and metrics.
func NewAPIServer(cfg Config, r router.Router, log logger.Logger, healthRegistry *health.Registry, metricsRegistry *metrics.Registry) *APIServer {
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogging(log),
		middleware.Recovery(log),
		metrics.Middleware(),
	)

	registerHealthRoutes(r, healthRegistry)
	registerMetricsRoute(r, metricsRegistry)

	return &APIServer{
		Server: NewServer(cfg, r, log),
		Router: r,
	}
}

// registerHealthRoutes mounts the liveness and readiness endpoints.
// Liveness only reports that the process is serving; readiness runs the
// registered store checks.
func registerHealthRoutes(r router.Router, registry *health.Registry) {
	r.GET("/healthz", func(c router.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": string(health.StatusHealthy)})
	})

	r.GET("/readyz", func(c router.Context) error {
		result := registry.Check(c.Request().Context())
		status := http.StatusOK
		if result.Status != health.StatusHealthy {
			status = http.StatusServiceUnavailable
		}
		return c.JSON(status, result)
	})
}

// registerMetricsRoute mounts the Prometheus scrape endpoint.
func registerMetricsRoute(r router.Router, registry *metrics.Registry) {
	handler := registry.Handler()
	r.GET("/metrics", func(c router.Context) error {
		handler.ServeHTTP(c.Response(), c.Request())
		return nil
	})
}
