package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nimburion/zipcodes/pkg/health"
	"github.com/nimburion/zipcodes/pkg/middleware"
	"github.com/nimburion/zipcodes/pkg/observability/logger"
	"github.com/nimburion/zipcodes/pkg/observability/metrics"
	"github.com/nimburion/zipcodes/pkg/server/router"
	ginrouter "github.com/nimburion/zipcodes/pkg/server/router/gin"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...any)                        {}
func (nopLogger) Info(string, ...any)                         {}
func (nopLogger) Warn(string, ...any)                         {}
func (nopLogger) Error(string, ...any)                        {}
func (n nopLogger) With(...any) logger.Logger                 { return n }
func (n nopLogger) WithContext(context.Context) logger.Logger { return n }

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error {
	return errors.New("no reachable servers")
}

func newAPIServer(registry *health.Registry) *APIServer {
	return NewAPIServer(Config{Port: 8080}, ginrouter.NewRouter(), nopLogger{}, registry, metrics.NewRegistry())
}

func serve(t *testing.T, srv *APIServer, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestAPIServer_Liveness(t *testing.T) {
	srv := newAPIServer(health.NewRegistry())

	rec := serve(t, srv, "/healthz")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Header().Get(middleware.RequestIDHeader) == "" {
		t.Error("middleware stack did not set the request id header")
	}
}

func TestAPIServer_ReadinessHealthy(t *testing.T) {
	srv := newAPIServer(health.NewRegistry())

	rec := serve(t, srv, "/readyz")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var result health.AggregatedResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if result.Status != health.StatusHealthy {
		t.Errorf("Status = %q, want healthy", result.Status)
	}
}

func TestAPIServer_ReadinessUnhealthyStore(t *testing.T) {
	registry := health.NewRegistry()
	registry.Register(health.NewPingChecker("mongodb", failingPinger{}))
	srv := newAPIServer(registry)

	rec := serve(t, srv, "/readyz")

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestAPIServer_MetricsEndpoint(t *testing.T) {
	srv := newAPIServer(health.NewRegistry())

	// A prior request gives the HTTP metrics something to report.
	serve(t, srv, "/healthz")
	rec := serve(t, srv, "/metrics")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "http_requests_total") {
		t.Error("scrape output is missing the request counter")
	}
}

func TestAPIServer_APIRoutesRunThroughMiddleware(t *testing.T) {
	srv := newAPIServer(health.NewRegistry())
	srv.Router.GET("/boom", func(router.Context) error {
		panic("handler bug")
	})

	rec := serve(t, srv, "/boom")

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500 from recovery middleware", rec.Code)
	}
}
