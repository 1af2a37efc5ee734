package http

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/texttechlab/enhanced-search/internal/infrastructure/monitoring/logging"
	"github.com/texttechlab/enhanced-search/internal/infrastructure/monitoring/prometheus"
	"github.com/texttechlab/enhanced-search/internal/interfaces/http/handlers"
	"github.com/texttechlab/enhanced-search/internal/interfaces/http/middleware"
)

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return stderrors.New("connection refused") }

func testRouter(checks map[string]handlers.Pinger, metrics *prometheus.Metrics) http.Handler {
	return NewRouter(RouterConfig{
		HealthHandler: handlers.NewHealthHandler(checks, nil),
		Metrics:       metrics,
		Logger:        logging.NewNopLogger(),
		Logging:       middleware.DefaultLoggingConfig(),
	})
}

func TestRouterLiveness(t *testing.T) {
	router := testRouter(map[string]handlers.Pinger{"redis": okPinger{}}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouterReadiness(t *testing.T) {
	tests := []struct {
		name       string
		checks     map[string]handlers.Pinger
		wantStatus int
		wantBody   string
	}{
		{
			name:       "all backends reachable",
			checks:     map[string]handlers.Pinger{"redis": okPinger{}, "sparql": okPinger{}},
			wantStatus: http.StatusOK,
			wantBody:   "ok",
		},
		{
			name:       "one backend down",
			checks:     map[string]handlers.Pinger{"redis": okPinger{}, "opensearch": failingPinger{}},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   "degraded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := testRouter(tt.checks, nil)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

			require.Equal(t, tt.wantStatus, rec.Code)

			var body handlers.HealthResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.wantBody, body.Status)
			assert.Len(t, body.Checks, len(tt.checks))
		})
	}
}

func TestRouterMetricsEndpoint(t *testing.T) {
	metrics := prometheus.NewMetrics("routertest")
	router := testRouter(map[string]handlers.Pinger{}, metrics)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "routertest_http_requests_total")
}

func TestRouterAssignsRequestID(t *testing.T) {
	router := testRouter(map[string]handlers.Pinger{}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(middleware.RequestIDHeader, "upstream-id")
	router.ServeHTTP(rec, req)
	assert.Equal(t, "upstream-id", rec.Header().Get(middleware.RequestIDHeader))
}

func TestRouterUnknownRoute(t *testing.T) {
	router := testRouter(map[string]handlers.Pinger{}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/unknown", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouterWithoutHandlers(t *testing.T) {
	router := NewRouter(RouterConfig{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
