package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/texttechlab/enhanced-search/internal/infrastructure/monitoring/prometheus"
)

// Metrics records request counts and latencies.  The chi route pattern is
// used as the path label so parameterized routes do not explode the label
// cardinality.
func Metrics(metrics *prometheus.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := &wrappedResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			path := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					path = pattern
				}
			}

			metrics.ObserveHTTPRequest(
				r.Method, path, strconv.Itoa(wrapped.statusCode), time.Since(start))
		})
	}
}
