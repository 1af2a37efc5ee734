package middleware

import (
	"bufio"
	"net"
	"net/http"
	"time"

	"github.com/texttechlab/enhanced-search/internal/infrastructure/monitoring/logging"
)

// LoggingConfig controls the request logging middleware.
type LoggingConfig struct {
	// SkipPaths lists paths that are never logged, typically health and
	// metrics endpoints polled by infrastructure.
	SkipPaths []string

	// SlowThreshold raises the log level to Warn for requests that take
	// longer.  Zero disables the check.
	SlowThreshold time.Duration
}

// DefaultLoggingConfig skips the endpoints scraped by infrastructure.
func DefaultLoggingConfig() LoggingConfig {
	return LoggingConfig{
		SkipPaths:     []string{"/healthz", "/readyz", "/metrics"},
		SlowThreshold: 2 * time.Second,
	}
}

// wrappedResponseWriter captures the status code and the number of bytes
// written so the middleware can log them after the handler returns.
type wrappedResponseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int
}

func (w *wrappedResponseWriter) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *wrappedResponseWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.bytesWritten += n
	return n, err
}

// Hijack keeps the wrapped writer usable for connection upgrades.
func (w *wrappedResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hj, ok := w.ResponseWriter.(http.Hijacker); ok {
		return hj.Hijack()
	}
	return nil, nil, http.ErrNotSupported
}

// RequestLogging logs one line per request with method, path, status,
// duration and the request ID set by RequestID.
func RequestLogging(logger logging.Logger, cfg LoggingConfig) func(http.Handler) http.Handler {
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := skip[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			wrapped := &wrappedResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			took := time.Since(start)
			fields := []logging.Field{
				logging.String("method", r.Method),
				logging.String("path", r.URL.Path),
				logging.Int("status", wrapped.statusCode),
				logging.Int("bytes", wrapped.bytesWritten),
				logging.Duration("took", took),
				logging.String("request_id", GetRequestID(r.Context())),
				logging.String("remote", r.RemoteAddr),
			}

			switch {
			case wrapped.statusCode >= http.StatusInternalServerError:
				logger.Error("request failed", fields...)
			case cfg.SlowThreshold > 0 && took > cfg.SlowThreshold:
				logger.Warn("slow request", fields...)
			default:
				logger.Info("request handled", fields...)
			}
		})
	}
}
