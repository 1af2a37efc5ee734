package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/texttechlab/enhanced-search/internal/config"
	"github.com/texttechlab/enhanced-search/internal/infrastructure/monitoring/logging"
)

// Server wraps the standard library HTTP server with a graceful shutdown
// bounded by the configured timeout.
type Server struct {
	srv             *http.Server
	shutdownTimeout time.Duration
	logger          logging.Logger
}

// NewServer builds a Server serving handler on the configured port.
func NewServer(cfg config.ServerConfig, handler http.Handler, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Server{
		srv: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		shutdownTimeout: cfg.ShutdownTimeout,
		logger:          logger.Named("http-server"),
	}
}

// Start serves until the listener fails or Stop is called.  It blocks; run
// it in its own goroutine when the caller has more to do.
func (s *Server) Start() error {
	s.logger.Info("http server listening", logging.String("addr", s.srv.Addr))
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop shuts the server down gracefully, waiting for in-flight requests up
// to the configured shutdown timeout.
func (s *Server) Stop(ctx context.Context) error {
	if s.shutdownTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.shutdownTimeout)
		defer cancel()
	}

	s.logger.Info("http server shutting down")
	return s.srv.Shutdown(ctx)
}

// Handler returns the handler the server serves.  Useful for tests.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}
