// Package server assembles the HTTP surface: routing, middleware, metrics
// and lifecycle.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/FACorreiaa/bank-statement-standardizer/internal/domain/statement/handler"
	"github.com/FACorreiaa/bank-statement-standardizer/pkg/config"
)

// Server is the HTTP front of the standardizer.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// New builds the router and wraps it with the middleware stack.
func New(cfg *config.Config, h *handler.Handler, logger *slog.Logger) *Server {
	mux := http.NewServeMux()
	h.Register(mux)
	if cfg.Observability.MetricsEnabled {
		mux.Handle("GET /metrics", promhttp.Handler())
	}

	root := Chain(mux,
		RequestLogging(logger),
		Metrics(),
		CORS(),
		RateLimit(cfg.Server.RateLimitPerSecond, cfg.Server.RateLimitBurst),
	)

	return &Server{
		httpServer: &http.Server{
			Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler: root,
			// Uploads can be tens of megabytes; give slow clients room.
			ReadTimeout:       2 * time.Minute,
			WriteTimeout:      2 * time.Minute,
			ReadHeaderTimeout: 10 * time.Second,
			IdleTimeout:       time.Minute,
		},
		logger: logger,
	}
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", slog.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}
