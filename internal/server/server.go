package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/amishk599/careerpath/internal/ai"
	"github.com/amishk599/careerpath/internal/ratelimit"
)

const (
	sweepInterval   = time.Minute
	shutdownTimeout = 10 * time.Second
)

// Server exposes the advisor operations as a JSON HTTP API.
type Server struct {
	advisor    *ai.Advisor
	limiter    *ratelimit.ClientLimiter
	retryAfter int
	clientTTL  time.Duration
	logger     *slog.Logger
}

// New creates a Server. limiter may be nil to disable per-client limiting.
func New(advisor *ai.Advisor, limiter *ratelimit.ClientLimiter, rps float64, clientTTL time.Duration, logger *slog.Logger) *Server {
	return &Server{
		advisor:    advisor,
		limiter:    limiter,
		retryAfter: retryAfterSeconds(rps),
		clientTTL:  clientTTL,
		logger:     logger,
	}
}

// Handler returns the routed and rate-limited handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/insights", s.handleInsights)
	mux.HandleFunc("POST /api/roadmap", s.handleRoadmap)
	mux.HandleFunc("POST /api/explain", s.handleExplain)
	mux.HandleFunc("POST /api/resources", s.handleResources)
	mux.HandleFunc("POST /api/analyze", s.handleAnalyze)
	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	var h http.Handler = mux
	if s.limiter != nil {
		h = rateLimit(s.limiter, s.retryAfter, s.logger, h)
	}
	return logRequests(s.logger, h)
}

// Run serves on ln until ctx is cancelled, then shuts down gracefully. While
// running it periodically sweeps idle clients from the limiter.
func (s *Server) Run(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.logger.Info("server listening", "addr", ln.Addr().String(), "ai_configured", s.advisor.Configured())

	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("serve: %w", err)
		case <-ticker.C:
			s.sweep()
		case <-ctx.Done():
			s.logger.Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
			return nil
		}
	}
}

func (s *Server) sweep() {
	if s.limiter == nil {
		return
	}
	if removed := s.limiter.Sweep(s.clientTTL); removed > 0 {
		s.logger.Debug("swept idle clients", "removed", removed, "remaining", s.limiter.Len())
	}
}
