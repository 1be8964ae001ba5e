// Package httpapi exposes the bridge's control-plane HTTP surface: a
// health probe and the Prometheus metrics endpoint.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ardent-systems/chitlm/internal/logger"
)

// NewRouter builds the router serving /healthz and /metrics for the
// given Prometheus registry.
func NewRouter(reg *prometheus.Registry) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	return r
}

// Server wraps an http.Server bound to the metrics listen address.
type Server struct {
	srv *http.Server
}

// NewServer creates a Server on addr serving NewRouter's endpoints.
func NewServer(addr string, reg *prometheus.Registry) *Server {
	return &Server{srv: &http.Server{
		Addr:              addr,
		Handler:           NewRouter(reg),
		ReadHeaderTimeout: 5 * time.Second,
	}}
}

// Start serves in a background goroutine; listen errors other than
// graceful close are logged.
func (s *Server) Start() {
	go func() {
		logger.Info("metrics server listening", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server failed", logger.Err(err))
		}
	}()
}

// Shutdown stops the server, waiting up to the context's deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
