package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/AleeCode25/panel-billeteras/service/config"
	"github.com/AleeCode25/panel-billeteras/service/metrics"
	"github.com/AleeCode25/panel-billeteras/service/wallet"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server represents the HTTP server for the wallet panel API.
type Server struct {
	addr     string
	cfg      *config.Config
	registry *wallet.Registry
	svc      *wallet.Service
	sessions *SessionStore
	metrics  *metrics.Metrics
	logger   *slog.Logger
	server   *http.Server
}

// New creates a new HTTP server with the given dependencies.
// The metrics is optional - if nil, the metrics endpoint won't be available.
func New(addr string, cfg *config.Config, registry *wallet.Registry, svc *wallet.Service, sessions *SessionStore, m *metrics.Metrics, logger *slog.Logger) *Server {
	return &Server{
		addr:     addr,
		cfg:      cfg,
		registry: registry,
		svc:      svc,
		sessions: sessions,
		metrics:  m,
		logger:   logger,
	}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	mux := http.NewServeMux()

	// Session gate
	mux.Handle("POST /api/v1/auth/login", handleLogin(s.cfg, s.sessions, s.logger))
	mux.Handle("POST /api/v1/auth/logout", handleLogout(s.sessions, s.logger))

	// Wallet panel routes, behind the session gate
	guard := requireSession(s.sessions, s.logger)
	mux.Handle("GET /api/v1/wallets", guard(handleListWallets(s.registry, s.logger)))
	mux.Handle("POST /api/v1/transactions", guard(instrument(s.metrics, "/api/v1/transactions", handleIncoming(s.registry, s.svc, s.logger))))
	mux.Handle("POST /api/v1/outflows", guard(instrument(s.metrics, "/api/v1/outflows", handleOutflows(s.registry, s.svc, s.logger))))
	mux.Handle("POST /api/v1/balance", guard(instrument(s.metrics, "/api/v1/balance", handleBalance(s.registry, s.svc, s.logger))))
	mux.Handle("POST /api/v1/debug/payments", guard(handleDebugPayments(s.registry, s.svc, s.logger)))

	// Health check endpoint
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Prometheus metrics endpoint (if metrics collector is configured)
	if s.metrics != nil {
		mux.Handle("GET /metrics", promhttp.Handler())
		s.logger.Info("Prometheus metrics endpoint enabled")
	}

	// Wrap mux with CORS middleware
	handler := corsMiddleware(mux)

	s.server = &http.Server{
		Addr:         s.addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("starting HTTP server", "addr", s.addr, "wallets", len(s.registry.List()))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// instrument wraps a handler with HTTP metrics recording when metrics
// are configured.
func instrument(m *metrics.Metrics, name string, next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return metrics.HTTPMetricsMiddleware(m, name)(next)
}

// corsMiddleware adds CORS headers to all responses and handles OPTIONS preflight requests.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "3600")

		// Handle preflight OPTIONS requests
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
