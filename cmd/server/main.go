package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AleeCode25/panel-billeteras/service/config"
	"github.com/AleeCode25/panel-billeteras/service/mercadopago"
	"github.com/AleeCode25/panel-billeteras/service/metrics"
	"github.com/AleeCode25/panel-billeteras/service/server"
	"github.com/AleeCode25/panel-billeteras/service/wallet"
)

func main() {
	// Load and validate configuration from environment
	// This fails fast if any required config is missing or invalid
	cfg := config.MustLoad()

	// Setup structured logging
	logger := setupLogger(cfg.LogLevel)
	logger.Info("starting server",
		"addr", cfg.ServerAddr,
		"log_level", cfg.LogLevel,
		"wallets", len(cfg.Wallets),
		"utc_offset", cfg.UTCOffset,
	)

	// Prometheus metrics on the default registry
	m := metrics.NewMetrics(nil)

	// MercadoPago API client
	mpClient := mercadopago.NewClient(cfg.MercadoPagoBaseURL, nil, m, logger)
	logger.Info("initialized MercadoPago client", "base_url", cfg.MercadoPagoBaseURL)

	// Wallet registry from static configuration
	wallets := make([]*wallet.Wallet, len(cfg.Wallets))
	for i, wc := range cfg.Wallets {
		wallets[i] = &wallet.Wallet{
			ID:          wc.ID,
			Name:        wc.Name,
			AccessToken: wc.AccessToken,
			OwnerID:     wc.OwnerID,
			Shifts:      wc.Shifts,
		}
	}
	registry := wallet.NewRegistry(wallets)

	// Wallet service: shift resolution, classification, pagination
	svc := wallet.NewService(mpClient, cfg.Location, m, logger)

	// HTTP server with in-memory session gate
	sessions := server.NewSessionStore()
	httpServer := server.New(cfg.ServerAddr, cfg, registry, svc, sessions, m, logger)

	// Start HTTP server in background
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- httpServer.Start()
	}()

	// Wait for shutdown signal or server error
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Error("server error", "error", err)
		os.Exit(1)
	case sig := <-shutdown:
		logger.Info("shutdown signal received", "signal", sig.String())

		// Graceful shutdown with timeout
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shutdown server gracefully", "error", err)
			os.Exit(1)
		}

		logger.Info("server shutdown complete")
	}
}

// setupLogger creates a structured logger with the given log level.
func setupLogger(levelStr string) *slog.Logger {
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}
