package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"realestate/internal/common/config"
	"realestate/internal/common/logging"
	"realestate/internal/common/metrics"
	"realestate/internal/common/types"
	listingsapi "realestate/internal/listings/api"
	"realestate/internal/listings/application"
	"realestate/internal/listings/domain"
	"realestate/internal/listings/infrastructure/memory"
	"realestate/internal/listings/infrastructure/postgres"
	"realestate/internal/listings/infrastructure/seed"
)

// dataStore is what the application service needs from a storage backend.
type dataStore interface {
	domain.AtomicExecutor
	domain.Repositories
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Setup structured logging
	logging.Setup(logging.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	// Generate correlation ID for startup
	startupCtx := logging.WithCorrelationID(context.Background(), types.NewCorrelationID())

	logging.InfoContext(startupCtx, "Starting real estate listings service",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"storage", cfg.Storage,
		"log_level", cfg.LogLevel,
	)

	// Select storage backend
	var store dataStore
	var ready func(context.Context) error

	switch cfg.Storage {
	case config.StoragePostgres:
		pool, err := cfg.NewPostgresPool(startupCtx)
		if err != nil {
			logging.Error("Failed to connect to Postgres", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		store = postgres.NewDataStore(pool)
		ready = pool.Ping
		logging.InfoContext(startupCtx, "Postgres storage initialized")

	case config.StorageMemory:
		memStore := memory.NewDataStore()
		store = memStore
		ready = func(context.Context) error { return nil }
		logging.InfoContext(startupCtx, "In-memory storage initialized")

		if cfg.SeedDemoData {
			if err := seed.Run(startupCtx, memStore); err != nil {
				logging.Error("Failed to seed demo data", "error", err)
				os.Exit(1)
			}
		}
	}

	// Setup HTTP server
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("GET /health", healthHandler)

	// Ready check endpoint (checks dependencies)
	mux.HandleFunc("GET /ready", readyHandler(cfg, ready))

	// Prometheus metrics endpoint
	mux.Handle("GET /metrics", metrics.Handler())

	listingsService := application.NewListingsService(store)
	listingsHandler := listingsapi.NewHandler(listingsService)
	listingsHandler.RegisterRoutes(mux)

	logging.InfoContext(startupCtx, "Listings context initialized")

	// Middleware chain: metrics -> correlation -> handler
	handler := metrics.Middleware(correlationMiddleware(mux))

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logging.Info("HTTP server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logging.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logging.Info("Server stopped")
}

// requestTimeout is the maximum time allowed for processing a single request.
const requestTimeout = 5 * time.Second

// correlationMiddleware adds correlation ID and request timeout to each request.
func correlationMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Check for existing correlation ID in header
		corrID := types.CorrelationID(r.Header.Get("X-Correlation-ID"))
		if corrID.IsEmpty() {
			corrID = types.NewCorrelationID()
		}

		// Add request timeout to prevent runaway requests
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		// Add correlation ID to context
		ctx = logging.WithCorrelationID(ctx, corrID)

		// Set response header
		w.Header().Set("X-Correlation-ID", corrID.String())

		// Log request
		logging.InfoContext(ctx, "HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
		)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// healthHandler returns basic health status.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "healthy",
	})
}

// readyHandler checks if the storage backend is reachable.
func readyHandler(cfg *config.Config, ping func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if err := ping(r.Context()); err != nil {
			logging.ErrorContext(r.Context(), "Readiness check failed", "error", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]any{
				"status": "unavailable",
			})
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{
			"status":      "ready",
			"environment": cfg.Environment,
		})
	}
}
