package main

import (
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/qusimlab/qusim/internal/handlers"
	"github.com/qusimlab/qusim/internal/qsim"
	"github.com/qusimlab/qusim/internal/qsim/trace"
)

func main() {
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      slog.LevelInfo,
		TimeFormat: time.Kitchen,
	}))
	slog.SetDefault(logger)

	// Get port from environment variable or use default
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Create a new HTTP multiplexer
	mux := http.NewServeMux()

	manager := qsim.NewManager()
	bus := trace.NewBus(256, logger)
	simHandler := handlers.NewSimHandler(manager, bus)

	// Register existing routes
	mux.HandleFunc("/", handlers.HomeHandler)
	mux.HandleFunc("/health", handlers.HealthHandler)

	// Register simulation routes
	mux.HandleFunc("/api/v1/simulations", simHandler.SimulationsHandler)
	mux.HandleFunc("/api/v1/simulations/", handleSimulation(simHandler))

	// Telemetry surfaces
	mux.HandleFunc("/events", simHandler.EventsHandler)
	mux.Handle("/metrics", promhttp.Handler())

	// Expire idle simulations in the background
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			if removed := manager.CleanupExpiredSessions(); removed > 0 {
				logger.Info("cleaned up expired simulations", "removed", removed)
			}
		}
	}()

	// Create server with timeouts
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      loggingMiddleware(handlers.MetricsMiddleware(mux)),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("server starting", "port", port)
	if err := server.ListenAndServe(); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}

// loggingMiddleware logs all incoming requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"remote", r.RemoteAddr,
			"duration", time.Since(start),
		)
	})
}

// handleSimulation routes per-simulation requests by path suffix
func handleSimulation(simHandler *handlers.SimHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		switch {
		case strings.HasSuffix(path, "/gates"):
			simHandler.ApplyGateHandler(w, r)
		case strings.HasSuffix(path, "/measurements"):
			simHandler.MeasurementsHandler(w, r)
		case strings.HasSuffix(path, "/circuit"):
			simHandler.RunCircuitHandler(w, r)
		case strings.HasSuffix(path, "/state"):
			simHandler.StateHandler(w, r)
		case strings.HasSuffix(path, "/entanglement"):
			simHandler.EntanglementHandler(w, r)
		case strings.HasSuffix(path, "/edges"):
			simHandler.EdgesHandler(w, r)
		default:
			simHandler.SimulationHandler(w, r)
		}
	}
}
