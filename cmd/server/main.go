package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/leettrack/backend/internal/api"
	"github.com/leettrack/backend/internal/infrastructure/config"
	"github.com/leettrack/backend/internal/service"
	"github.com/leettrack/backend/internal/store"

	_ "github.com/leettrack/backend/docs" // generated swagger docs
)

// @title           LeetTrack API
// @version         1.0
// @description     Coding practice tracker: log solve attempts and get weighted question recommendations.

// @host      localhost:8080
// @BasePath  /

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	// ── Dependencies ────────────────────────────────────────────────
	db, err := store.NewSQLite(cfg.DatabasePath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	profiles := service.NewProfileService(db, cfg.DefaultWeights, logger)
	history := service.NewHistoryService(db, logger)
	stats := service.NewStatsService(db, cfg.RecentWindow)
	recommendations := service.NewRecommendationService(db, profiles, service.RecommendationOptions{
		RecentWindow:    cfg.RecentWindow,
		PersistAdjusted: true,
	}, logger)

	handler := api.NewHandler(api.Deps{
		Store:           db,
		Profiles:        profiles,
		History:         history,
		Stats:           stats,
		Recommendations: recommendations,
		Limits: api.Limits{
			DefaultRecommendations: cfg.DefaultRecommendations,
			MaxRecommendations:     cfg.MaxRecommendations,
		},
		Logger: logger,
	})

	// ── Routes ──────────────────────────────────────────────────────
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status": "unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "ok"}`))
	})

	api.RegisterRoutes(mux, handler)

	mux.Handle("GET /metrics", promhttp.Handler())

	// Swagger UI served at /swagger/
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// ── Middleware chain: RequestID → Logging → Metrics → RateLimit → CORS → mux
	root := api.Chain(mux,
		api.RequestID,
		api.Logging(logger),
		api.Metrics,
		api.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow),
		api.CORS(cfg.CORSAllowedOrigins),
	)

	// ── Server ──────────────────────────────────────────────────────
	server := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           root,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		logger.Info("shutting down server")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server forced to shutdown", "error", err)
		}
	}()

	logger.Info("starting server", "address", cfg.ServerAddress)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed to start", "error", err)
		os.Exit(1)
	}
}
