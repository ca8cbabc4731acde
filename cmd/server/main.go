package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tastelens/backend/config"
	httpDelivery "github.com/tastelens/backend/internal/delivery/http"
	"github.com/tastelens/backend/internal/infrastructure/cache"
	"github.com/tastelens/backend/internal/infrastructure/chart"
	"github.com/tastelens/backend/internal/infrastructure/dataset"
	"github.com/tastelens/backend/internal/infrastructure/report"
	"github.com/tastelens/backend/internal/logging"
	"github.com/tastelens/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

	logging.Info().
		Str("environment", cfg.Server.Environment).
		Str("port", cfg.Server.Port).
		Dur("cache_ttl", cfg.Cache.TTL).
		Msg("Starting TasteLens Backend v1.0.0")

	// Initialize infrastructure dependencies
	memoryCache := cache.NewMemoryCache()
	defer memoryCache.Close()

	datasets := dataset.NewRepository(cfg.Datasets, cfg.Schema, memoryCache, cfg.Cache.TTL)
	for _, name := range datasets.Names() {
		logging.Info().Str("dataset", name).Str("path", cfg.Datasets[name].Path).Msg("Dataset configured")
	}

	reporter := report.NewLogReporter(logging.Logger())
	renderer := chart.NewRenderer(cfg.Chart.Width, cfg.Chart.Height)

	// Initialize usecase layer
	recommender := usecase.NewRecommendationService(reporter, usecase.RecommenderConfig{
		DefaultTopN:        cfg.Recommender.TopN,
		AliasPrefix:        cfg.Schema.AliasPrefix,
		SortByScore:        cfg.Recommender.SortByScore,
		EnableDebugLogging: cfg.Recommender.EnableDebugLogging,
	})
	imputer := usecase.NewImputationService(reporter)
	analysis := usecase.NewAnalysisService(datasets, recommender, imputer, renderer)

	logging.Info().
		Int("top_n", cfg.Recommender.TopN).
		Bool("sort_by_score", cfg.Recommender.SortByScore).
		Float64("rate_per_ip", cfg.RateLimit.PerIP).
		Int("rate_burst", cfg.RateLimit.Burst).
		Msg("Services ready")

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(analysis)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server
	go func() {
		logging.Info().Str("addr", srv.Addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logging.Error().Err(err).Msg("Server shutdown failed")
	}
	logging.Info().Msg("Server stopped")
}
