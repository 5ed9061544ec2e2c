package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MikeSquared-Agency/Bidscore/internal/api"
	"github.com/MikeSquared-Agency/Bidscore/internal/config"
	"github.com/MikeSquared-Agency/Bidscore/internal/hermes"
	"github.com/MikeSquared-Agency/Bidscore/internal/marketfeed"
	"github.com/MikeSquared-Agency/Bidscore/internal/metrics"
	"github.com/MikeSquared-Agency/Bidscore/internal/ranker"
	"github.com/MikeSquared-Agency/Bidscore/internal/scoring"
	"github.com/MikeSquared-Agency/Bidscore/internal/store"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger = newLogger(cfg)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	opts, err := cfg.EngineOptions()
	if err != nil {
		logger.Error("invalid scoring config", "error", err)
		os.Exit(1)
	}
	engine := scoring.NewEngine(opts)
	m := metrics.New(nil)
	logger.Info("scoring engine ready", "preset", cfg.Scoring.Preset, "mode", engine.Mode())

	// Database (optional: without it only the stateless scoring routes are served)
	var db store.Store
	if cfg.Database.URL != "" {
		pg, err := store.NewPostgresStore(ctx, cfg.Database.URL)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pg.Close()
		if err := pg.Migrate(ctx); err != nil {
			logger.Error("failed to migrate database", "error", err)
			os.Exit(1)
		}
		db = pg
		logger.Info("connected to database")
	} else {
		logger.Warn("no database configured, store-backed routes disabled")
	}

	// Hermes (optional)
	var hermesClient hermes.Client
	if cfg.Hermes.URL != "" {
		hc, err := hermes.NewNATSClient(ctx, cfg.Hermes.URL, logger)
		if err != nil {
			logger.Warn("failed to connect to hermes, running without events", "error", err)
		} else {
			hermesClient = hc
			defer hc.Close()
			logger.Info("connected to hermes")
		}
	}

	// Ranker
	var rk *ranker.Ranker
	if db != nil {
		rk = ranker.New(db, hermesClient, engine, m, cfg, logger)
		if cfg.MarketFeed.URL != "" {
			rk.SetMarketFeed(marketfeed.NewHTTPClient(cfg.MarketFeed.URL, cfg.MarketFeedTimeout()))
			logger.Info("market feed enabled", "url", cfg.MarketFeed.URL)
		}
		defer rk.Stop()
		rk.SetupSubscriptions()
		if cfg.Ranker.Enabled {
			rk.Start(ctx)
			logger.Info("ranker started", "tick_interval", cfg.TickInterval(), "batch_size", cfg.Ranker.BatchSize)
		}
	}

	// API server
	router := api.NewRouter(engine, db, rk, m, api.RouterOptions{
		AdminToken:         cfg.Server.AdminToken,
		RateLimitPerMinute: cfg.Server.RateLimit,
	}, logger)
	apiServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Metrics server
	metricsServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.MetricsPort),
		Handler:           api.NewMetricsRouter(m),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("API server starting", "port", cfg.Server.Port)
		if err := apiServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("API server error", "error", err)
		}
	}()

	go func() {
		logger.Info("metrics server starting", "port", cfg.Server.MetricsPort)
		if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("metrics server error", "error", err)
		}
	}()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = apiServer.Shutdown(shutdownCtx)
	_ = metricsServer.Shutdown(shutdownCtx)

	logger.Info("shutdown complete")
}

func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel()}
	if cfg.Logging.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
