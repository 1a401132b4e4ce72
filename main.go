// Copyright (c) 2024 cblomart
// Licensed under the MIT License

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	_ "feedcore/docs"
	"feedcore/internal/api"
	"feedcore/internal/cache"
	"feedcore/internal/config"
	"feedcore/internal/extractor"
	"feedcore/internal/health"
	"feedcore/internal/ingest"
	"feedcore/internal/lifecycle"
	"feedcore/internal/logger"
	"feedcore/internal/metrics"
	"feedcore/internal/monitor"
	"feedcore/internal/poller"
	"feedcore/internal/reconciler"
	"feedcore/internal/storage"
)

func main() {
	// Load .env early so configuration sees it
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	appLog, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer appLog.Sync()

	// Initialize persistent storage
	store, err := storage.New(cfg, appLog)
	if err != nil {
		log.Fatal("Failed to initialize storage:", err)
	}
	defer store.Close()

	// Tee info-and-above log entries into the store so they feed the
	// health scorer's error window. The storage layer keeps the plain
	// logger so a failing store cannot recurse into its own sink.
	appLog = logger.WithSink(appLog, store)

	// Initialize cache for hot data
	cacheManager := cache.NewManager(cfg.CacheTTL)

	// Initialize feed health tracking
	thresholds := health.Thresholds{
		DegradedAfter:  cfg.Health.DegradedAfter,
		ErrorAfter:     cfg.Health.ErrorAfter,
		DisableAfter:   cfg.Health.DisableAfter,
		MaxErrors24h:   cfg.Health.MaxErrors24h,
		RecoveryStep:   cfg.Health.RecoveryStep,
		FailurePenalty: cfg.Health.FailurePenalty,
	}
	tracker := health.NewTracker(store, thresholds, appLog)

	// Initialize the ingestion pipeline
	fetcher := ingest.NewFeedFetcher(store, tracker, cfg, appLog)
	extractorService := extractor.NewService(store, cfg, appLog)
	pipeline := ingest.NewPipeline(store, extractorService, tracker, fetcher, cfg, appLog)

	// Initialize maintenance components
	backfiller := lifecycle.NewBackfiller(store, appLog)
	orphanReconciler := reconciler.New(store, appLog)

	// Initialize health scoring
	prober := monitor.NewRouteProber(cfg.Probes)
	scorer := monitor.NewScorer(store, prober, cacheManager, cfg, appLog)

	// Initialize metrics on the default registry
	m := metrics.New(nil)

	// Initialize background poller
	backgroundPoller := poller.New(pipeline, backfiller, tracker, store, m, cfg, appLog)
	backgroundPoller.Start()

	// Initialize API server
	server := api.NewServer(api.Deps{
		Store:      store,
		Pipeline:   pipeline,
		Tracker:    tracker,
		Backfiller: backfiller,
		Reconciler: orphanReconciler,
		Scorer:     scorer,
		Poller:     backgroundPoller,
		Cache:      cacheManager,
		Metrics:    m,
		Log:        appLog,
	}, cfg)

	appLog.Info("starting feedcore server",
		logger.Int("port", cfg.Port),
		logger.String("data_dir", cfg.DataDir),
		logger.Duration("cache_ttl", cfg.CacheTTL),
		logger.Duration("poll_interval", cfg.PollInterval))

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Create a context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start signal handler in goroutine
	go func() {
		<-sigChan
		appLog.Info("received shutdown signal, stopping services")
		backgroundPoller.Stop()
		cancel()
	}()

	// Start the server with context for graceful shutdown
	if err := server.StartWithContext(ctx); err != nil && err != context.Canceled {
		log.Fatal("Failed to start server:", err)
	}
}
