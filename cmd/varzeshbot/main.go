package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/varzeshfeed/varzeshbot/internal/ai"
	"github.com/varzeshfeed/varzeshbot/internal/bot"
	"github.com/varzeshfeed/varzeshbot/internal/cache"
	"github.com/varzeshfeed/varzeshbot/internal/config"
	"github.com/varzeshfeed/varzeshbot/internal/logger"
	"github.com/varzeshfeed/varzeshbot/internal/metrics"
	"github.com/varzeshfeed/varzeshbot/internal/news"
	"github.com/varzeshfeed/varzeshbot/internal/ratelimit"
	"github.com/varzeshfeed/varzeshbot/internal/rss"
	"github.com/varzeshfeed/varzeshbot/internal/scraper"
	"github.com/varzeshfeed/varzeshbot/internal/telegram"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger.Init(cfg.LogLevel)

	// Optional HTTP server for health checks and metrics
	if os.Getenv("ENABLE_HTTP_MONITORING") == "true" {
		go startMonitoringServer()
	}

	sources, err := rss.LoadSources(cfg.FeedsConfigPath)
	if err != nil {
		log.Fatalf("failed to load feed sources: %v", err)
	}
	logger.Info("loaded feed sources", "count", len(sources))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var geminiClient *ai.GeminiClient
	if cfg.GeminiAPIKey != "" {
		geminiClient, err = ai.NewGeminiClient(ctx, cfg.GeminiAPIKey)
		if err != nil {
			logger.Warn("Gemini fallback unavailable", "error", err)
		} else {
			defer geminiClient.Close()
		}
	}

	responseCache := cache.New()
	aiService := ai.NewService(
		ai.NewOpenAIClient(cfg.OpenAIKey),
		geminiClient,
		ratelimit.NewAILimiter(cfg.MaxAIRequests),
		responseCache,
		cfg.CacheTimeout,
	)

	aggregator := news.NewAggregator(sources, rss.NewFetcher(cfg.RequestTimeout))

	b := bot.New(
		cfg,
		telegram.New(cfg.TelegramToken),
		aggregator,
		aiService,
		scraper.New(cfg.RequestTimeout),
		responseCache,
	)

	if err := b.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatalf("bot stopped: %v", err)
	}
	logger.Info("bot shut down")
}

func startMonitoringServer() {
	port := os.Getenv("MONITORING_PORT")
	if port == "" {
		port = "8080"
	}

	http.HandleFunc("/health", healthHandler)
	http.HandleFunc("/metrics", metricsHandler)

	logger.Info("starting monitoring server", "port", port)
	if err := http.ListenAndServe(":"+port, nil); err != nil {
		logger.Error("monitoring server error", "error", err)
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	stats := metrics.Global.GetStats()

	status := "ok"
	if !stats["is_healthy"].(bool) {
		status = "error"
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	response := map[string]interface{}{
		"status":     status,
		"last_run":   stats["last_run_time"],
		"last_error": stats["last_error"],
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func metricsHandler(w http.ResponseWriter, r *http.Request) {
	stats := metrics.Global.GetStats()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}
