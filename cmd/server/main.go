// Package main is the entry point for the Aetherum loan pricing agent.
// It wires the metrics store, the external market-data clients and the
// pricing pipeline behind the HTTP API, starts the metrics refresh
// schedule, and handles graceful shutdown.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/revanth11rs/aetherum-main-loan-agent-v2.1/internal/adapter/coingecko"
	"github.com/revanth11rs/aetherum-main-loan-agent-v2.1/internal/adapter/groq"
	"github.com/revanth11rs/aetherum-main-loan-agent-v2.1/internal/adapter/httpapi"
	"github.com/revanth11rs/aetherum-main-loan-agent-v2.1/internal/adapter/metricsapi"
	"github.com/revanth11rs/aetherum-main-loan-agent-v2.1/internal/adapter/repository/postgres"
	"github.com/revanth11rs/aetherum-main-loan-agent-v2.1/internal/adapter/rss"
	"github.com/revanth11rs/aetherum-main-loan-agent-v2.1/internal/config"
	"github.com/revanth11rs/aetherum-main-loan-agent-v2.1/internal/domain"
	"github.com/revanth11rs/aetherum-main-loan-agent-v2.1/internal/logger"
	"github.com/revanth11rs/aetherum-main-loan-agent-v2.1/internal/scheduler"
	"github.com/revanth11rs/aetherum-main-loan-agent-v2.1/internal/usecase/classify"
	"github.com/revanth11rs/aetherum-main-loan-agent-v2.1/internal/usecase/loan"
	"github.com/revanth11rs/aetherum-main-loan-agent-v2.1/internal/usecase/metrics"
	"github.com/revanth11rs/aetherum-main-loan-agent-v2.1/internal/usecase/summary"
)

func main() {
	// 1. Configuration and logging
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New(logger.Config{Level: "info", Pretty: true})
		fallback.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode(),
		File:   cfg.LogFile,
	})
	log.Info().Str("env", cfg.Env).Msg("Starting Aetherum loan agent")

	// 2. Metrics store (optional). Without DB_CONN the service still prices
	// loans; metrics lookups report not-found and pricing uses defaults.
	var db *postgres.DB
	var metricsRepo domain.MetricsRepository
	if cfg.DBConn != "" {
		db, err = postgres.NewDB(cfg.DBConn)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		if err := db.Migrate(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("Failed to migrate database")
		}
		metricsRepo = postgres.NewMetricsRepository(db)
		log.Info().Msg("Metrics store connected")
	} else {
		log.Warn().Msg("DB_CONN not set; running without a metrics store")
	}

	// 3. Market-data and LLM clients
	gecko := coingecko.NewClient(cfg.HTTPTimeout, log)
	newsClient := rss.NewClient(cfg.HTTPTimeout, log)

	var chat domain.ChatClient
	if cfg.GroqAPIKey != "" {
		chat = groq.NewClient(groq.Config{
			APIKey:           cfg.GroqAPIKey,
			Model:            cfg.AIModelName,
			Temperature:      cfg.AITemperature,
			MaxTokens:        cfg.AIMaxTokens,
			TopP:             cfg.AITopP,
			FrequencyPenalty: cfg.AIFrequencyPenalty,
		}, cfg.HTTPTimeout, log)
	} else {
		log.Warn().Msg("GROQ_API_KEY not set; classifier runs on the volatility heuristic")
	}

	// 4. Services. The metrics service always backs GET /metrics; the
	// pricing pipeline reads from it directly, or over HTTP when
	// METRICS_API_BASE points at a separate metrics deployment.
	metricsService := metrics.NewService(metricsRepo, log)

	var provider domain.MetricsProvider = metricsService
	if cfg.MetricsAPIBase != "" {
		provider = metricsapi.NewClient(cfg.MetricsAPIBase, cfg.HTTPTimeout, log)
		log.Info().Str("base", cfg.MetricsAPIBase).Msg("Pricing metrics served by external API")
	}

	classifier := classify.NewService(provider, chat, log)
	loanService := loan.NewService(provider, classifier, log)
	summaryService := summary.NewService(gecko, newsClient, chat, summary.Config{
		UseLLM:          cfg.UseLLMSummary,
		ModelName:       cfg.AIModelName,
		NewsPerCoin:     cfg.NewsPerCoin,
		ContractAddress: cfg.ContractAddress,
		ExplorerBaseURL: cfg.ExplorerBaseURL,
		ChainName:       cfg.ChainName,
	}, log)

	// 5. Metrics refresh schedule (needs the store)
	var sched *scheduler.Scheduler
	if metricsRepo != nil {
		sched = scheduler.New(log)
		refresher := metrics.NewRefresher(metricsRepo, gecko, log)
		if err := sched.AddJob(cfg.MetricsRefresh, refresher); err != nil {
			log.Fatal().Err(err).Str("schedule", cfg.MetricsRefresh).Msg("Failed to register metrics refresh")
		}
		sched.Start()

		// Warm the store so the first quotes already see metrics.
		go func() {
			if err := sched.RunNow(refresher); err != nil {
				log.Warn().Err(err).Msg("Initial metrics refresh failed")
			}
		}()
	}

	// 6. HTTP server
	var store httpapi.StorePinger
	if db != nil {
		store = db
	}

	srv := httpapi.New(httpapi.Config{
		Log:     log,
		Port:    cfg.Port,
		DevMode: cfg.DevMode(),
		Loan:    loanService,
		Summary: summaryService,
		Metrics: metricsService,
		Store:   store,
	})

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	waitForShutdown(srv, sched, db, log)
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down
// the server, the scheduler and the store connection.
func waitForShutdown(srv *httpapi.Server, sched *scheduler.Scheduler, db *postgres.DB, log zerolog.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	if sched != nil {
		sched.Stop()
	}

	if db != nil {
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close database")
		}
	}

	log.Info().Msg("Shutdown complete")
}
