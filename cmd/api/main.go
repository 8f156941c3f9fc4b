package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lss-analytics/training-api/internal/completion"
	"github.com/lss-analytics/training-api/internal/config"
	"github.com/lss-analytics/training-api/internal/dataset"
	"github.com/lss-analytics/training-api/internal/history"
	"github.com/lss-analytics/training-api/internal/http/handler"
	"github.com/lss-analytics/training-api/internal/http/middleware"
	"github.com/lss-analytics/training-api/internal/http/router"
	"github.com/lss-analytics/training-api/internal/jobs"
	"github.com/lss-analytics/training-api/internal/logger"
	"github.com/lss-analytics/training-api/internal/service"
	"github.com/lss-analytics/training-api/internal/source"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&cfg.Logging, &cfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Environment),
		zap.Int("port", cfg.App.Port),
	)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Select the tabular data source
	var src source.TabularSource
	switch cfg.Sheets.Source {
	case "xlsx":
		src = source.NewExcelSource(cfg.Sheets.XLSXPath, cfg.Sheets.XLSXSheet, log)
		log.Info("Using local workbook source", zap.String("path", cfg.Sheets.XLSXPath))
	default:
		src, err = source.NewSheetsSource(ctx, &source.SheetsConfig{
			SpreadsheetID:   cfg.Sheets.SpreadsheetID,
			CredentialsJSON: cfg.Sheets.CredentialsJSON,
			CredentialsFile: cfg.Sheets.CredentialsFile,
		}, log)
		if err != nil {
			return fmt.Errorf("failed to initialize sheets source: %w", err)
		}
	}

	completer := completion.NewClient(completion.Config{
		APIKey:            cfg.OpenAI.APIKey,
		BaseURL:           cfg.OpenAI.BaseURL,
		Model:             cfg.OpenAI.Model,
		Temperature:       cfg.OpenAI.Temperature,
		MaxTokens:         cfg.OpenAI.MaxTokens,
		Timeout:           cfg.OpenAI.TimeoutDuration(),
		MaxRetries:        cfg.OpenAI.MaxRetries,
		RequestsPerMinute: cfg.OpenAI.RequestsPerMinute,
	}, log)

	store := dataset.NewStore()
	agentService := service.NewAgentService(
		store,
		src,
		cfg.Sheets.Range,
		completer,
		history.New(5),
		log,
	)

	// Initial load; the service starts anyway on failure and reports
	// ErrNoDataLoaded until a refresh succeeds.
	if count, err := agentService.Refresh(ctx); err != nil {
		log.Warn("initial data load failed, continuing without data", zap.Error(err))
	} else {
		log.Info("initial data load completed", zap.Int("registrations", count))
	}

	// Scheduled refresh keeps the snapshot current between manual refreshes
	scheduler := jobs.NewScheduler(log)
	if cfg.Refresh.Enabled {
		refreshJob := jobs.NewRefreshJob(agentService, log, 2*time.Minute)
		if err := scheduler.AddJob(jobs.RefreshJobName, cfg.Refresh.Cron, refreshJob.Run); err != nil {
			return fmt.Errorf("failed to schedule refresh job: %w", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)
	agentHandler := handler.NewAgentHandler(agentService, cfg.App.Version, log)
	rt := router.NewRouter(cfg, log, rateLimiter, agentHandler)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-stop:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}

	log.Info("shutdown complete")
	return nil
}
