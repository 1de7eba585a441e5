package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"coursecal/internal/calendar"
	"coursecal/internal/config"
	"coursecal/internal/executor"
	"coursecal/internal/extractor"
	"coursecal/internal/extractor/gemini"
	"coursecal/internal/loader"
	"coursecal/internal/metrics"
	"coursecal/internal/ocr"
	"coursecal/internal/publisher"
	"coursecal/internal/scheduler"
	"coursecal/internal/service"
	"coursecal/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger := setupLogger("info")

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = setupLogger(cfg.LogLevel)

	loc, err := time.LoadLocation(cfg.Sync.TimeZone)
	if err != nil {
		logger.Error("invalid time zone", "time_zone", cfg.Sync.TimeZone, "error", err)
		os.Exit(1)
	}

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("failed to ping database", "error", err)
		os.Exit(1)
	}
	logger.Info("connected to database")

	rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
		URL:        cfg.RabbitMQ.URL,
		Exchange:   cfg.RabbitMQ.Exchange,
		RoutingKey: cfg.RabbitMQ.RoutingKey,
		QueueName:  cfg.RabbitMQ.QueueName,
	}, logger)
	if err != nil {
		logger.Error("failed to connect to rabbitmq", "error", err)
		os.Exit(1)
	}
	defer rabbitMQ.Close()

	recordStore := postgres.NewSyncedEventStore(db)

	ocrClient := ocr.New(ocr.Config{
		Endpoint: cfg.OCR.Endpoint,
		Timeout:  cfg.OCR.Timeout,
	}, logger)

	docLoader := loader.New(loader.PDFExtractor{}, ocrClient, loader.Config{
		MinPageChars: cfg.Sync.MinPageChars,
		OCRWorkers:   cfg.Sync.OCRWorkers,
	}, logger)

	geminiClient := gemini.New(gemini.Config{
		BaseURL:        cfg.Extractor.BaseURL,
		APIKey:         cfg.Extractor.APIKey,
		Model:          cfg.Extractor.Model,
		Timeout:        cfg.Extractor.Timeout,
		MaxAttempts:    cfg.Extractor.Retry.MaxAttempts,
		InitialBackoff: cfg.Extractor.Retry.InitialBackoff,
		MaxBackoff:     cfg.Extractor.Retry.MaxBackoff,
	}, logger)
	eventExtractor := extractor.New(geminiClient, logger)

	calendarClient := calendar.NewHTTPClient(calendar.Config{
		BaseURL: cfg.Calendar.BaseURL,
		Token:   cfg.Calendar.Token,
		Timeout: cfg.Calendar.Timeout,
	}, logger)

	planExecutor := executor.New(calendarClient, recordStore, executor.Config{
		Workers:        cfg.Calendar.Workers,
		MaxAttempts:    cfg.Calendar.Retry.MaxAttempts,
		InitialBackoff: cfg.Calendar.Retry.InitialBackoff,
		MaxBackoff:     cfg.Calendar.Retry.MaxBackoff,
	}, logger)

	m := metrics.New()

	pipeline := service.NewPipelineService(
		docLoader,
		eventExtractor,
		recordStore,
		calendarClient,
		planExecutor,
		rabbitMQ,
		m,
		logger,
		cfg.Sync,
		loc,
	)

	sched := scheduler.NewScheduler(pipeline, cfg.Sync, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	if cfg.Metrics.Addr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", m.Handler())
			if err := http.ListenAndServe(cfg.Metrics.Addr, mux); err != nil {
				logger.Error("metrics server stopped", "error", err)
			}
		}()
		logger.Info("metrics server listening", "addr", cfg.Metrics.Addr)
	}

	logger.Info("starting syllabus syncer",
		"inbox", cfg.Sync.InboxDir,
		"interval", cfg.Sync.Interval,
		"time_zone", cfg.Sync.TimeZone,
	)

	if err := sched.Start(ctx); err != nil && err != context.Canceled {
		logger.Error("scheduler error", "error", err)
		os.Exit(1)
	}
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}
