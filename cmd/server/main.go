package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/JonMunkholm/racechart/internal/config"
	"github.com/JonMunkholm/racechart/internal/core"
	_ "github.com/JonMunkholm/racechart/internal/core/samples" // Register built-in samples
	"github.com/JonMunkholm/racechart/internal/logging"
	"github.com/JonMunkholm/racechart/internal/web"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"default_sample", cfg.Playback.DefaultSample,
		"import_max_concurrent", cfg.Import.MaxConcurrent,
		"session_max", cfg.Session.Max,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)
	slog.Debug("effective configuration", "config", cfg.String())

	service, err := core.NewService(core.ServiceConfig{
		DefaultSample:        cfg.Playback.DefaultSample,
		DefaultInterval:      cfg.Playback.DefaultInterval,
		MaxSessions:          cfg.Session.Max,
		MaxImportSize:        cfg.Import.MaxFileSize,
		MaxConcurrentImports: cfg.Import.MaxConcurrent,
		ImportWait:           cfg.Import.MaxWaitTime,
	})
	if err != nil {
		slog.Error("failed to create service", "error", err)
		os.Exit(1)
	}

	// Log registered samples
	samples := core.Samples()
	slog.Info("samples registered", "count", len(samples))
	for _, s := range samples {
		slog.Debug("sample", "key", s.Key, "rows", s.Rows, "steps", s.StepCount)
	}

	server := web.NewServer(service, cfg)

	// Create cancellable context for background jobs
	jobCtx, cancelJobs := context.WithCancel(context.Background())

	go service.StartSweeper(jobCtx, core.SweepConfig{
		IdleTimeout: cfg.Session.IdleTimeout,
		Interval:    cfg.Session.SweepInterval,
	})

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		// Stop background jobs
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		// Close sessions first so open streams end and the server can drain.
		if err := service.Shutdown(shutdownCtx); err != nil {
			slog.Warn("imports did not complete in time", "error", err)
		}
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(cfg.Server.Addr()); err != nil {
		slog.Info("server stopped", "error", err)
	}
}
