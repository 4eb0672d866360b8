package core

// scheduler.go runs the idle-session sweeper.
//
// Sessions live in memory only. A browser tab that goes away without
// deleting its session would otherwise keep a timer and its table alive
// forever, so the sweeper periodically closes sessions nobody has touched
// for IdleTimeout. Closing a session stops its playback timer.

import (
	"context"
	"log/slog"
	"time"
)

// SweepConfig holds the sweeper settings.
type SweepConfig struct {
	IdleTimeout time.Duration // close sessions idle longer than this (default: 30m)
	Interval    time.Duration // how often to sweep (default: 1m)
}

// StartSweeper closes idle sessions every Interval until ctx is cancelled.
func (s *Service) StartSweeper(ctx context.Context, cfg SweepConfig) {
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = 30 * time.Minute
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}

	slog.Info("session sweeper started",
		"idle_timeout", cfg.IdleTimeout,
		"interval", cfg.Interval,
	)

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("session sweeper stopped")
			return
		case <-ticker.C:
			s.runSweep(cfg)
		}
	}
}

func (s *Service) runSweep(cfg SweepConfig) {
	start := time.Now()
	closed := s.SweepIdle(cfg.IdleTimeout)
	if closed == 0 {
		slog.Debug("session sweep found nothing idle", "sessions", s.SessionCount())
		return
	}
	slog.Info("closed idle sessions",
		"closed", closed,
		"remaining", s.SessionCount(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
