package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ServiceConfig holds the Service settings. Zero values fall back to defaults.
type ServiceConfig struct {
	DefaultSample        string        // sample for sessions created without one
	DefaultInterval      time.Duration // starting tick interval
	MaxSessions          int           // 0 means unlimited
	MaxImportSize        int64         // bytes; 0 means unlimited
	MaxConcurrentImports int
	ImportWait           time.Duration

	// NewTimer builds each session's timer. Nil means NewTickerTimer.
	NewTimer func() Timer
}

// Service tracks live sessions by id.
type Service struct {
	cfg     ServiceConfig
	limiter *ImportLimiter

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewService creates a Service. The default sample must be registered.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.DefaultSample == "" {
		cfg.DefaultSample = DefaultSampleKey
	}
	if _, err := GetSample(cfg.DefaultSample); err != nil {
		return nil, fmt.Errorf("default sample: %w", err)
	}
	if cfg.DefaultInterval == 0 {
		cfg.DefaultInterval = DefaultTickInterval
	}
	if cfg.NewTimer == nil {
		cfg.NewTimer = func() Timer { return NewTickerTimer() }
	}

	return &Service{
		cfg:      cfg,
		limiter:  NewImportLimiter(cfg.MaxConcurrentImports, cfg.ImportWait),
		sessions: make(map[string]*Session),
	}, nil
}

// CreateSession starts a new session from a sample. An empty key means the
// default sample.
func (s *Service) CreateSession(ctx context.Context, sampleKey string) (*Session, error) {
	if sampleKey == "" {
		sampleKey = s.cfg.DefaultSample
	}
	sample, err := GetSample(sampleKey)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cfg.MaxSessions > 0 && len(s.sessions) >= s.cfg.MaxSessions {
		return nil, fmt.Errorf("%w: limit %d", ErrTooManySessions, s.cfg.MaxSessions)
	}

	id := uuid.New().String()
	sess := NewSession(SessionOptions{
		ID:       id,
		Sample:   sample,
		Timer:    s.cfg.NewTimer(),
		Interval: s.cfg.DefaultInterval,
	})
	s.sessions[id] = sess

	slog.InfoContext(ctx, "session created",
		"session_id", id,
		"sample", sampleKey,
		"sessions", len(s.sessions),
	)
	return sess, nil
}

// Session returns a live session.
func (s *Service) Session(id string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return sess, nil
}

// CloseSession stops and forgets a session.
func (s *Service) CloseSession(id string) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	sess.Close()
	return nil
}

// SessionCount returns the number of live sessions.
func (s *Service) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Import decodes an uploaded file into a session, bounded by the import
// limiter and the size limit. size may be -1 when unknown.
func (s *Service) Import(ctx context.Context, id string, r io.Reader, size int64) (Frame, DecodeReport, error) {
	sess, err := s.Session(id)
	if err != nil {
		return Frame{}, DecodeReport{}, err
	}

	if max := s.cfg.MaxImportSize; max > 0 && size > max {
		return sess.Frame(), DecodeReport{}, fmt.Errorf("%w: %d bytes exceeds %d", ErrFileTooLarge, size, max)
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return sess.Frame(), DecodeReport{}, err
	}
	defer s.limiter.Release()

	return sess.Import(&LimitedReader{R: r, Limit: s.cfg.MaxImportSize})
}

// ImportsActive returns the number of imports being decoded.
func (s *Service) ImportsActive() int {
	return s.limiter.Active()
}

// SweepIdle closes sessions untouched for longer than maxIdle and returns
// how many were closed. Sessions with a live subscriber are kept.
func (s *Service) SweepIdle(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	s.mu.Lock()
	var stale []*Session
	for id, sess := range s.sessions {
		if sess.SubscriberCount() > 0 {
			continue
		}
		if sess.LastActive().Before(cutoff) {
			stale = append(stale, sess)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, sess := range stale {
		sess.Close()
	}
	return len(stale)
}

// Shutdown waits for in-flight imports, then closes every session.
func (s *Service) Shutdown(ctx context.Context) error {
	drainErr := s.limiter.WaitForDrain(ctx)

	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[string]*Session)
	s.mu.Unlock()

	for _, sess := range sessions {
		sess.Close()
	}
	return drainErr
}
