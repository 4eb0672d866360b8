package core

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func newTestService(t *testing.T, cfg ServiceConfig) *Service {
	t.Helper()
	if cfg.NewTimer == nil {
		cfg.NewTimer = func() Timer { return NewManualTimer() }
	}
	svc, err := NewService(cfg)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	t.Cleanup(func() { svc.Shutdown(context.Background()) })
	return svc
}

func TestNewService_UnknownDefaultSample(t *testing.T) {
	_, err := NewService(ServiceConfig{DefaultSample: "nope"})
	if !errors.Is(err, ErrSampleNotFound) {
		t.Errorf("error = %v, want ErrSampleNotFound", err)
	}
}

func TestService_SessionLifecycle(t *testing.T) {
	svc := newTestService(t, ServiceConfig{})
	ctx := context.Background()

	sess, err := svc.CreateSession(ctx, "")
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	if sess.ID() == "" {
		t.Fatal("session has no id")
	}
	if sess.Metric() != testSample.Metric {
		t.Errorf("Metric = %q, want the default sample's", sess.Metric())
	}

	got, err := svc.Session(sess.ID())
	if err != nil || got != sess {
		t.Fatalf("Session() = %v, %v", got, err)
	}

	if err := svc.CloseSession(sess.ID()); err != nil {
		t.Fatalf("CloseSession() error = %v", err)
	}
	if !sess.Closed() {
		t.Error("closed session still open")
	}
	if _, err := svc.Session(sess.ID()); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Session() after close error = %v, want ErrSessionNotFound", err)
	}
	if err := svc.CloseSession(sess.ID()); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("second CloseSession() error = %v, want ErrSessionNotFound", err)
	}
}

func TestService_CreateSessionUnknownSample(t *testing.T) {
	svc := newTestService(t, ServiceConfig{})
	if _, err := svc.CreateSession(context.Background(), "missing"); !errors.Is(err, ErrSampleNotFound) {
		t.Errorf("error = %v, want ErrSampleNotFound", err)
	}
}

func TestService_MaxSessions(t *testing.T) {
	svc := newTestService(t, ServiceConfig{MaxSessions: 2})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := svc.CreateSession(ctx, ""); err != nil {
			t.Fatalf("CreateSession() #%d error = %v", i, err)
		}
	}
	if _, err := svc.CreateSession(ctx, ""); !errors.Is(err, ErrTooManySessions) {
		t.Errorf("third CreateSession() error = %v, want ErrTooManySessions", err)
	}
}

func TestService_Import(t *testing.T) {
	svc := newTestService(t, ServiceConfig{MaxImportSize: 64})
	ctx := context.Background()
	sess, _ := svc.CreateSession(ctx, "")

	csv := "Dimension,Jan,Feb\nA,1,2"
	f, _, err := svc.Import(ctx, sess.ID(), strings.NewReader(csv), int64(len(csv)))
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if f.Metric != UploadedMetric || f.StepCount != 2 {
		t.Errorf("frame = %+v", f)
	}

	big := "Dimension,Jan\n" + strings.Repeat("A,1\n", 40)
	if _, _, err := svc.Import(ctx, sess.ID(), strings.NewReader(big), int64(len(big))); !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("declared oversize error = %v, want ErrFileTooLarge", err)
	}
	if _, _, err := svc.Import(ctx, sess.ID(), strings.NewReader(big), -1); !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("undeclared oversize error = %v, want ErrFileTooLarge", err)
	}
	if got := sess.Table().StepCount(); got != 2 {
		t.Errorf("oversize import changed the table, step count %d", got)
	}

	if _, _, err := svc.Import(ctx, "missing", strings.NewReader(csv), 0); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("unknown session error = %v, want ErrSessionNotFound", err)
	}
	if svc.ImportsActive() != 0 {
		t.Errorf("ImportsActive = %d after imports finished", svc.ImportsActive())
	}
}

func TestService_SweepIdle(t *testing.T) {
	svc := newTestService(t, ServiceConfig{})
	ctx := context.Background()

	idle, _ := svc.CreateSession(ctx, "")
	watched, _ := svc.CreateSession(ctx, "")
	_, cancel := watched.Subscribe()
	defer cancel()

	time.Sleep(60 * time.Millisecond)
	fresh, _ := svc.CreateSession(ctx, "")

	closed := svc.SweepIdle(30 * time.Millisecond)
	if closed != 1 {
		t.Fatalf("SweepIdle() = %d, want 1", closed)
	}
	if !idle.Closed() {
		t.Error("idle session not closed")
	}
	if watched.Closed() {
		t.Error("session with a subscriber was swept")
	}
	if fresh.Closed() {
		t.Error("fresh session was swept")
	}
	if svc.SessionCount() != 2 {
		t.Errorf("SessionCount = %d, want 2", svc.SessionCount())
	}
}

func TestService_Shutdown(t *testing.T) {
	svc := newTestService(t, ServiceConfig{})
	ctx := context.Background()
	a, _ := svc.CreateSession(ctx, "")
	b, _ := svc.CreateSession(ctx, "")

	if err := svc.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if !a.Closed() || !b.Closed() {
		t.Error("Shutdown() left sessions open")
	}
	if svc.SessionCount() != 0 {
		t.Errorf("SessionCount = %d, want 0", svc.SessionCount())
	}
}

func TestService_StartSweeperStopsOnCancel(t *testing.T) {
	svc := newTestService(t, ServiceConfig{})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		svc.StartSweeper(ctx, SweepConfig{IdleTimeout: time.Hour, Interval: time.Millisecond})
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}
}
