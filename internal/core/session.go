package core

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// UploadedMetric replaces the metric caption after a successful import.
const UploadedMetric = "Uploaded Metric"

// Frame is everything a presenter needs to draw one moment of the race.
type Frame struct {
	SessionID  string      `json:"session_id"`
	Version    uint64      `json:"version"`
	Metric     string      `json:"metric"`
	StepIndex  int         `json:"step_index"`
	StepLabel  string      `json:"step_label"`
	StepCount  int         `json:"step_count"`
	StepLabels []string    `json:"step_labels"`
	Playing    bool        `json:"playing"`
	IntervalMs int         `json:"interval_ms"`
	MaxValue   float64     `json:"max_value"`
	Rows       []RankedRow `json:"rows"`
	Labels     []string    `json:"labels"` // row labels in table order, for edit lists
}

// SessionOptions configures a new Session.
type SessionOptions struct {
	ID       string
	Sample   SampleDefinition
	Timer    Timer         // nil means a TickerTimer
	Interval time.Duration // zero means DefaultTickInterval
}

// Session owns one race: its table, playback state and metric caption.
//
// A single mutex serialises every transition, including ticks arriving from
// the timer goroutine, so each one runs to completion before the next and
// no partial update is observable. Every change is published as a Frame to
// subscribers.
type Session struct {
	id string

	mu         sync.Mutex
	store      *Store
	playback   *Playback
	metric     string
	header     string
	format     func(float64) string
	version    uint64
	lastActive time.Time
	closed     bool

	listenerMu sync.Mutex
	listeners  map[int]chan Frame
	nextID     int
}

// NewSession creates a stopped session seeded from opts.Sample.
func NewSession(opts SessionOptions) *Session {
	timer := opts.Timer
	if timer == nil {
		timer = NewTickerTimer()
	}

	store := NewStore(opts.Sample.Table)
	s := &Session{
		id:         opts.ID,
		store:      store,
		playback:   NewPlayback(store, timer, opts.Interval),
		metric:     opts.Sample.Metric,
		header:     opts.Sample.LabelHeader,
		format:     opts.Sample.Format,
		lastActive: time.Now(),
		listeners:  make(map[int]chan Frame),
	}
	s.playback.SetDispatcher(s.onTick)
	return s
}

// ID returns the session id.
func (s *Session) ID() string {
	return s.id
}

// Frame returns the current frame.
func (s *Session) Frame() Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frameLocked()
}

// Table returns a copy of the current table.
func (s *Session) Table() Table {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Table()
}

// Metric returns the metric caption.
func (s *Session) Metric() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.metric
}

// LastActive returns when a user last changed or read the session.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// Touch marks the session as in use without changing it.
func (s *Session) Touch() {
	s.mu.Lock()
	s.lastActive = time.Now()
	s.mu.Unlock()
}

// Toggle is the play/pause control.
func (s *Session) Toggle() (Frame, error) {
	return s.mutate(func() error {
		s.playback.Toggle()
		return nil
	})
}

// Reset stops playback and rewinds to the first step.
func (s *Session) Reset() (Frame, error) {
	return s.mutate(func() error {
		s.playback.Reset()
		return nil
	})
}

// SetTickInterval sets the playback speed in milliseconds, clamped to
// [50, 1000].
func (s *Session) SetTickInterval(ms int) (Frame, error) {
	return s.mutate(func() error {
		s.playback.SetTickInterval(ms)
		return nil
	})
}

// SetMetric changes the cosmetic metric caption.
func (s *Session) SetMetric(metric string) (Frame, error) {
	return s.mutate(func() error {
		s.metric = strings.TrimSpace(metric)
		return nil
	})
}

// AddRow appends a row. On error nothing changes.
func (s *Session) AddRow(label string, values []float64) (Frame, error) {
	return s.mutate(func() error {
		return s.store.AddRow(label, values)
	})
}

// AddRowText appends a row from form text ("1.7, 1.8, ...").
func (s *Session) AddRowText(label, values string) (Frame, error) {
	return s.mutate(func() error {
		return AddRowText(s.store, label, values)
	})
}

// RemoveRow deletes the row at index.
func (s *Session) RemoveRow(index int) (Frame, error) {
	return s.mutate(func() error {
		_, err := RemoveRow(s.store, index)
		return err
	})
}

// ReplaceTable swaps in a new table, rewinds and stops playback.
func (s *Session) ReplaceTable(t Table, metric string) (Frame, error) {
	return s.mutate(func() error {
		if err := s.store.ReplaceTable(t); err != nil {
			return err
		}
		s.playback.Stop()
		if metric != "" {
			s.metric = metric
		}
		return nil
	})
}

// Import decodes r and, on success, replaces the table. On failure the
// session is left exactly as it was.
func (s *Session) Import(r io.Reader) (Frame, DecodeReport, error) {
	table, report, err := Decode(r)
	if err != nil {
		return s.Frame(), report, fmt.Errorf("import: %w", err)
	}

	frame, err := s.mutate(func() error {
		if err := s.store.ReplaceTable(table); err != nil {
			return err
		}
		s.playback.Stop()
		s.metric = UploadedMetric
		s.header = report.LabelHeader
		s.format = nil
		return nil
	})
	return frame, report, err
}

// ExportCSV writes the current table in import format.
func (s *Session) ExportCSV(w io.Writer) error {
	s.mu.Lock()
	table := s.store.Table()
	header, format := s.header, s.format
	s.mu.Unlock()

	return Encode(w, table, header, format)
}

// Subscribe registers for frames. The current frame is delivered first.
// Slow subscribers miss frames rather than block playback. The channel is
// closed by the returned cancel func or when the session closes.
func (s *Session) Subscribe() (<-chan Frame, func()) {
	ch := make(chan Frame, 16)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		close(ch)
		return ch, func() {}
	}

	s.listenerMu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = ch
	ch <- s.frameLocked()
	s.listenerMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.listenerMu.Lock()
			defer s.listenerMu.Unlock()
			if c, ok := s.listeners[id]; ok {
				delete(s.listeners, id)
				close(c)
			}
		})
	}
}

// SubscriberCount returns the number of live subscribers.
func (s *Session) SubscriberCount() int {
	s.listenerMu.Lock()
	defer s.listenerMu.Unlock()
	return len(s.listeners)
}

// Close stops playback, cancelling the timer, and closes all subscribers.
// It is safe to call more than once.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.playback.Stop()
	s.mu.Unlock()

	s.listenerMu.Lock()
	defer s.listenerMu.Unlock()
	for id, ch := range s.listeners {
		close(ch)
		delete(s.listeners, id)
	}
}

// Closed reports whether Close has been called.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// mutate runs fn under the session lock and publishes the resulting frame.
func (s *Session) mutate(fn func() error) (Frame, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return Frame{}, ErrSessionClosed
	}
	if err := fn(); err != nil {
		frame := s.frameLocked()
		s.mu.Unlock()
		return frame, err
	}
	s.lastActive = time.Now()
	s.version++
	frame := s.frameLocked()
	s.publish(frame)
	s.mu.Unlock()

	return frame, nil
}

// onTick is the Playback dispatcher: it runs a tick under the session lock.
func (s *Session) onTick(gen uint64) {
	s.mu.Lock()
	if s.closed || !s.playback.Tick(gen) {
		s.mu.Unlock()
		return
	}
	s.version++
	s.publish(s.frameLocked())
	s.mu.Unlock()
}

// publish fans frame out to subscribers. Callers hold s.mu so frames are
// delivered in version order.
func (s *Session) publish(frame Frame) {
	s.listenerMu.Lock()
	defer s.listenerMu.Unlock()

	for _, ch := range s.listeners {
		select {
		case ch <- frame:
		default:
			// Listener is slow, skip this frame
		}
	}
}

func (s *Session) frameLocked() Frame {
	table := s.store.Table()
	idx := s.store.StepIndex()

	var stepLabel string
	if idx >= 0 && idx < len(table.StepLabels) {
		stepLabel = table.StepLabels[idx]
	}

	labels := make([]string, len(table.Rows))
	for i, r := range table.Rows {
		labels[i] = r.Label
	}

	return Frame{
		SessionID:  s.id,
		Version:    s.version,
		Metric:     s.metric,
		StepIndex:  idx,
		StepLabel:  stepLabel,
		StepCount:  table.StepCount(),
		StepLabels: table.StepLabels,
		Playing:    s.playback.Playing(),
		IntervalMs: int(s.playback.Interval() / time.Millisecond),
		MaxValue:   MaxValue(table),
		Rows:       Rank(table, idx),
		Labels:     labels,
	}
}
