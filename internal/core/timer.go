package core

import (
	"sync"
	"time"
)

// Timer is a repeating timer owned by a single Playback.
//
// Start begins calling onTick every interval, replacing any schedule already
// running. Cancel stops it; once Cancel returns no new onTick call starts.
// A callback already running when Cancel is called may still finish, so
// owners must also discard stale ticks (Playback does this by generation).
type Timer interface {
	Start(interval time.Duration, onTick func())
	Cancel()
}

// TickerTimer is a Timer backed by time.Ticker.
type TickerTimer struct {
	mu   sync.Mutex
	stop chan struct{}
}

// NewTickerTimer creates an idle TickerTimer.
func NewTickerTimer() *TickerTimer {
	return &TickerTimer{}
}

// Start implements Timer.
func (t *TickerTimer) Start(interval time.Duration, onTick func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cancelLocked()

	stop := make(chan struct{})
	t.stop = stop
	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				// Re-check: select picks randomly when both are ready.
				select {
				case <-stop:
					return
				default:
				}
				onTick()
			}
		}
	}()
}

// Cancel implements Timer.
func (t *TickerTimer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelLocked()
}

// Active reports whether a schedule is running.
func (t *TickerTimer) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stop != nil
}

func (t *TickerTimer) cancelLocked() {
	if t.stop != nil {
		close(t.stop)
		t.stop = nil
	}
}

// ManualTimer is a Timer that only fires when told to. It records how it
// was driven so tests can assert on timer ownership.
type ManualTimer struct {
	mu       sync.Mutex
	onTick   func()
	interval time.Duration
	starts   int
	cancels  int
	overlaps int
}

// NewManualTimer creates an idle ManualTimer.
func NewManualTimer() *ManualTimer {
	return &ManualTimer{}
}

// Start implements Timer.
func (m *ManualTimer) Start(interval time.Duration, onTick func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.onTick != nil {
		m.overlaps++
	}
	m.onTick = onTick
	m.interval = interval
	m.starts++
}

// Cancel implements Timer.
func (m *ManualTimer) Cancel() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.onTick != nil {
		m.cancels++
	}
	m.onTick = nil
}

// Fire runs one tick and reports whether the timer was active.
func (m *ManualTimer) Fire() bool {
	m.mu.Lock()
	fn := m.onTick
	m.mu.Unlock()
	if fn == nil {
		return false
	}
	fn()
	return true
}

// Active reports whether a schedule is running.
func (m *ManualTimer) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.onTick != nil
}

// Interval returns the interval of the current or last schedule.
func (m *ManualTimer) Interval() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.interval
}

// Starts returns how many times Start was called.
func (m *ManualTimer) Starts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.starts
}

// Overlaps returns how many times Start was called while already active.
func (m *ManualTimer) Overlaps() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.overlaps
}
