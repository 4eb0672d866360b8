package core

import "time"

// PlayState is the playback state machine's state.
type PlayState string

const (
	Stopped PlayState = "stopped"
	Playing PlayState = "playing"
)

// Tick interval bounds. Requested intervals are clamped into this range.
const (
	MinTickInterval     = 50 * time.Millisecond
	MaxTickInterval     = 1000 * time.Millisecond
	DefaultTickInterval = MaxTickInterval
	TickIntervalStep    = 50 * time.Millisecond
)

// ClampInterval clamps d to [MinTickInterval, MaxTickInterval].
func ClampInterval(d time.Duration) time.Duration {
	if d < MinTickInterval {
		return MinTickInterval
	}
	if d > MaxTickInterval {
		return MaxTickInterval
	}
	return d
}

// ClampIntervalMs clamps a millisecond count into the tick interval range.
func ClampIntervalMs(ms int) time.Duration {
	return ClampInterval(time.Duration(ms) * time.Millisecond)
}

// Playback advances a Store's step index on a timer.
//
// It owns exactly one Timer. Every transition into Stopped cancels it, and
// each schedule is tagged with a generation so a tick that was already in
// flight when playback stopped is ignored.
//
// Playback is not safe for concurrent use. Owners that run ticks on another
// goroutine install a dispatcher with SetDispatcher that takes their lock and
// then calls Tick.
type Playback struct {
	store    *Store
	timer    Timer
	state    PlayState
	interval time.Duration
	gen      uint64
	dispatch func(gen uint64)
}

// NewPlayback creates a stopped Playback over store.
func NewPlayback(store *Store, timer Timer, interval time.Duration) *Playback {
	if interval == 0 {
		interval = DefaultTickInterval
	}
	return &Playback{
		store:    store,
		timer:    timer,
		state:    Stopped,
		interval: ClampInterval(interval),
	}
}

// SetDispatcher routes timer ticks through fn instead of calling Tick
// directly. fn must eventually call Tick(gen).
func (p *Playback) SetDispatcher(fn func(gen uint64)) {
	p.dispatch = fn
}

// State returns the current state.
func (p *Playback) State() PlayState {
	return p.state
}

// Playing reports whether the state is Playing.
func (p *Playback) Playing() bool {
	return p.state == Playing
}

// Interval returns the tick interval.
func (p *Playback) Interval() time.Duration {
	return p.interval
}

// Toggle is the play/pause control. From Stopped it starts playing unless the
// index is already terminal, in which case nothing happens. From Playing it
// stops. It reports whether the state changed.
func (p *Playback) Toggle() bool {
	if p.state == Playing {
		p.stop()
		return true
	}
	if p.store.StepIndex() >= p.store.LastIndex() {
		return false
	}
	p.start()
	return true
}

// Tick advances one step. It is a no-op unless playing under generation gen.
// At the terminal index it stops without advancing; an advance that lands on
// the terminal index stops in the same transition. It reports whether
// anything changed.
func (p *Playback) Tick(gen uint64) bool {
	if p.state != Playing || gen != p.gen {
		return false
	}

	last := p.store.LastIndex()
	idx := p.store.StepIndex()
	if idx >= last {
		p.stop()
		return true
	}

	idx++
	p.store.setStepIndex(idx)
	if idx >= last {
		p.stop()
	}
	return true
}

// Generation returns the current schedule generation.
func (p *Playback) Generation() uint64 {
	return p.gen
}

// Reset stops playback and rewinds to step 0.
func (p *Playback) Reset() {
	p.stop()
	p.store.setStepIndex(0)
}

// SetTickInterval clamps and applies a new interval in milliseconds. While
// playing the timer is restarted so the next tick uses it.
func (p *Playback) SetTickInterval(ms int) time.Duration {
	p.interval = ClampIntervalMs(ms)
	if p.state == Playing {
		p.start()
	}
	return p.interval
}

// Stop moves to Stopped from any state. It is how owners tear playback down.
func (p *Playback) Stop() {
	p.stop()
}

func (p *Playback) start() {
	p.timer.Cancel()
	p.gen++
	gen := p.gen
	p.state = Playing
	p.timer.Start(p.interval, func() {
		if p.dispatch != nil {
			p.dispatch(gen)
			return
		}
		p.Tick(gen)
	})
}

func (p *Playback) stop() {
	p.gen++
	p.timer.Cancel()
	p.state = Stopped
}
