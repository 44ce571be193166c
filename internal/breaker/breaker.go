// Package breaker implements a per-endpoint circuit breaker.
//
// The breaker trips Open after a run of consecutive failures, rejects every
// call while Open, and after a cooldown admits exactly one trial call
// (HalfOpen). A successful trial closes the breaker; a failed trial reopens
// it and restarts the cooldown clock.
package breaker

import (
	"errors"
	"sync"
	"time"
)

// State is the breaker phase.
type State int

const (
	// Closed is the normal operating state. Calls flow through.
	Closed State = iota

	// Open is the tripped state. Calls are rejected immediately.
	Open

	// HalfOpen admits a single trial call after the cooldown.
	HalfOpen
)

// String returns the lowercase name of the state.
func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case HalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrOpen is returned by Allow while the breaker is rejecting calls.
var ErrOpen = errors.New("circuit open")

// Condition decides whether an error counts as a failure. Errors for which
// the condition returns false are recorded as successes.
type Condition func(error) bool

// OnStateChangeFunc is invoked after every state transition.
type OnStateChangeFunc func(name string, from, to State)

// Default tuning; endpoints override via options.
const (
	DefaultThreshold = 5
	DefaultCooldown  = 60 * time.Second
)

// Breaker is a circuit breaker for one logical endpoint. Safe for
// concurrent use; all state is guarded by a single mutex so there is one
// logical writer at a time.
type Breaker struct {
	name string
	cfg  config

	mu       sync.Mutex
	state    State
	failures int
	trial    bool // a half-open trial is in flight
	openedAt time.Time
}

// Snapshot is a point-in-time view of breaker state, for diagnostics.
type Snapshot struct {
	Endpoint  string    `json:"endpoint"`
	State     string    `json:"state"`
	Failures  int       `json:"failures"`
	Threshold int       `json:"threshold"`
	Cooldown  string    `json:"cooldown"`
	OpenedAt  time.Time `json:"openedAt,omitempty"`
}

// New creates a Breaker named after its endpoint.
func New(name string, opts ...Option) *Breaker {
	cfg := config{
		threshold: DefaultThreshold,
		cooldown:  DefaultCooldown,
		condition: func(err error) bool { return err != nil },
		clock:     realClock{},
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Breaker{name: name, cfg: cfg, state: Closed}
}

// Allow reports whether a call may proceed. It returns ErrOpen while the
// breaker is Open and the cooldown has not elapsed, or while a half-open
// trial is already in flight. A nil return in HalfOpen claims the single
// trial slot; the caller must follow up with Record.
func (b *Breaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.currentState() {
	case Open:
		return ErrOpen
	case HalfOpen:
		if b.trial {
			return ErrOpen
		}
		b.trial = true
	}
	return nil
}

// Record reports the outcome of an admitted call. err is the classified
// outcome (nil on success); the configured Condition decides whether it
// counts as a failure.
func (b *Breaker) Record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	failed := b.cfg.condition(err)

	switch b.currentState() {
	case Closed:
		if failed {
			b.failures++
			if b.failures >= b.cfg.threshold {
				b.setState(Open)
			}
		} else {
			b.failures = 0
		}
	case HalfOpen:
		b.trial = false
		if failed {
			b.setState(Open)
		} else {
			b.setState(Closed)
		}
	}
}

// State returns the current state, accounting for cooldown expiry.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.currentState()
}

// Name returns the endpoint name.
func (b *Breaker) Name() string { return b.name }

// Snapshot returns the current state and counters.
func (b *Breaker) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := Snapshot{
		Endpoint:  b.name,
		State:     b.currentState().String(),
		Failures:  b.failures,
		Threshold: b.cfg.threshold,
		Cooldown:  b.cfg.cooldown.String(),
	}
	if b.state != Closed {
		s.OpenedAt = b.openedAt
	}
	return s
}

// Reset forces the breaker back to Closed.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.setState(Closed)
}

// currentState lazily moves Open to HalfOpen once the cooldown elapses.
// Callers must hold b.mu.
func (b *Breaker) currentState() State {
	if b.state == Open && b.cfg.clock.Now().Sub(b.openedAt) >= b.cfg.cooldown {
		b.setState(HalfOpen)
	}
	return b.state
}

// setState transitions and fires the state-change hook. Callers must hold
// b.mu.
func (b *Breaker) setState(to State) {
	if b.state == to {
		return
	}
	from := b.state
	b.state = to

	b.trial = false
	if to == Closed {
		b.failures = 0
	}
	if to == Open {
		b.openedAt = b.cfg.clock.Now()
	}

	if b.cfg.onStateChange != nil {
		b.cfg.onStateChange(b.name, from, to)
	}
}
