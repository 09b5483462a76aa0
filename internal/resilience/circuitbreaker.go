// Package resilience provides the retry schedule and circuit breaker used by
// the model gateway to protect remote model tiers.
//
// [Breaker] is a three-state breaker (closed → open → half-open) guarding a
// single model tier. Only errors that the configured predicate classifies as
// tier failures count towards tripping; everything else passes through
// without affecting the breaker. [Backoff] computes the exponential delay
// between gateway attempts.
//
// All types are safe for concurrent use.
package resilience

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ErrCircuitOpen is returned by [Breaker.Execute] when the breaker rejects a
// call without running it.
var ErrCircuitOpen = errors.New("resilience: circuit open")

// State represents the current operating mode of a [Breaker].
type State int

const (
	// StateClosed forwards every call.
	StateClosed State = iota

	// StateOpen rejects calls with [ErrCircuitOpen] until the cooldown
	// elapses.
	StateOpen

	// StateHalfOpen lets a bounded number of trial calls through. A failed
	// trial re-opens the breaker; enough successful trials close it.
	StateHalfOpen
)

// String returns the human-readable name of the state.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// BreakerConfig holds tuning knobs for a [Breaker].
type BreakerConfig struct {
	// Name labels the breaker in logs and state-change callbacks, typically
	// the tier name.
	Name string

	// MaxFailures is the number of consecutive counted failures that opens a
	// closed breaker. Default: 5.
	MaxFailures int

	// Cooldown is how long the breaker stays open before allowing trials.
	// Default: 30s.
	Cooldown time.Duration

	// HalfOpenMax is the number of successful trials required to close the
	// breaker again. Default: 1.
	HalfOpenMax int

	// IsFailure decides whether an error returned by the guarded call counts
	// against the breaker. Nil counts every non-nil error.
	IsFailure func(error) bool

	// OnStateChange, when set, is called after every transition. It runs with
	// the breaker's lock released.
	OnStateChange func(name string, from, to State)

	// Now overrides the clock. Nil uses time.Now.
	Now func() time.Time
}

// Breaker implements the three-state circuit breaker pattern.
type Breaker struct {
	cfg BreakerConfig

	mu        sync.Mutex
	state     State
	failures  int
	openedAt  time.Time
	trials    int
	trialWins int
}

// NewBreaker creates a [Breaker]. Zero-value config fields are replaced with
// defaults.
func NewBreaker(cfg BreakerConfig) *Breaker {
	if cfg.MaxFailures <= 0 {
		cfg.MaxFailures = 5
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 30 * time.Second
	}
	if cfg.HalfOpenMax <= 0 {
		cfg.HalfOpenMax = 1
	}
	if cfg.IsFailure == nil {
		cfg.IsFailure = func(err error) bool { return err != nil }
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Breaker{cfg: cfg, state: StateClosed}
}

// Name returns the configured breaker name.
func (b *Breaker) Name() string { return b.cfg.Name }

// Execute runs fn if the breaker admits the call and records the outcome.
// The error returned by fn is passed through unchanged.
func (b *Breaker) Execute(fn func() error) error {
	trial, changed, err := b.admit()
	b.notify(changed)
	if err != nil {
		return err
	}

	callErr := fn()

	b.notify(b.record(trial, callErr))
	return callErr
}

// transition describes a state change to report once the lock is released.
type transition struct {
	from, to State
	ok       bool
}

func (b *Breaker) admit() (trial bool, t transition, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateOpen:
		if b.cfg.Now().Sub(b.openedAt) < b.cfg.Cooldown {
			return false, t, ErrCircuitOpen
		}
		t = b.setState(StateHalfOpen)
		b.trials, b.trialWins = 0, 0
	case StateHalfOpen:
		if b.trials >= b.cfg.HalfOpenMax {
			return false, t, ErrCircuitOpen
		}
	}
	if b.state == StateHalfOpen {
		b.trials++
		return true, t, nil
	}
	return false, t, nil
}

func (b *Breaker) record(trial bool, err error) transition {
	b.mu.Lock()
	defer b.mu.Unlock()

	failed := err != nil && b.cfg.IsFailure(err)
	switch {
	case failed && trial:
		b.openedAt = b.cfg.Now()
		return b.setState(StateOpen)
	case failed:
		b.failures++
		if b.state == StateClosed && b.failures >= b.cfg.MaxFailures {
			b.openedAt = b.cfg.Now()
			return b.setState(StateOpen)
		}
	case err != nil:
		// Not a tier failure: release the trial slot without a verdict.
		if trial {
			b.trials--
		}
	case trial:
		b.trialWins++
		if b.trialWins >= b.cfg.HalfOpenMax {
			b.failures = 0
			return b.setState(StateClosed)
		}
	default:
		b.failures = 0
	}
	return transition{}
}

// setState must be called with b.mu held.
func (b *Breaker) setState(to State) transition {
	from := b.state
	if from == to {
		return transition{}
	}
	b.state = to
	return transition{from: from, to: to, ok: true}
}

func (b *Breaker) notify(t transition) {
	if !t.ok {
		return
	}
	lvl := slog.LevelInfo
	if t.to == StateOpen {
		lvl = slog.LevelWarn
	}
	slog.Log(context.Background(), lvl, "circuit breaker state change",
		"name", b.cfg.Name, "from", t.from.String(), "to", t.to.String())
	if b.cfg.OnStateChange != nil {
		b.cfg.OnStateChange(b.cfg.Name, t.from, t.to)
	}
}

// State returns the current state. An open breaker whose cooldown has elapsed
// reports [StateHalfOpen]; the transition itself happens on the next
// [Breaker.Execute].
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateOpen && b.cfg.Now().Sub(b.openedAt) >= b.cfg.Cooldown {
		return StateHalfOpen
	}
	return b.state
}

// Reset forces the breaker back to [StateClosed] and clears its counters.
func (b *Breaker) Reset() {
	b.mu.Lock()
	t := b.setState(StateClosed)
	b.failures, b.trials, b.trialWins = 0, 0, 0
	b.mu.Unlock()
	b.notify(t)
}
