package resilience

import (
	"errors"
	"sync"
	"time"
)

var (
	ErrCircuitOpen     = errors.New("circuit breaker is open")
	ErrTooManyRequests = errors.New("too many requests")
)

// State represents the circuit breaker state
type State int

const (
	StateClosed State = iota
	StateHalfOpen
	StateOpen
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateHalfOpen:
		return "half-open"
	case StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// Settings configures the circuit breaker behavior
type Settings struct {
	// MaxFailures is the number of consecutive failures that opens the circuit
	MaxFailures uint32
	// Cooldown is how long the circuit stays open before a probe is allowed
	Cooldown time.Duration
	// OnStateChange is called whenever the state changes
	OnStateChange func(name string, from State, to State)
	// Now overrides the clock, for tests
	Now func() time.Time
}

// Counts holds the statistics for the circuit breaker
type Counts struct {
	Requests            uint32
	Successes           uint32
	Failures            uint32
	ConsecutiveFailures uint32
}

// Breaker implements the circuit breaker pattern. It never retries; a
// rejected call fails immediately with ErrCircuitOpen.
type Breaker struct {
	name     string
	settings Settings

	mu       sync.Mutex
	state    State
	counts   Counts
	openedAt time.Time
	probing  bool
}

// New creates a new circuit breaker with the given settings
func New(name string, settings Settings) *Breaker {
	if settings.MaxFailures == 0 {
		settings.MaxFailures = 5
	}
	if settings.Cooldown == 0 {
		settings.Cooldown = 30 * time.Second
	}
	if settings.Now == nil {
		settings.Now = time.Now
	}

	return &Breaker{
		name:     name,
		settings: settings,
		state:    StateClosed,
	}
}

// Name returns the name of the circuit breaker
func (b *Breaker) Name() string {
	return b.name
}

// State returns the current state of the circuit breaker
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refresh()
	return b.state
}

// Counts returns a copy of the internal counts
func (b *Breaker) Counts() Counts {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.counts
}

// Execute runs fn through the breaker.
func Execute[T any](b *Breaker, fn func() (T, error)) (T, error) {
	var zero T
	if b == nil {
		return fn()
	}

	if err := b.before(); err != nil {
		return zero, err
	}

	success := false
	defer func() {
		b.after(success)
	}()

	result, err := fn()
	success = err == nil
	return result, err
}

func (b *Breaker) before() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refresh()
	switch b.state {
	case StateOpen:
		return ErrCircuitOpen
	case StateHalfOpen:
		if b.probing {
			return ErrTooManyRequests
		}
		b.probing = true
	}

	b.counts.Requests++
	return nil
}

func (b *Breaker) after(success bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if success {
		b.counts.Successes++
		b.counts.ConsecutiveFailures = 0
		if b.state == StateHalfOpen {
			b.setState(StateClosed)
		}
		return
	}

	b.counts.Failures++
	b.counts.ConsecutiveFailures++
	switch b.state {
	case StateHalfOpen:
		b.setState(StateOpen)
	case StateClosed:
		if b.counts.ConsecutiveFailures >= b.settings.MaxFailures {
			b.setState(StateOpen)
		}
	}
}

// refresh moves an open breaker to half-open once the cooldown elapsed.
// Caller holds mu.
func (b *Breaker) refresh() {
	if b.state == StateOpen && !b.settings.Now().Before(b.openedAt.Add(b.settings.Cooldown)) {
		b.setState(StateHalfOpen)
	}
}

// setState changes the state. Caller holds mu.
func (b *Breaker) setState(state State) {
	if b.state == state {
		return
	}

	prev := b.state
	b.state = state
	b.probing = false

	switch state {
	case StateOpen:
		b.openedAt = b.settings.Now()
	case StateClosed:
		b.counts = Counts{}
	}

	if b.settings.OnStateChange != nil {
		b.settings.OnStateChange(b.name, prev, state)
	}
}
