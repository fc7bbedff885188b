package resilience

import (
	"errors"
	"sync"
	"time"
)

// ErrCircuitOpen is returned without invoking the wrapped call while the
// breaker is open.
var ErrCircuitOpen = errors.New("circuit breaker is open")

type breakerState int

const (
	stateClosed breakerState = iota
	stateOpen
	stateHalfOpen
)

// CircuitBreaker guards an upstream dependency. Consecutive failures trip it
// open; after OpenTimeout a limited number of probe calls decide whether it
// closes again. A disabled breaker passes every call through.
type CircuitBreaker struct {
	cfg BreakerConfig
	now func() time.Time

	mu            sync.Mutex
	state         breakerState
	failures      int
	openedAt      time.Time
	halfOpenCalls int
}

func NewCircuitBreaker(cfg BreakerConfig) *CircuitBreaker {
	return &CircuitBreaker{
		cfg: cfg.Normalize(),
		now: time.Now,
	}
}

// Execute runs fn under the breaker policy. The error from fn is returned
// unchanged so callers keep their own classification.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	if cb == nil || !cb.cfg.Enabled {
		return fn()
	}

	if err := cb.acquire(); err != nil {
		return err
	}

	err := fn()
	cb.record(err == nil)
	return err
}

func (cb *CircuitBreaker) acquire() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case stateClosed:
		return nil
	case stateOpen:
		if cb.now().Sub(cb.openedAt) < cb.cfg.OpenTimeout {
			return ErrCircuitOpen
		}
		cb.state = stateHalfOpen
		cb.halfOpenCalls = 0
		fallthrough
	case stateHalfOpen:
		if cb.halfOpenCalls >= cb.cfg.HalfOpenMaxCalls {
			return ErrCircuitOpen
		}
		cb.halfOpenCalls++
		return nil
	default:
		return nil
	}
}

func (cb *CircuitBreaker) record(success bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if success {
		cb.state = stateClosed
		cb.failures = 0
		return
	}

	switch cb.state {
	case stateHalfOpen:
		cb.trip()
	case stateClosed:
		cb.failures++
		if cb.failures >= cb.cfg.FailureThreshold {
			cb.trip()
		}
	}
}

func (cb *CircuitBreaker) trip() {
	cb.state = stateOpen
	cb.failures = 0
	cb.openedAt = cb.now()
}
