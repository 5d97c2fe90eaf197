package controller

import (
	"fmt"
	"sync"
	"time"
)

// circuitBreakerState is the state of a circuit breaker.
type circuitBreakerState int

const (
	stateClosed circuitBreakerState = iota
	stateOpen
	stateHalfOpen
)

// circuitBreaker guards the Controller's new_request ingress path: if
// enough consecutive new_request calls are rejected as invalid (bad floor,
// same start/end), it trips open and fails fast instead of continuing to
// validate doomed requests from a misbehaving workload driver.
type circuitBreaker struct {
	mu           sync.Mutex
	state        circuitBreakerState
	failureCount int
	successCount int
	nextRetry    time.Time

	maxFailures   int
	resetTimeout  time.Duration
	halfOpenLimit int
}

func newCircuitBreaker(maxFailures int, resetTimeout time.Duration, halfOpenLimit int) *circuitBreaker {
	return &circuitBreaker{
		state:         stateClosed,
		maxFailures:   maxFailures,
		resetTimeout:  resetTimeout,
		halfOpenLimit: halfOpenLimit,
	}
}

// Execute runs operation if the breaker currently allows requests,
// recording the outcome against the breaker's state.
func (cb *circuitBreaker) Execute(operation func() error) error {
	if !cb.allowRequest() {
		return fmt.Errorf("controller: circuit breaker open, rejecting new_request")
	}

	err := operation()
	if err != nil {
		cb.recordFailure()
		return err
	}
	cb.recordSuccess()
	return nil
}

func (cb *circuitBreaker) allowRequest() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case stateClosed:
		return true
	case stateOpen:
		if time.Now().After(cb.nextRetry) {
			cb.state = stateHalfOpen
			cb.successCount = 0
			return true
		}
		return false
	case stateHalfOpen:
		return cb.successCount < cb.halfOpenLimit
	default:
		return false
	}
}

func (cb *circuitBreaker) recordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failureCount = 0
	if cb.state == stateHalfOpen {
		cb.successCount++
		if cb.successCount >= cb.halfOpenLimit {
			cb.state = stateClosed
		}
	}
}

func (cb *circuitBreaker) recordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failureCount++
	if cb.state == stateHalfOpen {
		cb.state = stateOpen
		cb.nextRetry = time.Now().Add(cb.resetTimeout)
	} else if cb.failureCount >= cb.maxFailures {
		cb.state = stateOpen
		cb.nextRetry = time.Now().Add(cb.resetTimeout)
	}
}

// State returns the current breaker state, for health/metrics reporting.
func (cb *circuitBreaker) State() circuitBreakerState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}
