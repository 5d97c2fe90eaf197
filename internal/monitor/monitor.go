// Package monitor aggregates rider-latency statistics over a simulation
// run, grounded in original_source's on_exit hook (fired when a rider is
// dropped off) and wired here through domain.Request.Hooks.OnExit
// (spec.md §6's Monitor collaborator).
package monitor

import (
	"sync"

	"github.com/nkuranov/elevsim/internal/domain"
	"github.com/nkuranov/elevsim/internal/metrics"
	"github.com/nkuranov/elevsim/internal/sim"
)

// Sample is one completed trip's timing breakdown.
type Sample struct {
	Wait  sim.Time
	Trip  sim.Time
	Total sim.Time
}

// Monitor accumulates Samples as requests complete. Safe for concurrent
// Hooks callbacks even though the simulator itself is single-threaded, so
// that a Monitor can also be read from an HTTP status handler running on
// a real goroutine outside the simulation.
type Monitor struct {
	mu      sync.Mutex
	samples []Sample
}

// New creates an empty Monitor.
func New() *Monitor {
	return &Monitor{}
}

// Hooks returns a domain.Hooks whose OnExit records a completed trip.
// Wire this into every request a workload driver creates.
func (m *Monitor) Hooks() domain.Hooks {
	return domain.Hooks{
		OnExit: func(r *domain.Request, at sim.Time) {
			wait := r.WaitDuration()
			m.mu.Lock()
			m.samples = append(m.samples, Sample{
				Wait:  wait,
				Trip:  r.TripDuration(),
				Total: r.TotalDuration(),
			})
			m.mu.Unlock()
			metrics.ObserveRequestWait(float64(wait))
		},
	}
}

// Count returns the number of completed trips recorded so far.
func (m *Monitor) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.samples)
}

// MeanWait returns the mean wait time across all completed trips, or 0 if
// none have completed.
func (m *Monitor) MeanWait() sim.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.samples) == 0 {
		return 0
	}
	var total sim.Time
	for _, s := range m.samples {
		total += s.Wait
	}
	return total / sim.Time(len(m.samples))
}

// MeanTotal returns the mean door-to-door time across all completed
// trips, or 0 if none have completed.
func (m *Monitor) MeanTotal() sim.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.samples) == 0 {
		return 0
	}
	var total sim.Time
	for _, s := range m.samples {
		total += s.Total
	}
	return total / sim.Time(len(m.samples))
}

// Samples returns a copy of every recorded sample, in completion order.
func (m *Monitor) Samples() []Sample {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Sample, len(m.samples))
	copy(out, m.samples)
	return out
}

// OnDispatch satisfies controller.Monitor; the latency Monitor has no use
// for per-decision notifications, so this is a no-op.
func (m *Monitor) OnDispatch(elevatorName string, action domain.Action, at sim.Time) {}

// OnArrive satisfies controller.Monitor; per-arrival dispatch telemetry is
// handled by internal/metrics, not by the latency aggregator.
func (m *Monitor) OnArrive(elevatorName string, floor domain.Floor, at sim.Time) {}
