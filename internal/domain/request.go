package domain

import (
	"sync/atomic"

	"github.com/nkuranov/elevsim/internal/sim"
)

var requestSeq uint64

// NextRequestName returns a monotonically increasing identifier used to
// name requests in the order they are created, independent of the
// simulated clock (spec.md §3's "name" field).
func NextRequestName() uint64 {
	return atomic.AddUint64(&requestSeq, 1)
}

// Hooks are optional callbacks a workload driver or monitor can attach to a
// Request to observe it crossing the three lifecycle boundaries the
// original simulation instruments: queued-and-waiting, picked up, and
// dropped off. Any of the three may be nil.
type Hooks struct {
	// OnWait fires once, when the request is created and starts waiting
	// for an elevator.
	OnWait func(r *Request, at sim.Time)
	// OnEnter fires when the elevator arrives and the rider boards.
	OnEnter func(r *Request, at sim.Time)
	// OnExit fires when the rider is dropped off at End.
	OnExit func(r *Request, at sim.Time)
}

// Request is a single rider's trip from Start to End (spec.md §3).
type Request struct {
	Name  uint64
	Start Floor
	End   Floor

	// WaitStart is the simulated time the request was created.
	WaitStart sim.Time
	// EnterTime is the simulated time the rider boarded, zero until set.
	EnterTime sim.Time
	// ExitTime is the simulated time the rider was dropped off, zero
	// until set.
	ExitTime sim.Time

	Hooks Hooks
}

// NewRequest creates a Request for a trip from start to end, firing
// OnWait immediately if set.
func NewRequest(start, end Floor, at sim.Time, hooks Hooks) *Request {
	r := &Request{
		Name:      NextRequestName(),
		Start:     start,
		End:       end,
		WaitStart: at,
		Hooks:     hooks,
	}
	if r.Hooks.OnWait != nil {
		r.Hooks.OnWait(r, at)
	}
	return r
}

// Direction is the direction of travel this request implies.
func (r *Request) Direction() Direction {
	return DirectionOf(r.Start, r.End)
}

// Enter records boarding at time at and fires OnEnter.
func (r *Request) Enter(at sim.Time) {
	r.EnterTime = at
	if r.Hooks.OnEnter != nil {
		r.Hooks.OnEnter(r, at)
	}
}

// Exit records drop-off at time at and fires OnExit.
func (r *Request) Exit(at sim.Time) {
	r.ExitTime = at
	if r.Hooks.OnExit != nil {
		r.Hooks.OnExit(r, at)
	}
}

// WaitDuration is the time spent waiting before boarding.
func (r *Request) WaitDuration() sim.Time {
	return r.EnterTime - r.WaitStart
}

// TripDuration is the time spent on board, from boarding to drop-off.
func (r *Request) TripDuration() sim.Time {
	return r.ExitTime - r.EnterTime
}

// TotalDuration is the full door-to-door time, from creation to drop-off.
func (r *Request) TotalDuration() sim.Time {
	return r.ExitTime - r.WaitStart
}
