// Package controller implements the dispatch loop: one cooperative
// sim.Process per elevator, each repeatedly asking a Policy what to do
// next and executing Stop/Move/Arrive against the shared Building and its
// own Elevator state (spec.md §4.4). It is grounded in the teacher's
// internal/manager/manager.go for the overall "own one elevator's
// decision loop, serialize access to shared state" shape, with the
// circuit breaker (internal/elevator/circuit_breaker.go) repurposed to
// guard NewRequest instead of a wall-clock Run call.
package controller

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/nkuranov/elevsim/internal/building"
	"github.com/nkuranov/elevsim/internal/domain"
	"github.com/nkuranov/elevsim/internal/elevatormodel"
	"github.com/nkuranov/elevsim/internal/metrics"
	"github.com/nkuranov/elevsim/internal/sim"
)

// Timing holds the duration constants named in spec.md §6.
type Timing struct {
	Velocity sim.Time // time to traverse one floor at cruising speed
	Accel    sim.Time // acceleration/deceleration time when starting or stopping
	Door     sim.Time // time for doors to fully open, or fully close
	DoorWait sim.Time // dwell time doors stay open once no one is boarding/alighting
	Person   sim.Time // time for one rider to board or alight
}

// Monitor observes dispatch-level events for metrics/telemetry; all
// methods are optional notification points and Controller tolerates a nil
// Monitor.
type Monitor interface {
	OnDispatch(elevatorName string, action domain.Action, at sim.Time)
	OnArrive(elevatorName string, floor domain.Floor, at sim.Time)
}

// Controller owns the shared Building and the fleet of Elevators, and
// drives each elevator's dispatch loop as a sim.Process.
type Controller struct {
	Sim       *sim.Simulator
	Building  *building.Building
	Elevators []*elevatormodel.Elevator

	policy     Policy
	timing     Timing
	breaker    *circuitBreaker
	monitor    Monitor
	logger     *slog.Logger
	processes  []*sim.Process

	// workAvailable wakes every idle elevator process whenever NewRequest
	// admits a request, lit hall button or not, so they can re-run the policy without
	// polling (spec.md §4.4.5's new_request protocol).
	workAvailable *sim.Event
}

// New builds a Controller over floorCount floors and the given elevators,
// using policy to make dispatch decisions. policy defaults to
// NearestFloorPolicy if nil.
func New(s *sim.Simulator, floorCount int, elevators []*elevatormodel.Elevator, timing Timing, policy Policy, monitor Monitor, logger *slog.Logger) *Controller {
	if policy == nil {
		policy = NearestFloorPolicy{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	c := &Controller{
		Sim:           s,
		Building:      building.New(floorCount),
		Elevators:     elevators,
		policy:        policy,
		timing:        timing,
		breaker:       newCircuitBreaker(5, 2*time.Second, 2),
		monitor:       monitor,
		logger:        logger,
		processes:     make([]*sim.Process, len(elevators)),
		workAvailable: s.NewEvent(),
	}
	return c
}

// Start spawns one dispatch process per elevator. Call once before the
// simulator's Run.
func (c *Controller) Start() {
	for i := range c.Elevators {
		idx := i
		c.processes[idx] = c.Sim.Spawn(func(ctx *sim.Context) {
			c.runElevator(ctx, c.Elevators[idx])
		})
	}
}

// NewRequest admits a rider's trip into the system: validates it, enqueues
// it behind the appropriate hall call, decides via needsButton whether to
// light the hall button (or instead redirect an elevator already
// positioned to serve it), and wakes any idle elevator to reconsider its
// next move (spec.md §4.4.5). Validation failures are routed through the
// circuit breaker so a misbehaving workload driver that keeps producing
// invalid requests gets failed fast instead of hammering validation.
func (c *Controller) NewRequest(req *domain.Request) error {
	err := c.breaker.Execute(func() error {
		if err := domain.ValidateFloorRange(req.Start, req.End, c.Building.FloorCount()); err != nil {
			return err
		}
		dir := req.Direction()
		switch dir {
		case domain.DirectionUp:
			c.Building.EnqueueUp(req)
		case domain.DirectionDown:
			c.Building.EnqueueDown(req)
		default:
			return domain.ErrSameFloor
		}
		if c.needsButton(dir, req.Start) {
			c.setButton(dir, req.Start, true)
		}
		c.workAvailable.Succeed()
		return nil
	})
	metrics.SetCircuitBreakerState(float64(c.breaker.State()))
	return err
}

// needsButton implements spec.md §4.4.5/§4.4.4's needs_button predicate:
// a hall button at f for direction d needs lighting unless it is already
// lit, or some elevator is already arrived at f able to serve it — in
// which case that elevator is nudged to service it instead (promoting an
// idle elevator's direction, and interrupting its door-wait dwell so it
// re-opens for the newcomer rather than waiting for its next arrival).
func (c *Controller) needsButton(d domain.Direction, f domain.Floor) bool {
	if c.hasButton(d, f) {
		return false
	}
	for _, other := range c.Elevators {
		if !other.Arrived() || other.CurrentFloor() != f {
			continue
		}
		switch other.Direction() {
		case d:
			c.interruptDoorWait(other)
			return false
		case domain.DirectionIdle:
			other.SetDirection(d)
			c.interruptDoorWait(other)
			return false
		}
	}
	return true
}

// interruptDoorWait cancels other's pending door-wait dwell, if and only
// if it is currently suspended there — the only point spec.md §5 allows a
// process to be interrupted. Requests arriving while the elevator is still
// disembarking or boarding at this floor need no interrupt at all: they are
// absorbed by boardWaiting's live queue check on its next loop iteration.
// Only a request arriving after boarding has already finished and the door
// is sitting in its dwell needs this interrupt to get served this pass.
func (c *Controller) interruptDoorWait(e *elevatormodel.Elevator) {
	if !e.DoorWaitOpen() {
		return
	}
	for i, peer := range c.Elevators {
		if peer == e {
			c.Sim.Interrupt(c.processes[i])
			return
		}
	}
}

func (c *Controller) hasButton(d domain.Direction, f domain.Floor) bool {
	switch d {
	case domain.DirectionUp:
		return c.Building.HasUpButton(f)
	case domain.DirectionDown:
		return c.Building.HasDownButton(f)
	default:
		return false
	}
}

func (c *Controller) setButton(d domain.Direction, f domain.Floor, lit bool) {
	switch d {
	case domain.DirectionUp:
		c.Building.SetUpButton(f, lit)
	case domain.DirectionDown:
		c.Building.SetDownButton(f, lit)
	}
}

// runElevator is the body of one elevator's sim.Process: repeatedly
// consult the policy and execute whatever it returns, forever.
func (c *Controller) runElevator(ctx *sim.Context, e *elevatormodel.Elevator) {
	for {
		action := c.policy.Decide(e, c.Elevators, c.Building)
		if c.monitor != nil {
			c.monitor.OnDispatch(e.Name(), action, ctx.Sim().Now())
		}
		metrics.IncDispatch(e.Name(), actionKindLabel(action.Kind))
		metrics.SetSimClock(float64(ctx.Sim().Now()))
		metrics.SetCurrentFloor(e.Name(), float64(e.CurrentFloor().Value()))
		metrics.SetOccupancy(e.Name(), float64(e.Occupancy()))

		switch action.Kind {
		case domain.ActionStop:
			if e.Moving() {
				_ = ctx.Timeout(c.timing.Accel) // decelerate to rest before parking
				e.SetMoving(false)
			}
			e.ClearTarget()
			e.SetDirection(domain.DirectionIdle)
			_ = ctx.Await(c.workAvailable) // interrupts are not used on this wait; ignore error

		case domain.ActionMove:
			e.SetTarget(action.Target)
			c.move(ctx, e, action.Target)

		case domain.ActionArrive:
			e.ClearTarget()
			c.arrive(ctx, e, action.Direction)
		}
	}
}

// move advances e by exactly one floor toward target (spec.md §4.4.3):
// reversal pays 2x acceleration, starting from rest pays 1x, and
// continuing in the same direction already under way pays none; then the
// per-floor cruising time, then the position update.
func (c *Controller) move(ctx *sim.Context, e *elevatormodel.Elevator, target domain.Floor) {
	floor := e.CurrentFloor()
	newDir := domain.DirectionUp
	if target < floor {
		newDir = domain.DirectionDown
	}

	prevDir := e.Direction()
	wasMoving := e.Moving()
	e.SetDirection(newDir)

	switch {
	case wasMoving && prevDir != newDir && prevDir != domain.DirectionIdle:
		// Reversal while in transit: decelerate, then re-accelerate the
		// other way (spec.md §4.4.3's |d - d'| = 2 precondition).
		_ = ctx.Timeout(c.timing.Accel)
		_ = ctx.Timeout(c.timing.Accel)
	case !wasMoving:
		_ = ctx.Timeout(c.timing.Accel)
		e.SetMoving(true)
	}

	_ = ctx.Timeout(c.timing.Velocity)

	if newDir == domain.DirectionUp {
		e.SetCurrentFloor(floor + 1)
	} else {
		e.SetCurrentFloor(floor - 1)
	}
}

// arrive runs the full doors-open, service, doors-close cycle at e's
// current floor (spec.md §4.4.4), then commits to direction for the next
// dispatch decision.
func (c *Controller) arrive(ctx *sim.Context, e *elevatormodel.Elevator, direction domain.Direction) {
	floor := e.CurrentFloor()

	e.SetArrived(true)
	e.SetDirection(direction)
	switch direction {
	case domain.DirectionUp:
		c.Building.SetUpButton(floor, false)
	case domain.DirectionDown:
		c.Building.SetDownButton(floor, false)
	}

	if e.Moving() {
		_ = ctx.Timeout(c.timing.Accel)
		e.SetMoving(false)
	}

	_ = ctx.Timeout(c.timing.Door) // doors open

	atCapacity := false
	for {
		for _, rider := range e.Disembark(floor) {
			_ = ctx.Timeout(c.timing.Person)
			rider.Exit(ctx.Sim().Now())
		}

		// Re-read direction: needsButton may have promoted an idle
		// elevator's direction between iterations of this loop.
		atCapacity = c.boardWaiting(ctx, e, floor, e.Direction())

		e.SetDoorWaitOpen(true)
		err := ctx.Timeout(c.timing.DoorWait)
		e.SetDoorWaitOpen(false)
		if err == sim.ErrInterrupted {
			metrics.IncDoorReopen(e.Name())
			continue
		}
		break
	}

	e.SetArrived(false)
	_ = ctx.Timeout(c.timing.Door) // doors close

	if atCapacity {
		dir := e.Direction()
		c.setButton(dir, floor, false)
		c.Sim.Spawn(func(ctx2 *sim.Context) {
			if err := ctx2.Timeout(1); err != nil {
				return
			}
			c.setButton(dir, floor, c.needsButton(dir, floor))
		})
	}

	if c.monitor != nil {
		c.monitor.OnArrive(e.Name(), floor, ctx.Sim().Now())
	}
}

// boardWaiting lets riders waiting at floor for a car travelling dir board
// one at a time until the car is full, re-checking the building's hall
// queue on every iteration rather than working from a fixed snapshot —
// spec.md §4.4.4's service loop is `while Q[E.floor] non-empty and
// E.count < C: wait t_person; r <- Q[E.floor].pop_front(); E.board(r)`, a
// live condition re-evaluated each pass, so a request that arrives for
// this floor/direction while boarding is under way (yielding at each
// ctx.Timeout) gets picked up in the same pass instead of stranding behind
// an unlit hall button. Reports whether a rider was left behind because the
// car filled up while the queue was still non-empty (spec.md §4.4.4's
// at_capacity).
func (c *Controller) boardWaiting(ctx *sim.Context, e *elevatormodel.Elevator, floor domain.Floor, dir domain.Direction) bool {
	for {
		if !c.hasWaiter(dir, floor) {
			return false
		}
		if e.IsFull() {
			return true
		}
		_ = ctx.Timeout(c.timing.Person)
		rider, ok := c.popFrontWaiter(dir, floor)
		if !ok {
			// Queue emptied while we were waiting on ctx.Timeout above.
			return false
		}
		e.Board(rider)
		rider.Enter(ctx.Sim().Now())
	}
}

func (c *Controller) hasWaiter(dir domain.Direction, floor domain.Floor) bool {
	switch dir {
	case domain.DirectionUp:
		return c.Building.HasUpWaiter(floor)
	case domain.DirectionDown:
		return c.Building.HasDownWaiter(floor)
	default:
		return false
	}
}

func (c *Controller) popFrontWaiter(dir domain.Direction, floor domain.Floor) (*domain.Request, bool) {
	switch dir {
	case domain.DirectionUp:
		return c.Building.PopFrontUpWaiter(floor)
	case domain.DirectionDown:
		return c.Building.PopFrontDownWaiter(floor)
	default:
		return nil, false
	}
}

// actionKindLabel maps an ActionKind to the metric label used for it.
func actionKindLabel(k domain.ActionKind) string {
	switch k {
	case domain.ActionMove:
		return "move"
	case domain.ActionArrive:
		return "arrive"
	default:
		return "stop"
	}
}

// String renders the breaker state for logging/diagnostics.
func (s circuitBreakerState) String() string {
	switch s {
	case stateClosed:
		return "closed"
	case stateOpen:
		return "open"
	case stateHalfOpen:
		return "half_open"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}
