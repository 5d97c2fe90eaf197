// Package elevatormodel holds one elevator cabin's state: its current
// floor, direction, the riders on board, and the car buttons they've
// pressed. It is grounded in the teacher's mutex-guarded accessor shape
// (internal/elevator/state.go) but carries cabin occupancy and
// destination-button bookkeeping that the teacher's real-time elevator
// never needed, since the teacher never modeled capacity.
package elevatormodel

import (
	"sync"

	"github.com/nkuranov/elevsim/internal/domain"
)

// Elevator is one cabin: a name, a position, a direction, and the riders
// currently on board bound for particular floors (spec.md §3).
type Elevator struct {
	mu sync.RWMutex

	name         string
	currentFloor domain.Floor
	direction    domain.Direction
	minFloor     domain.Floor
	maxFloor     domain.Floor
	capacity     int

	moving       bool
	arrived      bool
	doorWaitOpen bool
	target       domain.Floor
	hasTarget    bool

	onBoard map[domain.Floor][]*domain.Request // destination floor -> riders bound there
}

// New creates an idle elevator parked at minFloor.
func New(name string, minFloor, maxFloor domain.Floor, capacity int) *Elevator {
	return &Elevator{
		name:         name,
		currentFloor: minFloor,
		direction:    domain.DirectionIdle,
		minFloor:     minFloor,
		maxFloor:     maxFloor,
		capacity:     capacity,
		onBoard:      make(map[domain.Floor][]*domain.Request),
	}
}

// Name returns the elevator's identifier.
func (e *Elevator) Name() string {
	return e.name
}

// CurrentFloor returns the elevator's present floor.
func (e *Elevator) CurrentFloor() domain.Floor {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.currentFloor
}

// SetCurrentFloor updates the elevator's present floor.
func (e *Elevator) SetCurrentFloor(floor domain.Floor) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.currentFloor = floor
}

// Direction returns the elevator's current direction of travel.
func (e *Elevator) Direction() domain.Direction {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.direction
}

// SetDirection updates the elevator's current direction of travel.
func (e *Elevator) SetDirection(d domain.Direction) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.direction = d
}

// Moving reports whether the elevator is currently in transit between
// floors (spec.md §3's moving flag; moving ⇒ direction ≠ 0).
func (e *Elevator) Moving() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.moving
}

// SetMoving updates the moving flag.
func (e *Elevator) SetMoving(moving bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.moving = moving
}

// Arrived reports whether the elevator is presently stopped and servicing
// a floor (spec.md §3's arrived flag; arrived ⇒ ¬moving).
func (e *Elevator) Arrived() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.arrived
}

// SetArrived updates the arrived flag.
func (e *Elevator) SetArrived(arrived bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.arrived = arrived
}

// DoorWaitOpen reports whether the elevator is presently suspended in the
// interruptible door-wait dwell of spec.md §4.4.4's service loop. Only
// while this is true is it safe for needs_button (§4.4.5) to interrupt
// this elevator's dispatch process.
func (e *Elevator) DoorWaitOpen() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.doorWaitOpen
}

// SetDoorWaitOpen updates the door-wait-open flag.
func (e *Elevator) SetDoorWaitOpen(open bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.doorWaitOpen = open
}

// Target returns the floor this elevator has committed to reach next, and
// whether one is set (spec.md glossary's "Target", used for peer
// avoidance in the idle-acquisition policy step).
func (e *Elevator) Target() (domain.Floor, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.target, e.hasTarget
}

// SetTarget commits the elevator to floor as its next destination.
func (e *Elevator) SetTarget(floor domain.Floor) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.target = floor
	e.hasTarget = true
}

// ClearTarget releases any committed target.
func (e *Elevator) ClearTarget() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.hasTarget = false
}

// MinFloor returns the lowest floor this elevator serves.
func (e *Elevator) MinFloor() domain.Floor { return e.minFloor }

// MaxFloor returns the highest floor this elevator serves.
func (e *Elevator) MaxFloor() domain.Floor { return e.maxFloor }

// Capacity returns the maximum number of riders this elevator can carry.
func (e *Elevator) Capacity() int { return e.capacity }

// Occupancy returns the number of riders currently on board.
func (e *Elevator) Occupancy() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	n := 0
	for _, riders := range e.onBoard {
		n += len(riders)
	}
	return n
}

// IsFull reports whether the elevator is at capacity (spec.md §3's
// capacity invariant: a full car cannot board another rider).
func (e *Elevator) IsFull() bool {
	return e.Occupancy() >= e.capacity
}

// Board adds req to the cabin, filing it under its destination floor,
// pressing that floor's car button. Caller must have already checked
// IsFull.
func (e *Elevator) Board(req *domain.Request) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onBoard[req.End] = append(e.onBoard[req.End], req)
}

// Disembark removes and returns every rider bound for floor, clearing that
// floor's car button.
func (e *Elevator) Disembark(floor domain.Floor) []*domain.Request {
	e.mu.Lock()
	defer e.mu.Unlock()
	riders := e.onBoard[floor]
	delete(e.onBoard, floor)
	return riders
}

// HasCarButton reports whether any on-board rider is bound for floor.
func (e *Elevator) HasCarButton(floor domain.Floor) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.onBoard[floor]) > 0
}

// NextCarButtonAtOrAbove returns the nearest lit car button >= from, and
// whether one exists (spec.md §4.3).
func (e *Elevator) NextCarButtonAtOrAbove(from domain.Floor) (domain.Floor, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for f := from.Value(); f <= e.maxFloor.Value(); f++ {
		if len(e.onBoard[domain.Floor(f)]) > 0 {
			return domain.Floor(f), true
		}
	}
	return 0, false
}

// NextCarButtonAtOrBelow returns the nearest lit car button <= from, and
// whether one exists (spec.md §4.3).
func (e *Elevator) NextCarButtonAtOrBelow(from domain.Floor) (domain.Floor, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for f := from.Value(); f >= e.minFloor.Value(); f-- {
		if len(e.onBoard[domain.Floor(f)]) > 0 {
			return domain.Floor(f), true
		}
	}
	return 0, false
}

// CarFloors returns every floor, in ascending order, with a lit car
// button.
func (e *Elevator) CarFloors() []domain.Floor {
	e.mu.RLock()
	defer e.mu.RUnlock()
	var floors []domain.Floor
	for f := e.minFloor.Value(); f <= e.maxFloor.Value(); f++ {
		if len(e.onBoard[domain.Floor(f)]) > 0 {
			floors = append(floors, domain.Floor(f))
		}
	}
	return floors
}

// IsAtTopFloor reports whether the elevator is parked at its top floor.
func (e *Elevator) IsAtTopFloor() bool {
	return e.CurrentFloor().IsEqual(e.maxFloor)
}

// IsAtBottomFloor reports whether the elevator is parked at its bottom
// floor.
func (e *Elevator) IsAtBottomFloor() bool {
	return e.CurrentFloor().IsEqual(e.minFloor)
}

// Status returns a point-in-time snapshot for status reporting.
func (e *Elevator) Status() domain.ElevatorStatus {
	e.mu.RLock()
	defer e.mu.RUnlock()
	occ := 0
	for _, riders := range e.onBoard {
		occ += len(riders)
	}
	return domain.NewElevatorStatus(e.name, e.currentFloor, e.direction, occ, e.capacity, e.minFloor, e.maxFloor)
}
