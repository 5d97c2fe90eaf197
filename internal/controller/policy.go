package controller

import (
	"github.com/nkuranov/elevsim/internal/building"
	"github.com/nkuranov/elevsim/internal/domain"
	"github.com/nkuranov/elevsim/internal/elevatormodel"
)

// Policy decides what a single elevator should do next, given the shared
// building hall-call state and its peer elevators (spec.md §4.4.1). Peers
// are needed only for the idle-acquisition step's avoidance rule; exactly
// one of the two policies below is wired into a Controller at a time,
// NearestFloorPolicy is the default.
type Policy interface {
	Decide(e *elevatormodel.Elevator, peers []*elevatormodel.Elevator, b *building.Building) domain.Action
}

// NearestFloorPolicy implements simple_policy exactly as spec.md §4.4.1
// describes it: continue scanning in the current direction while there is
// a car or hall button ahead of it; failing that, consider reversing into
// the farthest pending work in the opposite direction; failing both, or
// when idle, acquire the single nearest lit hall button (while idle,
// avoiding a peer that already claimed it); with no lit hall button
// anywhere, go idle. When the scan lands the elevator on its
// own floor, step 6 decides the arrival direction independently of which
// branch produced the candidate.
type NearestFloorPolicy struct{}

// Decide implements Policy.
func (NearestFloorPolicy) Decide(e *elevatormodel.Elevator, peers []*elevatormodel.Elevator, b *building.Building) domain.Action {
	floor := e.CurrentFloor()
	dir := e.Direction()

	candidate, ok := scanCandidate(e, b, floor, dir)
	if !ok {
		return domain.Stop()
	}

	if dir == domain.DirectionIdle && peerClaims(e, peers, candidate) {
		return domain.Stop()
	}

	if candidate != floor {
		return domain.MoveTo(candidate)
	}

	return domain.Arrive(arriveDirection(e, b, floor, dir))
}

// scanCandidate implements steps 1-2 of simple_policy: the directional
// scan ahead (plus its reversal fallback) when moving, and the nearest
// lit hall button anywhere when that finds nothing or when idle.
func scanCandidate(e *elevatormodel.Elevator, b *building.Building, floor domain.Floor, dir domain.Direction) (domain.Floor, bool) {
	switch dir {
	case domain.DirectionUp:
		if target, ok := scanAheadUp(e, b, floor); ok {
			return target, true
		}
		// Reversal: the farthest down hall button anywhere, only if it
		// lies strictly above this floor (spec.md §4.4.1 step 1).
		if target, ok := b.NextDownButtonAtOrBelow(b.TopFloor()); ok && target > floor {
			return target, true
		}
		return nearestOfUpFloorsAndDownFloors(b, floor)

	case domain.DirectionDown:
		if target, ok := scanAheadDown(e, b, floor); ok {
			return target, true
		}
		if target, ok := b.NextUpButtonAtOrAbove(0); ok && target < floor {
			return target, true
		}
		return nearestOfUpFloorsAndDownFloors(b, floor)

	default: // idle: acquire the single nearest button, either direction.
		return nearestOfUpFloorsAndDownFloors(b, floor)
	}
}

// nearestOfUpFloorsAndDownFloors returns the single closest floor (by
// absolute distance) among every lit hall button in the building, per
// spec.md §4.4.1 step 2's nearest-button rule.
func nearestOfUpFloorsAndDownFloors(b *building.Building, floor domain.Floor) (domain.Floor, bool) {
	var best domain.Floor
	found := false
	consider := func(f domain.Floor) {
		if !found || floor.Distance(f) < floor.Distance(best) {
			best = f
			found = true
		}
	}
	for _, f := range b.UpFloors() {
		consider(f)
	}
	for _, f := range b.DownFloors() {
		consider(f)
	}
	return best, found
}

// scanAheadUp returns the nearest car or hall-up button at or above floor
// (the elevator's own floor counts, so an Arrive can fire in place).
func scanAheadUp(e *elevatormodel.Elevator, b *building.Building, floor domain.Floor) (domain.Floor, bool) {
	carTarget, carOK := e.NextCarButtonAtOrAbove(floor)
	hallTarget, hallOK := b.NextUpButtonAtOrAbove(floor)
	return nearer(floor, carTarget, carOK, hallTarget, hallOK)
}

// scanAheadDown returns the nearest car or hall-down button at or below
// floor.
func scanAheadDown(e *elevatormodel.Elevator, b *building.Building, floor domain.Floor) (domain.Floor, bool) {
	carTarget, carOK := e.NextCarButtonAtOrBelow(floor)
	hallTarget, hallOK := b.NextDownButtonAtOrBelow(floor)
	return nearer(floor, carTarget, carOK, hallTarget, hallOK)
}

func nearer(from, a domain.Floor, aOK bool, b domain.Floor, bOK bool) (domain.Floor, bool) {
	switch {
	case aOK && bOK:
		if from.Distance(a) <= from.Distance(b) {
			return a, true
		}
		return b, true
	case aOK:
		return a, true
	case bOK:
		return b, true
	default:
		return 0, false
	}
}

// peerClaims reports whether some other elevator already has target ==
// candidate, or some other idle elevator is strictly closer to candidate
// than e is (spec.md §4.4.1 step 4, applied only while e is idle).
func peerClaims(e *elevatormodel.Elevator, peers []*elevatormodel.Elevator, candidate domain.Floor) bool {
	myFloor := e.CurrentFloor()
	for _, other := range peers {
		if other == e {
			continue
		}
		if target, ok := other.Target(); ok && target == candidate {
			return true
		}
		if other.Direction() == domain.DirectionIdle {
			if other.CurrentFloor().Distance(candidate) < myFloor.Distance(candidate) {
				return true
			}
		}
	}
	return false
}

// arriveDirection implements step 6 of simple_policy: decide which way the
// elevator commits to once it has landed on a floor with work to do there.
func arriveDirection(e *elevatormodel.Elevator, b *building.Building, floor domain.Floor, dir domain.Direction) domain.Direction {
	if !b.AnyButtonPressed() && len(e.CarFloors()) == 0 {
		return domain.DirectionIdle
	}

	switch dir {
	case domain.DirectionUp:
		if _, ok := scanAheadUp(e, b, floor+1); !ok {
			return domain.DirectionDown
		}
		return dir
	case domain.DirectionDown:
		if _, ok := scanAheadDown(e, b, floor-1); !ok {
			return domain.DirectionUp
		}
		return dir
	default:
		if b.HasUpButton(floor) {
			return domain.DirectionUp
		}
		if b.HasDownButton(floor) {
			return domain.DirectionDown
		}
		return dir
	}
}

// ScanOutwardPolicy is the alternative idle-acquisition strategy named in
// spec.md §9's design notes and grounded in the elevator.py original: an
// idle car always commits to the building's prevailing outward scan
// direction (the lowest floor among lit up buttons and this car's own car
// buttons if there is any, else the highest lit down button) even
// when a request in the opposite direction is nominally nearer, trading a
// slightly longer first pickup for fewer direction reversals under load.
// Not wired into any Controller by default; kept as a documented,
// ready-to-swap-in alternative.
type ScanOutwardPolicy struct{}

// Decide implements Policy.
func (ScanOutwardPolicy) Decide(e *elevatormodel.Elevator, peers []*elevatormodel.Elevator, b *building.Building) domain.Action {
	floor := e.CurrentFloor()
	dir := e.Direction()

	if dir != domain.DirectionIdle {
		return NearestFloorPolicy{}.Decide(e, peers, b)
	}

	upFloors := append(append([]domain.Floor{}, b.UpFloors()...), e.CarFloors()...)
	downFloors := b.DownFloors()

	var candidate domain.Floor
	var dest domain.Direction
	switch {
	case len(upFloors) > 0:
		candidate = upFloors[0]
		for _, f := range upFloors {
			if f < candidate {
				candidate = f
			}
		}
		dest = domain.DirectionUp
	case len(downFloors) > 0:
		candidate = downFloors[len(downFloors)-1]
		dest = domain.DirectionDown
	default:
		return domain.Arrive(domain.DirectionIdle)
	}

	if peerClaims(e, peers, candidate) {
		return domain.Stop()
	}
	if candidate == floor {
		return domain.Arrive(dest)
	}
	return domain.MoveTo(candidate)
}
