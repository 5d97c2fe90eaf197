// Package building models the hall-call state shared by every elevator:
// the up/down buttons lit at each floor and the FIFO queues of riders
// waiting behind them (spec.md §3/§4.2). Buttons and queues are tracked
// separately, because spec.md's needs_button protocol (§4.4.4/§4.4.5)
// can leave a queue non-empty while its button is unlit — the elevator
// already arrived to service that direction suppresses the button. This
// package carries no dispatch policy — that lives in internal/controller
// — only the queries and mutations the policy needs.
package building

import (
	"sync"

	"github.com/nkuranov/elevsim/internal/domain"
)

// Building holds per-floor hall-call buttons and the waiting requests
// behind them.
type Building struct {
	mu         sync.Mutex
	floorCount int
	upButtons  map[domain.Floor]bool
	downButtons map[domain.Floor]bool
	upQueue    map[domain.Floor][]*domain.Request
	downQueue  map[domain.Floor][]*domain.Request
}

// New creates an empty Building with floorCount floors (addressed
// 0..floorCount-1).
func New(floorCount int) *Building {
	return &Building{
		floorCount:  floorCount,
		upButtons:   make(map[domain.Floor]bool),
		downButtons: make(map[domain.Floor]bool),
		upQueue:     make(map[domain.Floor][]*domain.Request),
		downQueue:   make(map[domain.Floor][]*domain.Request),
	}
}

// FloorCount returns the number of floors in the building.
func (b *Building) FloorCount() int {
	return b.floorCount
}

// TopFloor returns the highest addressable floor (floorCount-1).
func (b *Building) TopFloor() domain.Floor {
	return domain.Floor(b.floorCount - 1)
}

// EnqueueUp appends req to the up-waiting queue at its start floor. It does
// not light the hall button; callers decide that via SetUpButton, per
// spec.md §4.4.5's needs_button protocol.
func (b *Building) EnqueueUp(req *domain.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.upQueue[req.Start] = append(b.upQueue[req.Start], req)
}

// EnqueueDown appends req to the down-waiting queue at its start floor.
func (b *Building) EnqueueDown(req *domain.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.downQueue[req.Start] = append(b.downQueue[req.Start], req)
}

// SetUpButton lights or clears the up hall button at floor.
func (b *Building) SetUpButton(floor domain.Floor, lit bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if lit {
		b.upButtons[floor] = true
	} else {
		delete(b.upButtons, floor)
	}
}

// SetDownButton lights or clears the down hall button at floor.
func (b *Building) SetDownButton(floor domain.Floor, lit bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if lit {
		b.downButtons[floor] = true
	} else {
		delete(b.downButtons, floor)
	}
}

// HasUpButton reports whether the up button is lit at floor.
func (b *Building) HasUpButton(floor domain.Floor) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.upButtons[floor]
}

// HasDownButton reports whether the down button is lit at floor.
func (b *Building) HasDownButton(floor domain.Floor) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.downButtons[floor]
}

// UpQueueLen returns the number of riders waiting for an up car at floor.
func (b *Building) UpQueueLen(floor domain.Floor) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.upQueue[floor])
}

// DownQueueLen returns the number of riders waiting for a down car at
// floor.
func (b *Building) DownQueueLen(floor domain.Floor) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.downQueue[floor])
}

// HasUpWaiter reports whether at least one request is still waiting for an
// up car at floor. Callers that board riders one at a time re-check this on
// every iteration rather than snapshotting the queue, so a request that
// arrives mid-boarding is seen in the same pass (spec.md §4.4.4's service
// loop: `while Q[E.floor] non-empty and E.count < C`).
func (b *Building) HasUpWaiter(floor domain.Floor) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.upQueue[floor]) > 0
}

// HasDownWaiter reports whether at least one request is still waiting for a
// down car at floor.
func (b *Building) HasDownWaiter(floor domain.Floor) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.downQueue[floor]) > 0
}

// PopFrontUpWaiter removes and returns the request at the front of the up
// queue at floor, in FIFO order. The hall button is untouched — callers
// clear it explicitly (spec.md §4.4.4's Arrive preliminary step).
func (b *Building) PopFrontUpWaiter(floor domain.Floor) (*domain.Request, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	q := b.upQueue[floor]
	if len(q) == 0 {
		return nil, false
	}
	r := q[0]
	if len(q) == 1 {
		delete(b.upQueue, floor)
	} else {
		b.upQueue[floor] = q[1:]
	}
	return r, true
}

// PopFrontDownWaiter removes and returns the request at the front of the
// down queue at floor, in FIFO order.
func (b *Building) PopFrontDownWaiter(floor domain.Floor) (*domain.Request, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	q := b.downQueue[floor]
	if len(q) == 0 {
		return nil, false
	}
	r := q[0]
	if len(q) == 1 {
		delete(b.downQueue, floor)
	} else {
		b.downQueue[floor] = q[1:]
	}
	return r, true
}

// NextUpButtonAtOrAbove returns the nearest floor >= from with a lit up
// button, and whether one exists (spec.md §4.2).
func (b *Building) NextUpButtonAtOrAbove(from domain.Floor) (domain.Floor, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for f := from.Value(); f < b.floorCount; f++ {
		if b.upButtons[domain.Floor(f)] {
			return domain.Floor(f), true
		}
	}
	return 0, false
}

// NextDownButtonAtOrBelow returns the nearest floor <= from with a lit
// down button, and whether one exists (spec.md §4.2).
func (b *Building) NextDownButtonAtOrBelow(from domain.Floor) (domain.Floor, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for f := from.Value(); f >= 0; f-- {
		if b.downButtons[domain.Floor(f)] {
			return domain.Floor(f), true
		}
	}
	return 0, false
}

// UpFloors returns every floor, in ascending order, with a lit up button.
func (b *Building) UpFloors() []domain.Floor {
	b.mu.Lock()
	defer b.mu.Unlock()
	var floors []domain.Floor
	for f := 0; f < b.floorCount; f++ {
		if b.upButtons[domain.Floor(f)] {
			floors = append(floors, domain.Floor(f))
		}
	}
	return floors
}

// DownFloors returns every floor, in ascending order, with a lit down
// button.
func (b *Building) DownFloors() []domain.Floor {
	b.mu.Lock()
	defer b.mu.Unlock()
	var floors []domain.Floor
	for f := 0; f < b.floorCount; f++ {
		if b.downButtons[domain.Floor(f)] {
			floors = append(floors, domain.Floor(f))
		}
	}
	return floors
}

// AnyButtonPressed reports whether any hall button is lit anywhere in the
// building (used for the arrive_direction = 0 "nothing pending" case,
// spec.md §9 Open Question 1). Car buttons are checked separately by the
// caller, since Building has no visibility into cabin state.
func (b *Building) AnyButtonPressed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.upButtons) > 0 || len(b.downButtons) > 0
}
