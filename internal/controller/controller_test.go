package controller

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkuranov/elevsim/internal/domain"
	"github.com/nkuranov/elevsim/internal/elevatormodel"
	"github.com/nkuranov/elevsim/internal/sim"
)

// referenceTiming matches the worked example in spec.md §8's end-to-end
// scenario list: F=20, C=10, t_velocity=1, t_accel=1, t_door=3,
// t_door_wait=5, t_person=0.5.
func referenceTiming() Timing {
	return Timing{
		Velocity: 1,
		Accel:    1,
		Door:     3,
		DoorWait: 5,
		Person:   0.5,
	}
}

func newTestController(s *sim.Simulator, floorCount, capacity int, names ...string) *Controller {
	elevators := make([]*elevatormodel.Elevator, len(names))
	for i, name := range names {
		elevators[i] = elevatormodel.New(name, domain.NewFloor(0), domain.NewFloor(floorCount-1), capacity)
	}
	return New(s, floorCount, elevators, referenceTiming(), nil, nil, nil)
}

func TestController_SingleTripZeroToOne(t *testing.T) {
	// Scenario 1 (spec.md §8): F=20, C=10, N=1, a single 0->1 request on an
	// idle elevator already parked at 0. Door open (3) + board (0.5) +
	// dwell (5) + door close (3) = 11.5 at the pickup floor, then accel
	// (1) + velocity (1) = 13.5 arriving at floor 1, then the Arrive
	// handler's mandatory deceleration (1, since the cabin was still
	// moving) + door open (3) + disembark (0.5) = 18.0 at drop-off.
	s := sim.New()
	c := newTestController(s, 20, 10, "A")
	c.Start()

	req := domain.NewRequest(domain.NewFloor(0), domain.NewFloor(1), 0, domain.Hooks{})
	require.NoError(t, c.NewRequest(req))

	s.Run(200)

	require.NotZero(t, req.ExitTime)
	assert.Equal(t, sim.Time(18), req.ExitTime)
	assert.Equal(t, domain.NewFloor(1), c.Elevators[0].CurrentFloor())
}

func TestController_CapacityOverflowSkipsFloorAndRePresses(t *testing.T) {
	// Scenario 2 (spec.md §8): C=1, two waiters at floor 5 both bound for
	// floor 10. The elevator boards one, leaves the other behind, and the
	// up button at floor 5 is re-pressed about 1 time unit after the
	// doors close so the elevator can come back for the second rider.
	s := sim.New()
	c := newTestController(s, 20, 1, "A")
	c.Elevators[0].SetCurrentFloor(domain.NewFloor(0))
	c.Start()

	first := domain.NewRequest(domain.NewFloor(5), domain.NewFloor(10), 0, domain.Hooks{})
	second := domain.NewRequest(domain.NewFloor(5), domain.NewFloor(10), 0, domain.Hooks{})
	require.NoError(t, c.NewRequest(first))
	require.NoError(t, c.NewRequest(second))

	s.Run(400)

	require.NotZero(t, first.ExitTime)
	require.NotZero(t, second.ExitTime)
	// Both riders eventually get delivered, but not simultaneously: one
	// boards on the first pass, the other after the elevator comes back.
	assert.NotEqual(t, first.EnterTime, second.EnterTime)
	assert.Equal(t, domain.NewFloor(10), c.Elevators[0].CurrentFloor())
}

func TestController_DoorInterruptBoardsNewcomerBeforeClosing(t *testing.T) {
	// Scenario 3 (spec.md §8): an elevator arrived at floor 3 heading up
	// is mid-dwell when a new request for the same floor/direction lands;
	// needs_button returns false (case (b)) and interrupts the door-wait
	// so the newcomer boards in the same stop rather than waiting for a
	// second visit.
	s := sim.New()
	c := newTestController(s, 20, 10, "A")
	c.Elevators[0].SetCurrentFloor(domain.NewFloor(3))
	c.Start()

	first := domain.NewRequest(domain.NewFloor(3), domain.NewFloor(7), 0, domain.Hooks{})
	require.NoError(t, c.NewRequest(first))

	// Let the elevator reach the interruptible door-wait (door open + one
	// boarding pass have elapsed, comfortably inside the 5-unit dwell)
	// before the second rider shows up.
	s.Run(5)
	require.True(t, c.Elevators[0].DoorWaitOpen())

	second := domain.NewRequest(domain.NewFloor(3), domain.NewFloor(9), s.Now(), domain.Hooks{})
	require.NoError(t, c.NewRequest(second))

	s.Run(400)

	require.NotZero(t, first.ExitTime)
	require.NotZero(t, second.ExitTime)
	// The newcomer boarded during the same stop the first rider did, not
	// after the elevator made a second trip back to floor 3.
	assert.Less(t, second.EnterTime, first.ExitTime)
}

func TestController_PeerAvoidanceLeavesFartherElevatorIdle(t *testing.T) {
	// Scenario 4 (spec.md §8): two idle elevators at floors 0 and 10; a
	// single request at floor 12 is served by the closer one only.
	s := sim.New()
	c := newTestController(s, 20, 10, "A", "B")
	c.Elevators[0].SetCurrentFloor(domain.NewFloor(0))
	c.Elevators[1].SetCurrentFloor(domain.NewFloor(10))
	c.Start()

	req := domain.NewRequest(domain.NewFloor(12), domain.NewFloor(0), 0, domain.Hooks{})
	require.NoError(t, c.NewRequest(req))

	s.Run(400)

	require.NotZero(t, req.ExitTime)
	assert.Equal(t, domain.NewFloor(0), c.Elevators[0].CurrentFloor()) // never moved
	assert.Equal(t, domain.NewFloor(0), c.Elevators[1].CurrentFloor()) // drove the trip
}

func TestController_NewRequestRejectsInvalidFloors(t *testing.T) {
	s := sim.New()
	c := newTestController(s, 10, 10, "A")
	c.Start()

	err := c.NewRequest(domain.NewRequest(domain.NewFloor(3), domain.NewFloor(3), 0, domain.Hooks{}))
	assert.Error(t, err)

	err = c.NewRequest(domain.NewRequest(domain.NewFloor(0), domain.NewFloor(50), 0, domain.Hooks{}))
	assert.Error(t, err)
}

func TestController_InvariantsHoldThroughoutRandomizedRun(t *testing.T) {
	s := sim.New()
	c := newTestController(s, 12, 4, "A", "B", "C")
	c.Start()

	floorPairs := [][2]int{{0, 5}, {5, 0}, {3, 9}, {9, 3}, {1, 11}, {11, 1}, {6, 2}}
	for i, pair := range floorPairs {
		req := domain.NewRequest(domain.NewFloor(pair[0]), domain.NewFloor(pair[1]), sim.Time(i), domain.Hooks{})
		require.NoError(t, c.NewRequest(req))
	}

	s.Run(1000)

	for _, e := range c.Elevators {
		assert.LessOrEqual(t, e.Occupancy(), e.Capacity())
		assert.GreaterOrEqual(t, e.CurrentFloor().Value(), 0)
		assert.Less(t, e.CurrentFloor().Value(), 12)
		if e.Moving() {
			assert.NotEqual(t, domain.DirectionIdle, e.Direction())
		}
		if e.Arrived() {
			assert.False(t, e.Moving())
		}
	}
}
