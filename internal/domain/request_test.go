package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nkuranov/elevsim/internal/sim"
)

func TestRequest_DirectionMatchesTravel(t *testing.T) {
	up := NewRequest(NewFloor(2), NewFloor(8), 0, Hooks{})
	assert.Equal(t, DirectionUp, up.Direction())

	down := NewRequest(NewFloor(8), NewFloor(2), 0, Hooks{})
	assert.Equal(t, DirectionDown, down.Direction())
}

func TestRequest_HooksFireAtEachLifecycleBoundary(t *testing.T) {
	var waited, entered, exited bool
	hooks := Hooks{
		OnWait:  func(r *Request, at sim.Time) { waited = true },
		OnEnter: func(r *Request, at sim.Time) { entered = true },
		OnExit:  func(r *Request, at sim.Time) { exited = true },
	}

	r := NewRequest(NewFloor(0), NewFloor(5), 0, hooks)
	assert.True(t, waited)
	assert.False(t, entered)
	assert.False(t, exited)

	r.Enter(2)
	assert.True(t, entered)
	assert.False(t, exited)

	r.Exit(10)
	assert.True(t, exited)
	assert.Equal(t, sim.Time(2), r.WaitDuration())
	assert.Equal(t, sim.Time(8), r.TripDuration())
	assert.Equal(t, sim.Time(10), r.TotalDuration())
}

func TestRequest_NamesAreMonotonicallyIncreasing(t *testing.T) {
	first := NewRequest(NewFloor(0), NewFloor(1), 0, Hooks{})
	second := NewRequest(NewFloor(0), NewFloor(1), 0, Hooks{})
	assert.Less(t, first.Name, second.Name)
}

func TestValidateFloorRange(t *testing.T) {
	assert.NoError(t, ValidateFloorRange(NewFloor(0), NewFloor(1), 10))
	assert.Error(t, ValidateFloorRange(NewFloor(3), NewFloor(3), 10))
	assert.Error(t, ValidateFloorRange(NewFloor(-1), NewFloor(3), 10))
	assert.Error(t, ValidateFloorRange(NewFloor(0), NewFloor(10), 10))
}
