package building

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkuranov/elevsim/internal/domain"
)

func newReq(start, end int) *domain.Request {
	return domain.NewRequest(domain.NewFloor(start), domain.NewFloor(end), 0, domain.Hooks{})
}

func TestBuilding_ButtonsAndQueuesAreIndependent(t *testing.T) {
	b := New(10)
	r := newReq(2, 7)
	b.EnqueueUp(r)

	// Enqueuing does not light the button; callers decide that
	// independently (spec.md §4.4.5's needs_button protocol).
	assert.False(t, b.HasUpButton(domain.NewFloor(2)))
	assert.Equal(t, 1, b.UpQueueLen(domain.NewFloor(2)))

	b.SetUpButton(domain.NewFloor(2), true)
	assert.True(t, b.HasUpButton(domain.NewFloor(2)))

	require.True(t, b.HasUpWaiter(domain.NewFloor(2)))
	waiter, ok := b.PopFrontUpWaiter(domain.NewFloor(2))
	require.True(t, ok)
	assert.Equal(t, r, waiter)
	assert.Equal(t, 0, b.UpQueueLen(domain.NewFloor(2)))
	assert.False(t, b.HasUpWaiter(domain.NewFloor(2)))
	// Popping the waiter does not clear the button; Arrive does that
	// explicitly.
	assert.True(t, b.HasUpButton(domain.NewFloor(2)))
}

func TestBuilding_NextButtonScans(t *testing.T) {
	b := New(10)
	b.SetUpButton(domain.NewFloor(5), true)
	b.SetDownButton(domain.NewFloor(3), true)

	f, ok := b.NextUpButtonAtOrAbove(domain.NewFloor(0))
	require.True(t, ok)
	assert.Equal(t, domain.NewFloor(5), f)

	_, ok = b.NextUpButtonAtOrAbove(domain.NewFloor(6))
	assert.False(t, ok)

	f, ok = b.NextDownButtonAtOrBelow(b.TopFloor())
	require.True(t, ok)
	assert.Equal(t, domain.NewFloor(3), f)

	_, ok = b.NextDownButtonAtOrBelow(domain.NewFloor(2))
	assert.False(t, ok)
}

func TestBuilding_UpFloorsAndDownFloorsAreSorted(t *testing.T) {
	b := New(10)
	b.SetUpButton(domain.NewFloor(7), true)
	b.SetUpButton(domain.NewFloor(2), true)
	b.SetDownButton(domain.NewFloor(9), true)

	assert.Equal(t, []domain.Floor{domain.NewFloor(2), domain.NewFloor(7)}, b.UpFloors())
	assert.Equal(t, []domain.Floor{domain.NewFloor(9)}, b.DownFloors())
}

func TestBuilding_PopFrontUpWaiterPreservesFIFOAcrossNewArrivals(t *testing.T) {
	b := New(5)
	first := newReq(0, 4)
	second := newReq(0, 3)
	b.EnqueueUp(first)
	b.EnqueueUp(second)

	boarded, ok := b.PopFrontUpWaiter(domain.NewFloor(0))
	require.True(t, ok)
	assert.Equal(t, first, boarded)

	// A new arrival enqueued while `second` is still waiting must not jump
	// ahead of it (spec.md §4.4.4's at_capacity / FIFO ordering).
	newArrival := newReq(0, 2)
	b.EnqueueUp(newArrival)

	next, ok := b.PopFrontUpWaiter(domain.NewFloor(0))
	require.True(t, ok)
	assert.Equal(t, second, next)

	last, ok := b.PopFrontUpWaiter(domain.NewFloor(0))
	require.True(t, ok)
	assert.Equal(t, newArrival, last)

	_, ok = b.PopFrontUpWaiter(domain.NewFloor(0))
	assert.False(t, ok)
}

func TestBuilding_AnyButtonPressed(t *testing.T) {
	b := New(5)
	assert.False(t, b.AnyButtonPressed())
	b.SetDownButton(domain.NewFloor(1), true)
	assert.True(t, b.AnyButtonPressed())
}
