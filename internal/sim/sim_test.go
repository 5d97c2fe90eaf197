package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulator_TimeoutOrdering(t *testing.T) {
	s := New()
	var order []string

	s.Spawn(func(ctx *Context) {
		require.NoError(t, ctx.Timeout(5))
		order = append(order, "a@5")
	})
	s.Spawn(func(ctx *Context) {
		require.NoError(t, ctx.Timeout(2))
		order = append(order, "b@2")
	})
	s.Spawn(func(ctx *Context) {
		require.NoError(t, ctx.Timeout(2))
		order = append(order, "c@2")
	})

	s.Run(-1)

	assert.Equal(t, []string{"b@2", "c@2", "a@5"}, order)
	assert.Equal(t, Time(5), s.Now())
}

func TestSimulator_EventSucceedResumesInFIFOOrder(t *testing.T) {
	s := New()
	ev := s.NewEvent()
	var order []string

	s.Spawn(func(ctx *Context) {
		require.NoError(t, ctx.Await(ev))
		order = append(order, "first")
	})
	s.Spawn(func(ctx *Context) {
		require.NoError(t, ctx.Await(ev))
		order = append(order, "second")
	})
	s.Spawn(func(ctx *Context) {
		require.NoError(t, ctx.Timeout(1))
		ev.Succeed()
	})

	s.Run(-1)

	assert.Equal(t, []string{"first", "second"}, order)
}

func TestSimulator_Interrupt(t *testing.T) {
	s := New()
	var gotErr error
	var p *Process

	p = s.Spawn(func(ctx *Context) {
		gotErr = ctx.Timeout(100)
	})

	s.Spawn(func(ctx *Context) {
		require.NoError(t, ctx.Timeout(1))
		s.Interrupt(p)
	})

	s.Run(-1)

	assert.ErrorIs(t, gotErr, ErrInterrupted)
	assert.Equal(t, Time(1), s.Now())
}

func TestSimulator_InterruptIsNoopAfterCompletion(t *testing.T) {
	s := New()
	p := s.Spawn(func(ctx *Context) {
		require.NoError(t, ctx.Timeout(1))
	})
	s.Run(-1)
	require.True(t, p.Done())

	assert.NotPanics(t, func() { s.Interrupt(p) })
}

func TestSimulator_RunUntilHorizon(t *testing.T) {
	s := New()
	var ticks []Time

	var loop func(ctx *Context)
	loop = func(ctx *Context) {
		ticks = append(ticks, ctx.Sim().Now())
		if err := ctx.Timeout(1); err == nil {
			loop(ctx)
		}
	}
	s.Spawn(loop)

	s.Run(3)

	assert.Equal(t, []Time{0, 1, 2, 3}, ticks)
}

func TestSimulator_EventReusedAfterSucceed(t *testing.T) {
	s := New()
	ev := s.NewEvent()
	wakes := 0

	s.Spawn(func(ctx *Context) {
		for i := 0; i < 2; i++ {
			require.NoError(t, ctx.Await(ev))
			wakes++
		}
	})
	s.Spawn(func(ctx *Context) {
		require.NoError(t, ctx.Timeout(1))
		ev.Succeed()
		require.NoError(t, ctx.Timeout(1))
		ev.Succeed()
	})

	s.Run(-1)

	assert.Equal(t, 2, wakes)
}
