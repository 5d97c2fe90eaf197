// These tests exercise the generator as a sim.Process driving
// a fake Submitter, the same way internal/controller.Controller is driven
// in production.
package workload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkuranov/elevsim/internal/domain"
	"github.com/nkuranov/elevsim/internal/sim"
)

type fakeSubmitter struct {
	received []*domain.Request
}

func (f *fakeSubmitter) NewRequest(req *domain.Request) error {
	f.received = append(f.received, req)
	return nil
}

func TestDriver_GeneratesDistinctFloorsWithinBounds(t *testing.T) {
	s := sim.New()
	sub := &fakeSubmitter{}
	d := New(Config{ArrivalRateLambda: 2, FloorCount: 10}, 42, sub)

	s.Spawn(func(ctx *sim.Context) { d.Run(ctx) })
	s.Run(50)

	require.NotEmpty(t, sub.received)
	for _, req := range sub.received {
		assert.NotEqual(t, req.Start, req.End)
		assert.GreaterOrEqual(t, req.Start.Value(), 0)
		assert.Less(t, req.Start.Value(), 10)
		assert.GreaterOrEqual(t, req.End.Value(), 0)
		assert.Less(t, req.End.Value(), 10)
	}
}

func TestDriver_SameSeedIsDeterministic(t *testing.T) {
	run := func(seed int64) []*domain.Request {
		s := sim.New()
		sub := &fakeSubmitter{}
		d := New(Config{ArrivalRateLambda: 3, FloorCount: 20}, seed, sub)
		s.Spawn(func(ctx *sim.Context) { d.Run(ctx) })
		s.Run(100)
		return sub.received
	}

	a := run(7)
	b := run(7)
	require.Equal(t, len(a), len(b))
	for i := range a {
		assert.Equal(t, a[i].Start, b[i].Start)
		assert.Equal(t, a[i].End, b[i].End)
		assert.Equal(t, a[i].WaitStart, b[i].WaitStart)
	}
}
