// Package workload generates the stream of rider requests that drives a
// simulation run, grounded in original_source's top-level requests(env,
// controller) generator: a Poisson arrival process producing uniformly
// random distinct (start, end) floor pairs, submitted to a Controller at
// simulated arrival times (spec.md §4.5).
package workload

import (
	"math/rand"

	"github.com/nkuranov/elevsim/internal/domain"
	"github.com/nkuranov/elevsim/internal/sim"
)

// Submitter accepts a newly generated request, e.g. *controller.Controller.
type Submitter interface {
	NewRequest(req *domain.Request) error
}

// Config parameterizes the arrival process.
type Config struct {
	// ArrivalRateLambda is the mean number of requests per unit simulated
	// time (the Poisson process rate).
	ArrivalRateLambda float64
	// FloorCount is the building's floor count, bounding generated
	// start/end floors to [0, FloorCount).
	FloorCount int
	// Hooks, if non-nil, are attached to every generated Request.
	Hooks domain.Hooks
}

// Driver generates requests and submits them to a Submitter for as long
// as its sim.Process runs.
type Driver struct {
	cfg  Config
	rng  *rand.Rand
	sub  Submitter
	stop sim.Time // never set or read; Run has no stop time of its own
}

// New creates a Driver seeded by seed, so runs are reproducible given the
// same seed (spec.md §6's RandomSeed).
func New(cfg Config, seed int64, sub Submitter) *Driver {
	return &Driver{
		cfg: cfg,
		rng: rand.New(rand.NewSource(seed)),
		sub: sub,
	}
}

// Run is the sim.Process body: sleeps an exponentially distributed
// interarrival time, generates one request, submits it, and repeats,
// until the simulator's horizon is reached (Run returning ErrInterrupted
// or the process simply never finishing — the simulator's Run(until)
// stops advancing the clock past the horizon regardless).
func (d *Driver) Run(ctx *sim.Context) {
	for {
		dt := d.nextInterarrival()
		if err := ctx.Timeout(dt); err != nil {
			return // interrupted: stop generating
		}
		req := d.nextRequest(ctx.Sim().Now())
		_ = d.sub.NewRequest(req) // invalid floor pairs cannot occur by construction; errors are ignored here
	}
}

// nextInterarrival draws an exponential interarrival time with rate
// ArrivalRateLambda.
func (d *Driver) nextInterarrival() sim.Time {
	if d.cfg.ArrivalRateLambda <= 0 {
		return sim.Time(1)
	}
	return sim.Time(d.rng.ExpFloat64() / d.cfg.ArrivalRateLambda)
}

// nextRequest draws a uniformly random distinct start/end floor pair.
func (d *Driver) nextRequest(at sim.Time) *domain.Request {
	start := d.rng.Intn(d.cfg.FloorCount)
	end := d.rng.Intn(d.cfg.FloorCount - 1)
	if end >= start {
		end++ // skip start so end != start, keeping the distribution uniform over the rest
	}
	return domain.NewRequest(domain.Floor(start), domain.Floor(end), at, d.cfg.Hooks)
}
