// Package httpapi exposes a simulation run's state and results over HTTP:
// a snapshot/report surface, Prometheus metrics, health checks, and a
// WebSocket that replays the run's recorded snapshots, adapted from the
// teacher's internal/http package (server.go, handlers.go, middleware.go,
// response.go) to report on a discrete-event run instead of controlling a
// live elevator bank.
package httpapi

import (
	"sync"

	"github.com/nkuranov/elevsim/internal/controller"
	"github.com/nkuranov/elevsim/internal/domain"
	"github.com/nkuranov/elevsim/internal/monitor"
	"github.com/nkuranov/elevsim/internal/sim"
)

// Report is a point-in-time snapshot of a simulation, JSON-serializable for
// both the REST and WebSocket surfaces.
type Report struct {
	SimTime   sim.Time                `json:"sim_time"`
	Elevators []domain.ElevatorStatus `json:"elevators"`
	Trips     TripStats               `json:"trips"`
}

// TripStats summarizes rider latency across every trip completed so far.
type TripStats struct {
	Completed int     `json:"completed"`
	MeanWait  float64 `json:"mean_wait_seconds"`
	MeanTotal float64 `json:"mean_total_seconds"`
}

// Snapshotter builds a Report from the live (or finished) simulation state:
// the clock from Sim, elevator statuses from Ctrl, trip statistics from Mon.
type Snapshotter struct {
	Sim  *sim.Simulator
	Ctrl *controller.Controller
	Mon  *monitor.Monitor
}

// Report renders the current state of the wrapped simulation.
func (s *Snapshotter) Report() Report {
	statuses := make([]domain.ElevatorStatus, len(s.Ctrl.Elevators))
	for i, e := range s.Ctrl.Elevators {
		statuses[i] = e.Status()
	}
	return Report{
		SimTime:   s.Sim.Now(),
		Elevators: statuses,
		Trips: TripStats{
			Completed: s.Mon.Count(),
			MeanWait:  float64(s.Mon.MeanWait()),
			MeanTotal: float64(s.Mon.MeanTotal()),
		},
	}
}

// Recorder samples Reports at a fixed sim-time cadence while a run
// executes, via controller.Monitor's OnDispatch hook, so the WebSocket
// surface has something to replay once the (synchronous, instantaneous)
// Run call has already returned.
type Recorder struct {
	mu        sync.Mutex
	snap      *Snapshotter
	every     sim.Time
	nextAt    sim.Time
	snapshots []Report
}

// NewRecorder builds a Recorder that captures one Report every `every`
// units of simulated time.
func NewRecorder(snap *Snapshotter, every sim.Time) *Recorder {
	if every <= 0 {
		every = 1
	}
	return &Recorder{snap: snap, every: every}
}

// OnDispatch satisfies controller.Monitor; it captures a snapshot whenever
// simulated time has advanced past the next sampling point.
func (r *Recorder) OnDispatch(elevatorName string, action domain.Action, at sim.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if at < r.nextAt {
		return
	}
	r.nextAt = at + r.every
	r.snapshots = append(r.snapshots, r.snap.Report())
}

// OnArrive satisfies controller.Monitor; arrivals are also dispatch
// decisions so OnDispatch already captures them.
func (r *Recorder) OnArrive(elevatorName string, floor domain.Floor, at sim.Time) {}

// Snapshots returns every Report captured so far, in recording order.
func (r *Recorder) Snapshots() []Report {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Report, len(r.snapshots))
	copy(out, r.snapshots)
	return out
}

// fanoutMonitor forwards every controller.Monitor notification to each of
// its members, so a run can feed both the latency monitor.Monitor and a
// Recorder from a single controller.New call.
type fanoutMonitor struct {
	members []controller.Monitor
}

// Fanout combines several controller.Monitor implementations into one.
func Fanout(members ...controller.Monitor) controller.Monitor {
	return &fanoutMonitor{members: members}
}

func (f *fanoutMonitor) OnDispatch(elevatorName string, action domain.Action, at sim.Time) {
	for _, m := range f.members {
		m.OnDispatch(elevatorName, action, at)
	}
}

func (f *fanoutMonitor) OnArrive(elevatorName string, floor domain.Floor, at sim.Time) {
	for _, m := range f.members {
		m.OnArrive(elevatorName, floor, at)
	}
}
