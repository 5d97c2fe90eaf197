// Package metrics defines the Prometheus instruments this simulator
// actually calls, fixing a drift observed in the teacher repo (whose
// metrics/metrics.go defined one histogram while internal/manager/manager.go
// called a dozen functions that package never exported). Every function
// below has a call site in internal/controller, internal/monitor or
// internal/httpapi.
package metrics

import "github.com/prometheus/client_golang/prometheus"

const (
	namespace         = "elevsim"
	elevatorNameLabel = "elevator"
)

var (
	simClock = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: namespace + "_sim_clock_seconds",
		Help: "Current simulated clock time.",
	})

	currentFloor = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: namespace + "_elevator_current_floor",
			Help: "Current floor of each elevator.",
		},
		[]string{elevatorNameLabel},
	)

	occupancy = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: namespace + "_elevator_occupancy",
			Help: "Current rider occupancy of each elevator.",
		},
		[]string{elevatorNameLabel},
	)

	dispatchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: namespace + "_dispatch_decisions_total",
			Help: "Count of dispatch decisions made, by action kind.",
		},
		[]string{elevatorNameLabel, "action"},
	)

	doorReopenTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: namespace + "_door_reopens_total",
			Help: "Count of elevator doors reopening to board a rider who arrived during the dwell wait.",
		},
		[]string{elevatorNameLabel},
	)

	requestWaitSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    namespace + "_request_wait_seconds",
			Help:    "Simulated time riders spend waiting before boarding.",
			Buckets: prometheus.DefBuckets,
		},
	)

	circuitBreakerState = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: namespace + "_controller_circuit_breaker_state",
		Help: "Controller circuit breaker state: 0 closed, 1 open, 2 half_open.",
	})

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: namespace + "_http_requests_total",
			Help: "Count of httpapi requests served, by method, path and status.",
		},
		[]string{"method", "path", "status"},
	)

	httpErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: namespace + "_http_errors_total",
			Help: "Count of httpapi errors, by kind.",
		},
		[]string{"kind"},
	)
)

func init() {
	prometheus.MustRegister(
		simClock,
		currentFloor,
		occupancy,
		dispatchTotal,
		doorReopenTotal,
		requestWaitSeconds,
		circuitBreakerState,
		httpRequestsTotal,
		httpErrorsTotal,
	)
}

// SetSimClock records the current simulated clock time, in simulated
// seconds.
func SetSimClock(seconds float64) {
	simClock.Set(seconds)
}

// SetCurrentFloor records an elevator's current floor.
func SetCurrentFloor(elevatorName string, floor float64) {
	currentFloor.With(prometheus.Labels{elevatorNameLabel: elevatorName}).Set(floor)
}

// SetOccupancy records an elevator's current rider count.
func SetOccupancy(elevatorName string, riders float64) {
	occupancy.With(prometheus.Labels{elevatorNameLabel: elevatorName}).Set(riders)
}

// IncDispatch counts one dispatch decision of the given action kind for
// elevatorName.
func IncDispatch(elevatorName, action string) {
	dispatchTotal.With(prometheus.Labels{elevatorNameLabel: elevatorName, "action": action}).Inc()
}

// IncDoorReopen counts one extra boarding pass after the dwell wait found
// a rider who arrived during it.
func IncDoorReopen(elevatorName string) {
	doorReopenTotal.With(prometheus.Labels{elevatorNameLabel: elevatorName}).Inc()
}

// ObserveRequestWait records one rider's wait time, in simulated seconds.
func ObserveRequestWait(seconds float64) {
	requestWaitSeconds.Observe(seconds)
}

// SetCircuitBreakerState records the controller's circuit breaker state as
// 0 (closed), 1 (open), or 2 (half-open).
func SetCircuitBreakerState(state float64) {
	circuitBreakerState.Set(state)
}

// IncHTTPRequest counts one httpapi request, labeled by method, path and
// response status.
func IncHTTPRequest(method, path, status string) {
	httpRequestsTotal.With(prometheus.Labels{"method": method, "path": path, "status": status}).Inc()
}

// IncHTTPError counts one httpapi-layer error of the given kind (e.g.
// "panic", "bad_request").
func IncHTTPError(kind string) {
	httpErrorsTotal.With(prometheus.Labels{"kind": kind}).Inc()
}
