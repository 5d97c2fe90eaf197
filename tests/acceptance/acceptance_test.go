package acceptance

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/nkuranov/elevsim/internal/controller"
	"github.com/nkuranov/elevsim/internal/domain"
	"github.com/nkuranov/elevsim/internal/elevatormodel"
	"github.com/nkuranov/elevsim/internal/httpapi"
	"github.com/nkuranov/elevsim/internal/infra/logging"
	"github.com/nkuranov/elevsim/internal/monitor"
	"github.com/nkuranov/elevsim/internal/sim"
	"github.com/nkuranov/elevsim/internal/workload"
)

// AcceptanceSuite runs a small simulation to completion and exercises the
// httpapi surface end to end over a real httptest.Server, the way the
// teacher's AcceptanceTestSuite drove its manager/http stack.
type AcceptanceSuite struct {
	suite.Suite
	testSrv *httptest.Server
	snap    *httpapi.Snapshotter
}

func (suite *AcceptanceSuite) SetupSuite() {
	logging.InitLogger("ERROR")

	s := sim.New()
	mon := monitor.New()
	elevators := []*elevatormodel.Elevator{
		elevatormodel.New("elevator-1", domain.NewFloor(0), domain.NewFloor(9), 8),
	}
	timing := controller.Timing{Velocity: 1, Accel: 1, Door: 1, DoorWait: 2, Person: 0.2}

	snap := &httpapi.Snapshotter{Sim: s}
	recorder := httpapi.NewRecorder(snap, 5)
	ctl := controller.New(s, 10, elevators, timing, nil, httpapi.Fanout(mon, recorder), nil)
	snap.Ctrl = ctl
	snap.Mon = mon
	ctl.Start()

	driver := workload.New(workload.Config{ArrivalRateLambda: 0.5, FloorCount: 10, Hooks: mon.Hooks()}, 7, ctl)
	s.Spawn(func(ctx *sim.Context) { driver.Run(ctx) })
	s.Run(200)

	suite.snap = snap
	server := httpapi.NewServer(httpapi.Config{RateLimitRPM: 10000, CORSOrigins: "*"}, 0, snap, recorder, nil, nil)
	suite.testSrv = httptest.NewServer(server.Handler())
}

func (suite *AcceptanceSuite) TearDownSuite() {
	if suite.testSrv != nil {
		suite.testSrv.Close()
	}
}

func (suite *AcceptanceSuite) TestReportReflectsCompletedRun() {
	resp, err := http.Get(suite.testSrv.URL + "/v1/report")
	require.NoError(suite.T(), err)
	defer resp.Body.Close()
	assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(suite.T(), err)

	var envelope struct {
		Success bool           `json:"success"`
		Data    httpapi.Report `json:"data"`
	}
	require.NoError(suite.T(), json.Unmarshal(body, &envelope))
	assert.True(suite.T(), envelope.Success)
	assert.Len(suite.T(), envelope.Data.Elevators, 1)
	assert.Equal(suite.T(), suite.snap.Report().Trips.Completed, envelope.Data.Trips.Completed)
}

func (suite *AcceptanceSuite) TestHealthEndpointsServeOK() {
	for _, path := range []string{"/v1/health", "/v1/health/live", "/v1/health/ready"} {
		resp, err := http.Get(suite.testSrv.URL + path)
		require.NoError(suite.T(), err)
		resp.Body.Close()
		assert.Equal(suite.T(), http.StatusOK, resp.StatusCode, "path %s", path)
	}
}

func (suite *AcceptanceSuite) TestMetricsEndpointExposesPrometheusFormat() {
	resp, err := http.Get(suite.testSrv.URL + "/metrics")
	require.NoError(suite.T(), err)
	defer resp.Body.Close()
	assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(suite.T(), err)
	assert.Contains(suite.T(), string(body), "elevsim_sim_clock_seconds")
}

func TestAcceptanceSuite(t *testing.T) {
	suite.Run(t, new(AcceptanceSuite))
}
