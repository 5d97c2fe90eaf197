// Command simrunner drives one discrete-event simulation run end to end:
// load configuration, build the building/fleet/workload, run the
// simulator to completion, then serve the run's report over HTTP until a
// shutdown signal arrives. Wiring order follows the teacher's
// cmd/server/main.go (config -> logging -> domain objects -> HTTP server
// -> signal-based graceful shutdown).
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nkuranov/elevsim/internal/controller"
	"github.com/nkuranov/elevsim/internal/domain"
	"github.com/nkuranov/elevsim/internal/elevatormodel"
	"github.com/nkuranov/elevsim/internal/httpapi"
	"github.com/nkuranov/elevsim/internal/infra/config"
	"github.com/nkuranov/elevsim/internal/infra/logging"
	"github.com/nkuranov/elevsim/internal/infra/observability"
	"github.com/nkuranov/elevsim/internal/monitor"
	"github.com/nkuranov/elevsim/internal/sim"
	"github.com/nkuranov/elevsim/internal/workload"
)

func main() {
	cfg, err := config.InitConfig()
	if err != nil {
		slog.Error("failed to initialize configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logging.InitLogger(cfg.LogLevel)

	obsCfg, err := observability.LoadObservabilityConfig()
	if err != nil {
		slog.Error("failed to load observability configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	telemetry, err := observability.NewTelemetryProvider(obsCfg, slog.With(slog.String("component", "observability")))
	if err != nil {
		slog.Error("failed to initialize telemetry provider", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := logging.NewContextWithRunID(context.Background())
	slog.InfoContext(ctx, "simulation run starting",
		slog.String("environment", cfg.Environment),
		slog.Int("floor_count", cfg.FloorCount),
		slog.Int("capacity", cfg.Capacity),
		slog.Int("elevator_count", cfg.ElevatorCount),
		slog.Float64("run_until", cfg.RunUntil),
		slog.Int64("random_seed", cfg.RandomSeed))

	s := sim.New()
	mon := monitor.New()

	elevators := make([]*elevatormodel.Elevator, cfg.ElevatorCount)
	for i := range elevators {
		name := fmt.Sprintf("elevator-%d", i+1)
		elevators[i] = elevatormodel.New(name, domain.NewFloor(0), domain.NewFloor(cfg.FloorCount-1), cfg.Capacity)
	}

	timing := controller.Timing{
		Velocity: sim.Time(cfg.TVelocity),
		Accel:    sim.Time(cfg.TAccel),
		Door:     sim.Time(cfg.TDoor),
		DoorWait: sim.Time(cfg.TDoorWait),
		Person:   sim.Time(cfg.TPerson),
	}

	snap := &httpapi.Snapshotter{Sim: s}
	recorder := httpapi.NewRecorder(snap, sim.Time(cfg.RunUntil)/200)

	ctl := controller.New(s, cfg.FloorCount, elevators, timing, selectPolicy(cfg.Policy), httpapi.Fanout(mon, recorder),
		slog.With(slog.String("component", "controller")))
	snap.Ctrl = ctl
	snap.Mon = mon
	ctl.Start()

	driver := workload.New(workload.Config{
		ArrivalRateLambda: cfg.ArrivalRateLambda,
		FloorCount:        cfg.FloorCount,
		Hooks:             mon.Hooks(),
	}, cfg.RandomSeed, ctl)
	s.Spawn(func(ctx *sim.Context) { driver.Run(ctx) })

	runCtx, span := telemetry.CreateSpan(ctx, "simulation_run")
	runStart := time.Now()
	s.Run(sim.Time(cfg.RunUntil))
	telemetry.RecordMetric(runCtx, "simulation_completed_trips", float64(mon.Count()), nil)
	telemetry.SendTrace(runCtx, span)
	span.End()
	slog.InfoContext(ctx, "simulation run complete",
		slog.Duration("wall_clock", time.Since(runStart)),
		slog.Float64("sim_time", float64(s.Now())),
		slog.Int("completed_trips", mon.Count()),
		slog.Float64("mean_wait", float64(mon.MeanWait())),
		slog.Float64("mean_total", float64(mon.MeanTotal())))

	if !cfg.MetricsEnabled && !cfg.WebSocketEnabled {
		shutdownTelemetry(ctx, telemetry)
		return
	}

	server := httpapi.NewServer(httpapi.Config{
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		IdleTimeout:     cfg.IdleTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
		RateLimitRPM:    cfg.RateLimitRPM,
		CORSOrigins:     cfg.CORSAllowedOrigins,
	}, cfg.Port, snap, recorder, telemetry, slog.With(slog.String("component", "httpapi")))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	serverErr := make(chan error, 1)
	go func() {
		slog.InfoContext(ctx, "serving simulation report", slog.Int("port", cfg.Port))
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		slog.ErrorContext(ctx, "httpapi server failed", slog.String("error", err.Error()))
		os.Exit(1)
	case sig := <-quit:
		slog.InfoContext(ctx, "received shutdown signal", slog.String("signal", sig.String()))
	}

	if err := server.Shutdown(); err != nil {
		slog.ErrorContext(ctx, "httpapi server shutdown failed", slog.String("error", err.Error()))
	}
	shutdownTelemetry(ctx, telemetry)
	slog.InfoContext(ctx, "shutdown complete", slog.Duration("grace_period", cfg.ShutdownGrace))
	time.Sleep(cfg.ShutdownGrace)
}

// shutdownTelemetry flushes and closes the telemetry provider, logging but
// not failing the process on error since it runs during an already-decided
// shutdown.
func shutdownTelemetry(ctx context.Context, telemetry *observability.TelemetryProvider) {
	if telemetry == nil {
		return
	}
	if err := telemetry.Shutdown(ctx); err != nil {
		slog.ErrorContext(ctx, "telemetry shutdown failed", slog.String("error", err.Error()))
	}
}

// selectPolicy maps the POLICY config value to a controller.Policy.
// InitConfig's validateConfiguration already rejects any other value, so
// the default case here is unreachable in practice; it still falls back to
// NearestFloorPolicy (controller.New's own nil default) rather than panic.
func selectPolicy(name string) controller.Policy {
	switch name {
	case "scan_outward":
		return controller.ScanOutwardPolicy{}
	default:
		return controller.NearestFloorPolicy{}
	}
}
