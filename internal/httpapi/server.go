package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nkuranov/elevsim/internal/infra/health"
	"github.com/nkuranov/elevsim/internal/infra/logging"
	"github.com/nkuranov/elevsim/internal/infra/observability"
)

// Config carries the subset of infra/config.Config the httpapi surface
// needs to stand up its server.
type Config struct {
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	RateLimitRPM    int
	CORSOrigins     string
}

// Server exposes a simulation run's status over REST, Prometheus, and a
// replaying WebSocket.
type Server struct {
	cfg        Config
	httpServer *http.Server
	logger     *slog.Logger
	health     *health.HealthService
	snap       *Snapshotter
	recorder   *Recorder
}

var upgrader = websocket.Upgrader{
	CheckOrigin:     func(r *http.Request) bool { return true },
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// NewServer builds a Server bound to snap/recorder and listening on port.
// telemetry may be nil; when present, every request is traced and metered
// through it in addition to the Prometheus counters LoggingMiddleware
// records directly.
func NewServer(cfg Config, port int, snap *Snapshotter, recorder *Recorder, telemetry *observability.TelemetryProvider, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:      cfg,
		logger:   logger.With(slog.String("component", "httpapi")),
		health:   health.NewHealthService(30 * time.Second),
		snap:     snap,
		recorder: recorder,
	}
	s.setupHealthChecks()

	rateLimiter := NewRateLimitMiddleware(cfg.RateLimitRPM, s.logger)
	chainLinks := []Middleware{
		RequestIDMiddleware(),
		LoggingMiddleware(s.logger),
		RecoveryMiddleware(s.logger),
		CORSMiddleware(cfg.CORSOrigins),
		SecurityHeadersMiddleware(),
		rateLimiter.Handler(),
	}
	if telemetry != nil {
		chainLinks = append([]Middleware{telemetry.TelemetryMiddleware()}, chainLinks...)
	}
	chain := ChainMiddleware(chainLinks...)

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/report", s.reportHandler)
	mux.HandleFunc("/v1/health", s.healthHandler)
	mux.HandleFunc("/v1/health/live", s.livenessHandler)
	mux.HandleFunc("/v1/health/ready", s.readinessHandler)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/ws/report", s.reportWebSocketHandler)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      chain(mux),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return s
}

func (s *Server) setupHealthChecks() {
	s.health.Register(health.NewSystemResourceChecker(85.0, 1000))
	s.health.Register(health.NewLivenessChecker())

	fleetChecker := health.NewComponentHealthChecker("fleet", func(ctx context.Context) (bool, string, map[string]interface{}) {
		report := s.snap.Report()
		details := map[string]interface{}{
			"elevator_count":   len(report.Elevators),
			"completed_trips":  report.Trips.Completed,
			"sim_time_seconds": float64(report.SimTime),
		}
		if len(report.Elevators) == 0 {
			return false, "no elevators configured", details
		}
		return true, "fleet reporting", details
	})
	s.health.Register(fleetChecker)
	s.health.Register(health.NewReadinessChecker(fleetChecker))
}

// Handler returns the server's composed http.Handler, for use with
// httptest.NewServer in tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins serving; it blocks until Shutdown is called.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) reportHandler(w http.ResponseWriter, r *http.Request) {
	requestID := logging.GetRequestID(r.Context())
	rw := NewResponseWriter(w, s.logger, requestID)
	if r.Method != http.MethodGet {
		rw.WriteError(http.StatusMethodNotAllowed, ErrorCodeMethodNotAllowed, "method not allowed", "")
		return
	}
	rw.WriteJSON(http.StatusOK, s.snap.Report())
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	overall, results := s.health.GetOverallStatus(r.Context())
	statusCode := http.StatusOK
	if overall == health.StatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}
	writeHealthJSON(w, statusCode, map[string]interface{}{"status": overall, "checks": results})
}

func (s *Server) livenessHandler(w http.ResponseWriter, r *http.Request) {
	result, err := s.health.Check(r.Context(), "liveness")
	if err != nil {
		http.Error(w, "liveness check failed", http.StatusServiceUnavailable)
		return
	}
	statusCode := http.StatusOK
	if result.Status != health.StatusHealthy {
		statusCode = http.StatusServiceUnavailable
	}
	writeHealthJSON(w, statusCode, result)
}

func (s *Server) readinessHandler(w http.ResponseWriter, r *http.Request) {
	result, err := s.health.Check(r.Context(), "readiness")
	if err != nil {
		http.Error(w, "readiness check failed", http.StatusServiceUnavailable)
		return
	}
	statusCode := http.StatusOK
	if result.Status != health.StatusHealthy {
		statusCode = http.StatusServiceUnavailable
	}
	writeHealthJSON(w, statusCode, result)
}

func writeHealthJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

// reportWebSocketHandler replays the run's recorded snapshots to the
// client at a fixed wall-clock cadence, then streams one live Report every
// few seconds for as long as the connection stays open. Simulated time is
// computed instantaneously by Run, so "live" here means the most recent
// state of an already-finished (or still executing, for a long RunUntil)
// simulation — not a real-time elevator feed.
func (s *Server) reportWebSocketHandler(w http.ResponseWriter, r *http.Request) {
	ctx := logging.NewContextWithCorrelation(r.Context())
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.ErrorContext(ctx, "websocket upgrade failed", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	for _, snap := range s.recorder.Snapshots() {
		if err := conn.WriteJSON(snap); err != nil {
			return
		}
	}

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if err := conn.WriteJSON(s.snap.Report()); err != nil {
				return
			}
		}
	}
}
