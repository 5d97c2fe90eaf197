// Package config loads simulation parameters from the environment using
// the teacher's caarlos0/env struct-tag pipeline: parse, apply
// environment-specific defaults, then validate (internal/infra/config/config.go).
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env"

	"github.com/nkuranov/elevsim/internal/domain"
)

// Config is every external parameter named in spec.md §6, plus the HTTP
// and observability surface's own settings.
type Config struct {
	Environment string `env:"ENV" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"INFO"`

	// Building and fleet shape.
	FloorCount    int `env:"F" envDefault:"10"`
	Capacity      int `env:"C" envDefault:"8"`
	ElevatorCount int `env:"N" envDefault:"3"`

	// Timing constants, in seconds of simulated time.
	TVelocity float64 `env:"T_VELOCITY" envDefault:"2.0"`
	TAccel    float64 `env:"T_ACCEL" envDefault:"1.0"`
	TDoor     float64 `env:"T_DOOR" envDefault:"1.5"`
	TDoorWait float64 `env:"T_DOOR_WAIT" envDefault:"3.0"`
	TPerson   float64 `env:"T_PERSON" envDefault:"1.0"`

	// Workload.
	ArrivalRateLambda float64 `env:"ARRIVAL_RATE_LAMBDA" envDefault:"0.2"`
	RandomSeed        int64   `env:"RANDOM_SEED" envDefault:"1"`
	RunUntil          float64 `env:"RUN_UNTIL" envDefault:"3600"`

	// Policy selects the dispatch policy: "nearest" (default, spec.md
	// §4.4.1's simple_policy) or "scan_outward" (the elevator.py original's
	// idle-acquisition rule, see controller.ScanOutwardPolicy).
	Policy string `env:"POLICY" envDefault:"nearest"`

	Debug bool `env:"DEBUG" envDefault:"false"`

	// HTTP surface.
	Port            int           `env:"PORT" envDefault:"6660"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"30s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"30s"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"120s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	ShutdownGrace   time.Duration `env:"SERVER_SHUTDOWN_GRACE" envDefault:"2s"`

	RateLimitRPM       int    `env:"RATE_LIMIT_RPM" envDefault:"100"`
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*"`

	MetricsEnabled    bool `env:"METRICS_ENABLED" envDefault:"true"`
	WebSocketEnabled  bool `env:"WEBSOCKET_ENABLED" envDefault:"true"`
	StructuredLogging bool `env:"STRUCTURED_LOGGING" envDefault:"true"`
}

// InitConfig parses environment variables, applies environment-specific
// defaults, and validates the result.
func InitConfig() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}

	applyEnvironmentDefaults(&cfg)

	if err := validateConfiguration(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

func applyEnvironmentDefaults(cfg *Config) {
	switch cfg.Environment {
	case "development", "dev":
		if cfg.LogLevel == "INFO" {
			cfg.LogLevel = "DEBUG"
		}
	case "testing", "test":
		cfg.LogLevel = "WARN"
		cfg.MetricsEnabled = false
		cfg.WebSocketEnabled = false
	case "production", "prod":
		cfg.LogLevel = "WARN"
	}
}

// validateConfiguration checks the invariants spec.md §7 requires of the
// configuration before a Simulator is built from it.
func validateConfiguration(cfg *Config) error {
	if cfg.FloorCount < 2 {
		return domain.NewValidationError("floor count F must be >= 2", domain.ErrFloorCountTooSmall).
			WithContext("floor_count", cfg.FloorCount)
	}
	if cfg.Capacity < 1 {
		return domain.NewValidationError("elevator capacity C must be >= 1", domain.ErrCapacityTooSmall).
			WithContext("capacity", cfg.Capacity)
	}
	if cfg.ElevatorCount < 1 {
		return domain.NewValidationError("elevator count N must be >= 1", domain.ErrElevatorCountZero).
			WithContext("elevator_count", cfg.ElevatorCount)
	}
	for name, v := range map[string]float64{
		"t_velocity":  cfg.TVelocity,
		"t_accel":     cfg.TAccel,
		"t_door":      cfg.TDoor,
		"t_door_wait": cfg.TDoorWait,
		"t_person":    cfg.TPerson,
	} {
		if v <= 0 {
			return domain.NewValidationError("timing constants must be positive", domain.ErrNonPositiveDuration).
				WithContext(name, v)
		}
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return domain.NewValidationError("port must be between 1 and 65535", nil).
			WithContext("port", cfg.Port)
	}
	switch cfg.Policy {
	case "nearest", "scan_outward":
	default:
		return domain.NewValidationError("policy must be one of: nearest, scan_outward", nil).
			WithContext("policy", cfg.Policy)
	}
	return nil
}

// IsProduction reports whether the configured environment is production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// IsDevelopment reports whether the configured environment is development.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "dev"
}

// IsTesting reports whether the configured environment is testing.
func (c *Config) IsTesting() bool {
	return c.Environment == "testing" || c.Environment == "test"
}
