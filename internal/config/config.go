// Package config loads and validates configuration at startup.
// Fail-fast: if a required variable is missing or a value is invalid,
// Load returns an error and the process exits.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all runtime configuration for the tracker service.
type Config struct {
	Server    ServerConfig   `yaml:"server"`
	Database  DatabaseConfig `yaml:"database"`
	Redis     RedisConfig    `yaml:"redis"`
	Events    EventsConfig   `yaml:"events"`
	Reminders ReminderConfig `yaml:"reminders"`
	Log       LogConfig      `yaml:"log"`
}

// ServerConfig holds transport settings.
type ServerConfig struct {
	Port            string        `yaml:"port"             env:"TRACKER_PORT"             env-default:"8082"`
	GRPCPort        string        `yaml:"grpc_port"        env:"TRACKER_GRPC_PORT"        env-default:"9082"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"TRACKER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"TRACKER_WRITE_TIMEOUT"    env-default:"10s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"TRACKER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	// Timezone is the reference zone for calendar-day logic and export timestamps.
	Timezone string `yaml:"timezone" env:"TRACKER_TIMEZONE" env-default:"UTC"`

	// Location is resolved from Timezone during validation.
	Location *time.Location `yaml:"-" env:"-"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	URL             string        `yaml:"url"                env:"DATABASE_URL"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"10"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"1"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	URL string `yaml:"url" env:"REDIS_URL" env-required:"true"`
}

// EventsConfig selects where domain events are published.
type EventsConfig struct {
	Backend string `yaml:"backend"  env:"EVENTS_BACKEND" env-default:"redis"` // redis | nats | none
	NATSURL string `yaml:"nats_url" env:"NATS_URL"`
}

// ReminderConfig holds follow-up reminder settings.
type ReminderConfig struct {
	SchedulerEnabled bool          `yaml:"scheduler_enabled" env:"REMINDER_SCHEDULER_ENABLED" env-default:"true"`
	IntervalHours    int           `yaml:"interval_hours"    env:"REMINDER_INTERVAL_HOURS"    env-default:"6"`
	DismissTTL       time.Duration `yaml:"dismiss_ttl"       env:"REMINDER_DISMISS_TTL"       env-default:"24h"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// Load reads configuration from an optional YAML file and environment variables.
// Priority: ENV > YAML > defaults (via env-default tags).
// The YAML file path is CONFIG_PATH (fallback "./config.yaml"); a missing
// fallback file is not an error.
func Load() (*Config, error) {
	var cfg Config

	path := os.Getenv("CONFIG_PATH")
	explicitPath := path != ""
	if !explicitPath {
		path = "./config.yaml"
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if explicitPath {
		return nil, fmt.Errorf("config: file %s: %w", path, err)
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

// Validate checks cross-field constraints and resolves derived values.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("TRACKER_PORT must not be empty")
	}
	loc, err := time.LoadLocation(c.Server.Timezone)
	if err != nil {
		return fmt.Errorf("TRACKER_TIMEZONE %q: %w", c.Server.Timezone, err)
	}
	c.Server.Location = loc

	if c.Database.MaxConns < 1 {
		return fmt.Errorf("DATABASE_MAX_CONNS must be positive, got %d", c.Database.MaxConns)
	}
	if c.Database.MinConns < 0 || c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("DATABASE_MIN_CONNS must be between 0 and DATABASE_MAX_CONNS, got %d", c.Database.MinConns)
	}

	switch strings.ToLower(c.Events.Backend) {
	case "redis", "none":
	case "nats":
		if c.Events.NATSURL == "" {
			return fmt.Errorf("NATS_URL is required when EVENTS_BACKEND=nats")
		}
	default:
		return fmt.Errorf("EVENTS_BACKEND must be redis, nats, or none, got %q", c.Events.Backend)
	}

	if c.Reminders.IntervalHours < 1 {
		return fmt.Errorf("REMINDER_INTERVAL_HOURS must be a positive integer, got %d", c.Reminders.IntervalHours)
	}
	if c.Reminders.DismissTTL <= 0 {
		return fmt.Errorf("REMINDER_DISMISS_TTL must be positive, got %s", c.Reminders.DismissTTL)
	}

	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.Log.Format)
	}
	return nil
}
