package config

import (
	"fmt"
	"time"
)

// Config is the root configuration structure for the Perch server.
// It is loaded once at startup from an optional YAML file, defaults,
// and environment variable overrides, and is immutable afterwards.
type Config struct {
	// Server contains HTTP server configuration including listen port,
	// timeouts, and the graceful shutdown grace period.
	Server ServerConfig `yaml:"server"`

	// Assets contains content delivery configuration for both the
	// production static directory and the development source tree.
	Assets AssetsConfig `yaml:"assets"`

	// RateLimit contains fixed-window rate limiting settings applied to
	// the monitored API prefix in production mode.
	RateLimit RateLimitConfig `yaml:"rate_limit"`

	// Store contains application store (SQLite) configuration.
	Store StoreConfig `yaml:"store"`

	// Logging contains log level and output format settings.
	Logging LoggingConfig `yaml:"logging"`

	// Maintenance contains cron schedules for background housekeeping.
	Maintenance MaintenanceConfig `yaml:"maintenance"`

	// Mode is the resolved server mode. It is computed once during Load
	// from environment signals and never read from the file.
	Mode Mode `yaml:"-"`

	// DevPipeline reports whether the development transform pipeline
	// should be activated. Only meaningful when Mode is Development.
	DevPipeline bool `yaml:"-"`
}

// ServerConfig contains configuration for the HTTP server.
type ServerConfig struct {
	// Host is the interface to bind. Empty binds all interfaces.
	Host string `yaml:"host"`

	// Port is the TCP port to listen on.
	// Default: 5000, overridden by the PORT environment variable.
	Port int `yaml:"port"`

	// ReadTimeout is the maximum duration for reading the entire
	// request, including the body.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of
	// the response.
	// Default: 30s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum time to wait for the next request when
	// keep-alives are enabled.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// MaxHeaderBytes caps the size of request headers.
	// Default: 1MB
	MaxHeaderBytes int `yaml:"max_header_bytes"`

	// ShutdownGrace is how long in-flight connections are allowed to
	// drain after a termination signal before the process force-exits.
	// Default: 10s
	ShutdownGrace time.Duration `yaml:"shutdown_grace"`

	// MaxBodyBytes caps request body size for JSON and form payloads.
	// Default: 10MB
	MaxBodyBytes int64 `yaml:"max_body_bytes"`
}

// AssetsConfig contains configuration for content delivery.
type AssetsConfig struct {
	// DistDir is the directory of prebuilt static assets served in
	// production mode.
	// Default: "dist/public"
	DistDir string `yaml:"dist_dir"`

	// SourceDir is the client source tree read by the development
	// transform pipeline.
	// Default: "client"
	SourceDir string `yaml:"source_dir"`

	// Shell is the application shell document, relative to DistDir or
	// SourceDir depending on mode.
	// Default: "index.html"
	Shell string `yaml:"shell"`

	// EntryScript is the src attribute of the shell's entry script tag.
	// The development pipeline appends a cache-busting token to it on
	// every render.
	// Default: "/src/main.js"
	EntryScript string `yaml:"entry_script"`
}

// RateLimitConfig contains fixed-window rate limiting settings.
type RateLimitConfig struct {
	// Window is the fixed window duration.
	// Default: 15m
	Window time.Duration `yaml:"window"`

	// MaxRequests is the number of requests allowed per client per
	// window on the monitored prefix.
	// Default: 100
	MaxRequests int `yaml:"max_requests"`

	// Message is returned to clients that exceed the limit.
	Message string `yaml:"message"`
}

// StoreConfig contains application store configuration.
type StoreConfig struct {
	// Path is the SQLite database file path.
	// Default: "data/perch.db"
	Path string `yaml:"path"`

	// BusyTimeout is how long to wait for database locks.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the output format: "json" or "text".
	// Default: "json"
	Format string `yaml:"format"`
}

// MaintenanceConfig contains cron schedules for background jobs.
// Empty schedules disable the corresponding job.
type MaintenanceConfig struct {
	// SweepSchedule controls expired rate-limit window cleanup.
	// Default: "*/15 * * * *"
	SweepSchedule string `yaml:"sweep_schedule"`

	// CheckpointSchedule controls store WAL checkpointing.
	// Default: "0 * * * *"
	CheckpointSchedule string `yaml:"checkpoint_schedule"`
}

// ListenAddress returns the host:port pair the server binds.
func (c ServerConfig) ListenAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
