package config

import "time"

// Default values for configuration fields.
const (
	// Server defaults
	DefaultHost           = ""
	DefaultPort           = 5000
	DefaultReadTimeout    = 30 * time.Second
	DefaultWriteTimeout   = 30 * time.Second
	DefaultIdleTimeout    = 120 * time.Second
	DefaultMaxHeaderBytes = 1048576 // 1MB
	DefaultShutdownGrace  = 10 * time.Second
	DefaultMaxBodyBytes   = int64(10 << 20) // 10MB

	// Assets defaults
	DefaultDistDir     = "dist/public"
	DefaultSourceDir   = "client"
	DefaultShell       = "index.html"
	DefaultEntryScript = "/src/main.js"

	// Rate limit defaults
	DefaultRateLimitWindow  = 15 * time.Minute
	DefaultRateLimitMax     = 100
	DefaultRateLimitMessage = "Too many requests, please try again later."

	// Store defaults
	DefaultStorePath        = "data/perch.db"
	DefaultStoreBusyTimeout = 5 * time.Second

	// Logging defaults
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	// Maintenance defaults
	DefaultSweepSchedule      = "*/15 * * * *"
	DefaultCheckpointSchedule = "0 * * * *"
)

// ApplyDefaults fills zero-valued configuration fields with defaults.
// Explicitly configured values are never overwritten.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultPort
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.MaxHeaderBytes == 0 {
		cfg.Server.MaxHeaderBytes = DefaultMaxHeaderBytes
	}
	if cfg.Server.ShutdownGrace == 0 {
		cfg.Server.ShutdownGrace = DefaultShutdownGrace
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = DefaultMaxBodyBytes
	}

	if cfg.Assets.DistDir == "" {
		cfg.Assets.DistDir = DefaultDistDir
	}
	if cfg.Assets.SourceDir == "" {
		cfg.Assets.SourceDir = DefaultSourceDir
	}
	if cfg.Assets.Shell == "" {
		cfg.Assets.Shell = DefaultShell
	}
	if cfg.Assets.EntryScript == "" {
		cfg.Assets.EntryScript = DefaultEntryScript
	}

	if cfg.RateLimit.Window == 0 {
		cfg.RateLimit.Window = DefaultRateLimitWindow
	}
	if cfg.RateLimit.MaxRequests == 0 {
		cfg.RateLimit.MaxRequests = DefaultRateLimitMax
	}
	if cfg.RateLimit.Message == "" {
		cfg.RateLimit.Message = DefaultRateLimitMessage
	}

	if cfg.Store.Path == "" {
		cfg.Store.Path = DefaultStorePath
	}
	if cfg.Store.BusyTimeout == 0 {
		cfg.Store.BusyTimeout = DefaultStoreBusyTimeout
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLogLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLogFormat
	}

	if cfg.Maintenance.SweepSchedule == "" {
		cfg.Maintenance.SweepSchedule = DefaultSweepSchedule
	}
	if cfg.Maintenance.CheckpointSchedule == "" {
		cfg.Maintenance.CheckpointSchedule = DefaultCheckpointSchedule
	}
}
