package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Load builds the configuration from an optional YAML file, defaults,
// and environment variable overrides, then validates the result and
// resolves the server mode.
//
// The loading sequence is:
//  1. Parse the YAML file, if path is non-empty and the file exists
//  2. Apply default values
//  3. Apply environment variable overrides (PORT, PERCH_*)
//  4. Validate the final configuration
//  5. Resolve Mode and DevPipeline from environment signals
//
// A missing config file is not an error; everything has a default.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
		}
	}

	ApplyDefaults(&cfg)
	if err := applyEnvOverrides(&cfg, os.Getenv); err != nil {
		return nil, err
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	cfg.Mode = DetectMode(os.Getenv, cfg.Server.Port)
	cfg.DevPipeline = DevPipelineWanted(cfg.Mode, os.Getenv)

	return &cfg, nil
}

// applyEnvOverrides applies environment variable overrides. Variables
// follow the PERCH_SECTION_FIELD convention; PORT is honored as the
// conventional bind-port override and takes precedence over
// PERCH_SERVER_PORT. A set-but-unparsable value is a configuration
// error, not something to silently ignore.
func applyEnvOverrides(cfg *Config, getenv GetenvFunc) error {
	if val := getenv("PERCH_SERVER_HOST"); val != "" {
		cfg.Server.Host = val
	}
	if err := overrideInt(getenv, "PERCH_SERVER_PORT", &cfg.Server.Port); err != nil {
		return err
	}
	if err := overrideInt(getenv, EnvPort, &cfg.Server.Port); err != nil {
		return err
	}
	if err := overrideDuration(getenv, "PERCH_SERVER_SHUTDOWN_GRACE", &cfg.Server.ShutdownGrace); err != nil {
		return err
	}
	if val := getenv("PERCH_SERVER_MAX_BODY_BYTES"); val != "" {
		n, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid PERCH_SERVER_MAX_BODY_BYTES %q: %w", val, err)
		}
		cfg.Server.MaxBodyBytes = n
	}

	if val := getenv("PERCH_ASSETS_DIST_DIR"); val != "" {
		cfg.Assets.DistDir = val
	}
	if val := getenv("PERCH_ASSETS_SOURCE_DIR"); val != "" {
		cfg.Assets.SourceDir = val
	}

	if err := overrideDuration(getenv, "PERCH_RATE_LIMIT_WINDOW", &cfg.RateLimit.Window); err != nil {
		return err
	}
	if err := overrideInt(getenv, "PERCH_RATE_LIMIT_MAX_REQUESTS", &cfg.RateLimit.MaxRequests); err != nil {
		return err
	}

	if val := getenv("PERCH_STORE_PATH"); val != "" {
		cfg.Store.Path = val
	}

	if val := getenv("PERCH_LOGGING_LEVEL"); val != "" {
		cfg.Logging.Level = val
	}
	if val := getenv("PERCH_LOGGING_FORMAT"); val != "" {
		cfg.Logging.Format = val
	}

	return nil
}

func overrideInt(getenv GetenvFunc, key string, dst *int) error {
	val := getenv(key)
	if val == "" {
		return nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, val, err)
	}
	*dst = n
	return nil
}

func overrideDuration(getenv GetenvFunc, key string, dst *time.Duration) error {
	val := getenv(key)
	if val == "" {
		return nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, val, err)
	}
	*dst = d
	return nil
}
