package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"skylarkhq/perch/pkg/config"
	"skylarkhq/perch/pkg/content"
	"skylarkhq/perch/pkg/maintenance"
	"skylarkhq/perch/pkg/middleware"
	"skylarkhq/perch/pkg/routes"
	"skylarkhq/perch/pkg/server"
	"skylarkhq/perch/pkg/store"
	"skylarkhq/perch/pkg/telemetry/health"
	"skylarkhq/perch/pkg/telemetry/metrics"
)

var serveFlags struct {
	port     int
	logLevel string
	dryRun   bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the application server",
	Long: `Start the application server.

The server mode is resolved once at startup from environment signals
(PERCH_ENV, PERCH_DEV_HOST, PORT) and is immutable for the process
lifetime. Production serves static assets; a development run activates
the live transform pipeline, falling back to static serving if the
pipeline cannot initialize.

Examples:
  # Start with defaults (port 5000)
  perch serve

  # Start on a specific port
  perch serve --port 8080

  # Validate config without starting
  perch serve --dry-run`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVarP(&serveFlags.port, "port", "p", 0, "override bind port")
	serveCmd.Flags().StringVar(&serveFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	serveCmd.Flags().BoolVar(&serveFlags.dryRun, "dry-run", false, "validate config without starting the server")
}

// runServe is the ordered startup routine: config → logging → store
// (degradable) → instrumentation → middleware pipeline → route
// registrar → content adapter → lifecycle coordinator. The store is
// the only degradation point; everything after it either succeeds or
// aborts startup.
func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if serveFlags.port != 0 {
		cfg.Server.Port = serveFlags.port
		cfg.Mode = config.DetectMode(os.Getenv, cfg.Server.Port)
		cfg.DevPipeline = config.DevPipelineWanted(cfg.Mode, os.Getenv)
	}
	if serveFlags.logLevel != "" {
		cfg.Logging.Level = serveFlags.logLevel
	}

	logger, err := newLogger(cfg.Logging)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	if serveFlags.dryRun {
		fmt.Printf("configuration valid (mode: %s, port: %d)\n", cfg.Mode, cfg.Server.Port)
		return nil
	}

	logger.Info("starting",
		"mode", cfg.Mode,
		"dev_pipeline", cfg.DevPipeline,
		"port", cfg.Server.Port,
	)

	trap := server.NewFaultTrap(logger, os.Exit)

	// Store failure must never prevent startup; the server runs
	// degraded and health reporting carries the detail.
	st, err := store.Open(cfg.Store)
	if err != nil {
		logger.Warn("store initialization failed, continuing without persistence", "error", err)
		st = nil
	}

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	checker := health.New(0)
	if st != nil {
		checker.Register("store", st.Ping)
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimit)

	r := chi.NewRouter()
	for _, mw := range middleware.Chain(cfg, limiter, collector, logger) {
		r.Use(mw)
	}

	registrar := routes.NewAPI(st, checker, logger)
	if err := registrar.Register(r); err != nil {
		return fmt.Errorf("route registration failed: %w", err)
	}
	r.Method("GET", "/metrics", collector.Handler())

	adapter := content.New(cfg, logger, trap)
	r.NotFound(adapter.Handler().ServeHTTP)

	sched := maintenance.New(cfg.Maintenance, logger)
	if err := sched.AddSweep(limiter.Sweep); err != nil {
		return err
	}
	if st != nil {
		if err := sched.AddCheckpoint(st.Checkpoint); err != nil {
			return err
		}
	}
	sched.Start()

	srv := server.New(cfg.Server, r, logger)
	srv.OnShutdown(func() {
		sched.Stop()
		_ = adapter.Close()
		if st != nil {
			_ = st.Close()
		}
	})

	return srv.Run(cmd.Context())
}

// newLogger builds the process logger from config.
func newLogger(cfg config.LoggingConfig) (*slog.Logger, error) {
	level, err := config.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch cfg.Format {
	case "text":
		handler = slog.NewTextHandler(os.Stdout, opts)
	default:
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	return slog.New(handler), nil
}
