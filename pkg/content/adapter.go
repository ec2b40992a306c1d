package content

import (
	"log/slog"
	"net/http"

	"skylarkhq/perch/pkg/config"
)

// Adapter resolves content for any request path not claimed by a
// registered route: the application shell for client-side routes, and
// asset files for everything else.
type Adapter interface {
	// Name identifies the active implementation ("static" or "dev").
	Name() string

	// Handler serves unmatched requests. It is mounted as the router's
	// NotFound handler.
	Handler() http.Handler

	// Close releases watcher and subscriber resources.
	Close() error
}

// Supervisor runs background work under fault supervision. The
// server's fault trap satisfies it.
type Supervisor interface {
	Go(name string, fn func() error)
}

// New selects the content delivery implementation, once, at startup.
// When the development pipeline is wanted it is tried first; if it
// fails to initialize the error is logged and the production static
// adapter is used instead. Mode selection is a preference, not a hard
// guarantee: a broken dev pipeline must never crash the process.
func New(cfg *config.Config, logger *slog.Logger, sup Supervisor) Adapter {
	if cfg.DevPipeline {
		dev, err := NewDev(cfg.Assets, logger, sup)
		if err == nil {
			logger.Info("content delivery: development pipeline", "source", cfg.Assets.SourceDir)
			return dev
		}
		logger.Error("development pipeline unavailable, falling back to static serving", "error", err)
	}

	logger.Info("content delivery: static assets", "dir", cfg.Assets.DistDir)
	return NewStatic(cfg.Assets, logger)
}
