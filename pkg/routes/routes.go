// Package routes is the seam between the lifecycle layer and the
// application's business routes. The lifecycle layer depends only on
// the Registrar interface; what the routes do is not its concern.
package routes

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"skylarkhq/perch/pkg/store"
	"skylarkhq/perch/pkg/telemetry/health"
)

// Registrar attaches business routes to the assembled router. It runs
// after the middleware pipeline is installed and before the content
// adapter claims unmatched paths.
type Registrar interface {
	Register(r chi.Router) error
}

// API is the built-in registrar. It mounts the health endpoint and
// holds the collaborators business handlers build on. The store may be
// nil when startup continued degraded.
type API struct {
	Store   *store.Store
	Checker *health.Checker
	Logger  *slog.Logger
}

// NewAPI creates the built-in registrar.
func NewAPI(st *store.Store, checker *health.Checker, logger *slog.Logger) *API {
	return &API{Store: st, Checker: checker, Logger: logger}
}

// Register implements Registrar.
func (a *API) Register(r chi.Router) error {
	r.Get("/api/health", a.Checker.Handler())
	return nil
}
