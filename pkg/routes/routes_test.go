package routes

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"skylarkhq/perch/pkg/telemetry/health"
)

func TestAPI_RegisterMountsHealth(t *testing.T) {
	api := NewAPI(nil, health.New(0), slog.New(slog.NewTextHandler(io.Discard, nil)))

	r := chi.NewRouter()
	if err := api.Register(r); err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("GET /api/health = %d, want 200", rec.Code)
	}
}
