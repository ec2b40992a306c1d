package content

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"skylarkhq/perch/pkg/config"
)

// stubSupervisor runs supervised work unsupervised; pipeline watch
// errors are nil in tests anyway.
type stubSupervisor struct{}

func (stubSupervisor) Go(name string, fn func() error) {
	go func() { _ = fn() }()
}

func TestDev_ServesRenderedShellForUnmatchedRoutes(t *testing.T) {
	dev, err := NewDev(writeSourceTree(t), discardLogger(), stubSupervisor{})
	if err != nil {
		t.Fatalf("NewDev() error = %v", err)
	}
	defer dev.Close()

	rec := httptest.NewRecorder()
	dev.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q, want text/html", ct)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "?v=") {
		t.Error("shell served without cache-bust token")
	}
	if !strings.Contains(body, ReloadPath) {
		t.Error("shell served without reload client")
	}
}

func TestDev_ServesSourceAssets(t *testing.T) {
	dev, err := NewDev(writeSourceTree(t), discardLogger(), stubSupervisor{})
	if err != nil {
		t.Fatalf("NewDev() error = %v", err)
	}
	defer dev.Close()

	rec := httptest.NewRecorder()
	dev.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/src/main.js", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body := rec.Body.String(); body != "export {}" {
		t.Errorf("body = %q, want raw source file", body)
	}
}

func TestNew_FactoryPrefersDevPipeline(t *testing.T) {
	assets := writeSourceTree(t)
	cfg := &config.Config{Assets: assets, Mode: config.Development, DevPipeline: true}

	adapter := New(cfg, discardLogger(), stubSupervisor{})
	defer adapter.Close()

	if adapter.Name() != "dev" {
		t.Errorf("adapter = %q, want dev", adapter.Name())
	}
}

func TestNew_FactoryFallsBackToStatic(t *testing.T) {
	// Source dir missing: dev pipeline cannot initialize.
	cfg := &config.Config{
		Assets: config.AssetsConfig{
			DistDir:     t.TempDir(),
			SourceDir:   filepath.Join(t.TempDir(), "missing"),
			Shell:       "index.html",
			EntryScript: "/src/main.js",
		},
		Mode:        config.Development,
		DevPipeline: true,
	}

	adapter := New(cfg, discardLogger(), stubSupervisor{})
	defer adapter.Close()

	if adapter.Name() != "static" {
		t.Errorf("adapter = %q, want static fallback", adapter.Name())
	}
}

func TestNew_ProductionNeverTriesDevPipeline(t *testing.T) {
	cfg := &config.Config{
		Assets:      staticAssets(writeTree(t)),
		Mode:        config.Production,
		DevPipeline: false,
	}

	adapter := New(cfg, discardLogger(), stubSupervisor{})
	defer adapter.Close()

	if adapter.Name() != "static" {
		t.Errorf("adapter = %q, want static", adapter.Name())
	}
}
