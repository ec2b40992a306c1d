package content

import (
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"

	"skylarkhq/perch/pkg/config"
)

// Static serves prebuilt assets from the build output directory. Any
// path that does not correspond to a file falls back to the
// application shell with status 200, enabling client-side routing.
type Static struct {
	dir    string
	shell  string
	logger *slog.Logger
}

// NewStatic creates the production content adapter. It never fails:
// a missing build directory surfaces per request, not at startup.
func NewStatic(assets config.AssetsConfig, logger *slog.Logger) *Static {
	return &Static{
		dir:    assets.DistDir,
		shell:  filepath.Join(assets.DistDir, assets.Shell),
		logger: logger,
	}
}

// Name implements Adapter.
func (s *Static) Name() string { return "static" }

// Close implements Adapter.
func (s *Static) Close() error { return nil }

// Handler implements Adapter.
func (s *Static) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Clean with a leading slash so ".." can never escape the dir.
		rel := path.Clean("/" + r.URL.Path)
		file := filepath.Join(s.dir, filepath.FromSlash(rel))

		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			http.ServeFile(w, r, file)
			return
		}

		if _, err := os.Stat(s.shell); err != nil {
			s.logger.Error("application shell missing", "path", s.shell, "error", err)
			http.Error(w, "Not Found", http.StatusNotFound)
			return
		}

		http.ServeFile(w, r, s.shell)
	})
}
