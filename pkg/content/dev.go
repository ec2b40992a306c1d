package content

import (
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"

	"skylarkhq/perch/pkg/config"
	"skylarkhq/perch/pkg/httperr"
)

// Dev delegates unmatched requests to the live transform pipeline: the
// shell is re-rendered on every request with a fresh cache-busting
// token, source assets are served straight from the source tree, and
// connected browsers reload over SSE when sources change.
type Dev struct {
	pipeline *Pipeline
	root     string
	logger   *slog.Logger
}

// NewDev constructs the development adapter and starts its watcher
// under the supervisor. Initialization errors propagate so the
// factory can fall back to static serving.
func NewDev(assets config.AssetsConfig, logger *slog.Logger, sup Supervisor) (*Dev, error) {
	p, err := NewPipeline(assets, logger)
	if err != nil {
		return nil, err
	}

	d := &Dev{pipeline: p, root: assets.SourceDir, logger: logger}
	if sup != nil {
		sup.Go("content.watch", p.Watch)
	} else {
		go func() { _ = p.Watch() }()
	}
	return d, nil
}

// Name implements Adapter.
func (d *Dev) Name() string { return "dev" }

// Close implements Adapter.
func (d *Dev) Close() error { return d.pipeline.Close() }

// Handler implements Adapter.
func (d *Dev) Handler() http.Handler {
	reload := d.pipeline.ReloadHandler()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == ReloadPath {
			reload(w, r)
			return
		}

		// Source assets pass through the pipeline untransformed; the
		// shell and client-side routes get the full render below.
		rel := path.Clean("/" + r.URL.Path)
		if rel != "/" {
			file := filepath.Join(d.root, filepath.FromSlash(rel))
			if info, err := os.Stat(file); err == nil && !info.IsDir() {
				w.Header().Set("Cache-Control", "no-store")
				http.ServeFile(w, r, file)
				return
			}
		}

		page, err := d.pipeline.RenderShell(r.URL.Path)
		if err != nil {
			d.logger.Error("page render failed", "path", r.URL.Path, "error", err)
			httperr.Write(w, r, httperr.Wrap(http.StatusInternalServerError, "Failed to render page", err))
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(page)
	})
}
