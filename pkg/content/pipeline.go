package content

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"skylarkhq/perch/pkg/config"
)

// ReloadPath is the SSE endpoint the injected reload client connects
// to in development mode.
const ReloadPath = "/__reload"

// reloadClient is injected into every rendered shell document. It
// reloads the page when the pipeline broadcasts a source change.
const reloadClient = `<script>
  (function () {
    var es = new EventSource("` + ReloadPath + `");
    es.addEventListener("reload", function () { location.reload(); });
  })();
</script>`

// PipelineError is a transform-pipeline failure with source context
// attached, so the log line points at the file that broke rather than
// an anonymous read error.
type PipelineError struct {
	Op   string
	Path string
	Err  error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("pipeline %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PipelineError) Unwrap() error { return e.Err }

// Pipeline is the development-only live transform service: it renders
// the application shell with a cache-busting entry script, injects the
// reload client, watches the source tree, and pushes reload events to
// connected browsers over SSE.
type Pipeline struct {
	root        string
	shellPath   string
	entryScript string
	logger      *slog.Logger
	watcher     *watcher

	mu   sync.Mutex
	subs map[chan string]struct{}

	done      chan struct{}
	closeOnce sync.Once
}

// NewPipeline validates the source tree and prepares the watcher. A
// missing source directory or shell document is an initialization
// error; the caller falls back to static serving.
func NewPipeline(assets config.AssetsConfig, logger *slog.Logger) (*Pipeline, error) {
	shellPath := filepath.Join(assets.SourceDir, assets.Shell)

	if info, err := os.Stat(assets.SourceDir); err != nil || !info.IsDir() {
		return nil, &PipelineError{Op: "open", Path: assets.SourceDir, Err: fmt.Errorf("source directory unavailable: %w", err)}
	}
	if _, err := os.Stat(shellPath); err != nil {
		return nil, &PipelineError{Op: "open", Path: shellPath, Err: err}
	}

	w, err := newWatcher(assets.SourceDir)
	if err != nil {
		return nil, &PipelineError{Op: "watch", Path: assets.SourceDir, Err: err}
	}

	return &Pipeline{
		root:        assets.SourceDir,
		shellPath:   shellPath,
		entryScript: assets.EntryScript,
		logger:      logger,
		watcher:     w,
		subs:        make(map[chan string]struct{}),
		done:        make(chan struct{}),
	}, nil
}

// Watch runs the debounced file watcher until the pipeline is closed,
// broadcasting one reload event per change burst. Watcher errors are
// logged and absorbed; they never escape to the supervisor.
func (p *Pipeline) Watch() error {
	return p.watcher.run(p.done, func(path string) {
		p.logger.Debug("source changed, broadcasting reload", "path", path)
		p.broadcast(path)
	}, func(err error) {
		p.logger.Warn("watcher error", "error", err)
	})
}

// RenderShell reads the shell document from source, appends a
// cache-busting token to the entry script's src attribute, and runs
// the result through the HTML post-processor.
func (p *Pipeline) RenderShell(urlPath string) ([]byte, error) {
	raw, err := os.ReadFile(p.shellPath)
	if err != nil {
		return nil, &PipelineError{Op: "render", Path: p.shellPath, Err: err}
	}

	token := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	page := strings.Replace(string(raw),
		`src="`+p.entryScript+`"`,
		`src="`+p.entryScript+`?v=`+token+`"`,
		1,
	)

	return p.TransformHTML(urlPath, []byte(page))
}

// TransformHTML is the pipeline's HTML post-processor. It injects the
// reload client ahead of the closing body tag, or appends it when the
// document has none.
func (p *Pipeline) TransformHTML(urlPath string, page []byte) ([]byte, error) {
	html := string(page)
	if i := strings.LastIndex(strings.ToLower(html), "</body>"); i >= 0 {
		html = html[:i] + reloadClient + "\n" + html[i:]
	} else {
		html += "\n" + reloadClient
	}
	return []byte(html), nil
}

// ReloadHandler serves the SSE stream consumed by the injected reload
// client. One subscription per connected browser tab.
func (p *Pipeline) ReloadHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, ": connected\n\n")
		flusher.Flush()

		ch := p.subscribe()
		defer p.unsubscribe(ch)

		for {
			select {
			case path := <-ch:
				fmt.Fprintf(w, "event: reload\ndata: %s\n\n", path)
				flusher.Flush()
			case <-r.Context().Done():
				return
			case <-p.done:
				return
			}
		}
	}
}

// Close stops the watcher and disconnects all subscribers. Safe to
// call more than once.
func (p *Pipeline) Close() error {
	var err error
	p.closeOnce.Do(func() {
		close(p.done)
		err = p.watcher.close()
	})
	return err
}

func (p *Pipeline) subscribe() chan string {
	ch := make(chan string, 4)
	p.mu.Lock()
	p.subs[ch] = struct{}{}
	p.mu.Unlock()
	return ch
}

func (p *Pipeline) unsubscribe(ch chan string) {
	p.mu.Lock()
	delete(p.subs, ch)
	p.mu.Unlock()
}

func (p *Pipeline) broadcast(path string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for ch := range p.subs {
		select {
		case ch <- path:
		default: // slow subscriber, skip rather than block the watcher
		}
	}
}
