package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"skylarkhq/perch/pkg/config"
	"skylarkhq/perch/pkg/content"
)

func TestWrappingWritersImplementFlusher(t *testing.T) {
	writers := []http.ResponseWriter{
		&statusWriter{ResponseWriter: httptest.NewRecorder()},
		newRecordingWriter(httptest.NewRecorder()),
	}
	for _, w := range writers {
		if _, ok := w.(http.Flusher); !ok {
			t.Errorf("%T does not implement http.Flusher", w)
		}
	}
}

// The observation stages wrap every response writer; the dev reload
// stream must still be able to flush through them.
func TestObservationStagesPreserveStreaming(t *testing.T) {
	dir := t.TempDir()
	shell := `<!DOCTYPE html><html><body><script type="module" src="/src/main.js"></script></body></html>`
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte(shell), 0o644); err != nil {
		t.Fatal(err)
	}

	assets := config.AssetsConfig{
		SourceDir:   dir,
		Shell:       "index.html",
		EntryScript: "/src/main.js",
	}
	dev, err := content.NewDev(assets, discardLogger(), nil)
	if err != nil {
		t.Fatalf("NewDev() error = %v", err)
	}
	defer dev.Close()

	handler := Metrics(testCollector())(APILogger(discardLogger(), MonitoredPrefix)(dev.Handler()))

	srv := httptest.NewServer(handler)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+content.ReloadPath, nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("reload stream request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("reload stream status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Content-Type = %q, want text/event-stream", ct)
	}
}
