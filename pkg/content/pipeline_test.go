package content

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"skylarkhq/perch/pkg/config"
)

// writeSourceTree creates a client-source directory with a shell.
func writeSourceTree(t *testing.T) config.AssetsConfig {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte(testShell), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "src"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "src", "main.js"), []byte("export {}"), 0o644); err != nil {
		t.Fatal(err)
	}
	return config.AssetsConfig{
		DistDir:     "does-not-exist",
		SourceDir:   dir,
		Shell:       "index.html",
		EntryScript: "/src/main.js",
	}
}

func newTestPipeline(t *testing.T, assets config.AssetsConfig) *Pipeline {
	t.Helper()
	p, err := NewPipeline(assets, discardLogger())
	if err != nil {
		t.Fatalf("NewPipeline() error = %v", err)
	}
	t.Cleanup(func() { _ = p.Close() })
	return p
}

func TestPipeline_RenderShellAppendsCacheBustToken(t *testing.T) {
	p := newTestPipeline(t, writeSourceTree(t))

	page, err := p.RenderShell("/dashboard")
	if err != nil {
		t.Fatalf("RenderShell() error = %v", err)
	}

	busted := regexp.MustCompile(`src="/src/main\.js\?v=[0-9a-f]{8}"`)
	if !busted.Match(page) {
		t.Errorf("rendered shell missing cache-busted entry script:\n%s", page)
	}
	if strings.Contains(string(page), `src="/src/main.js"`) {
		t.Error("original entry script src survived the rewrite")
	}
}

func TestPipeline_RenderShellInjectsReloadClient(t *testing.T) {
	p := newTestPipeline(t, writeSourceTree(t))

	page, err := p.RenderShell("/")
	if err != nil {
		t.Fatalf("RenderShell() error = %v", err)
	}

	html := string(page)
	if !strings.Contains(html, ReloadPath) {
		t.Error("rendered shell missing reload client")
	}
	// The client must land inside the body, not after the document.
	if idx := strings.Index(html, ReloadPath); idx > strings.LastIndex(strings.ToLower(html), "</body>") {
		t.Error("reload client injected after closing body tag")
	}
}

func TestPipeline_TokensDifferAcrossRenders(t *testing.T) {
	p := newTestPipeline(t, writeSourceTree(t))

	first, err := p.RenderShell("/")
	if err != nil {
		t.Fatal(err)
	}
	second, err := p.RenderShell("/")
	if err != nil {
		t.Fatal(err)
	}
	if string(first) == string(second) {
		t.Error("consecutive renders produced identical cache-bust tokens")
	}
}

func TestPipeline_TransformHTMLWithoutBodyTag(t *testing.T) {
	p := newTestPipeline(t, writeSourceTree(t))

	out, err := p.TransformHTML("/", []byte("<h1>bare</h1>"))
	if err != nil {
		t.Fatalf("TransformHTML() error = %v", err)
	}
	if !strings.Contains(string(out), ReloadPath) {
		t.Error("reload client not appended to body-less document")
	}
}

func TestNewPipeline_MissingSourceDir(t *testing.T) {
	assets := config.AssetsConfig{
		SourceDir:   filepath.Join(t.TempDir(), "missing"),
		Shell:       "index.html",
		EntryScript: "/src/main.js",
	}

	_, err := NewPipeline(assets, discardLogger())
	if err == nil {
		t.Fatal("NewPipeline() with missing source dir: expected error")
	}

	var perr *PipelineError
	if !errors.As(err, &perr) {
		t.Errorf("error type = %T, want *PipelineError", err)
	}
}

func TestNewPipeline_MissingShell(t *testing.T) {
	assets := config.AssetsConfig{
		SourceDir:   t.TempDir(),
		Shell:       "index.html",
		EntryScript: "/src/main.js",
	}

	if _, err := NewPipeline(assets, discardLogger()); err == nil {
		t.Fatal("NewPipeline() with missing shell: expected error")
	}
}
