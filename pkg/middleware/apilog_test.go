package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"
)

// captureLogger returns a logger writing JSON lines into buf.
func captureLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, nil))
}

// loggedMessages decodes the msg field of every emitted line.
func loggedMessages(t *testing.T, buf *bytes.Buffer) []string {
	t.Helper()
	var msgs []string
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("malformed log line %q: %v", line, err)
		}
		msgs = append(msgs, entry.Msg)
	}
	return msgs
}

func TestAPILogger_OneLinePerMonitoredRequest(t *testing.T) {
	var buf bytes.Buffer
	handler := APILogger(captureLogger(&buf), "/api")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/things", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	msgs := loggedMessages(t, &buf)
	if len(msgs) != 1 {
		t.Fatalf("got %d log lines, want 1", len(msgs))
	}
	if !strings.HasPrefix(msgs[0], "GET /api/things 204 in ") {
		t.Errorf("line = %q, want prefix %q", msgs[0], "GET /api/things 204 in ")
	}
	if !strings.HasSuffix(msgs[0], "ms") {
		t.Errorf("line = %q, want ms suffix", msgs[0])
	}
}

func TestAPILogger_UnmatchedPathEmitsNothing(t *testing.T) {
	var buf bytes.Buffer
	handler := APILogger(captureLogger(&buf), "/api")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for _, path := range []string{"/", "/dashboard", "/assets/app.js", "/apix"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	if buf.Len() != 0 {
		t.Errorf("unmatched paths produced log output: %s", buf.String())
	}
}

func TestAPILogger_CapturesJSONSummary(t *testing.T) {
	var buf bytes.Buffer
	handler := APILogger(captureLogger(&buf), "/api")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":1}`))
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/user", nil))

	msgs := loggedMessages(t, &buf)
	if len(msgs) != 1 {
		t.Fatalf("got %d log lines, want 1", len(msgs))
	}
	if !strings.Contains(msgs[0], ` :: {"id":1}`) {
		t.Errorf("line = %q, want JSON summary segment", msgs[0])
	}
}

func TestAPILogger_NonJSONOmitsSummary(t *testing.T) {
	var buf bytes.Buffer
	handler := APILogger(captureLogger(&buf), "/api")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("hello"))
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/plain", nil))

	msgs := loggedMessages(t, &buf)
	if len(msgs) != 1 {
		t.Fatalf("got %d log lines, want 1", len(msgs))
	}
	if strings.Contains(msgs[0], "::") {
		t.Errorf("line = %q, want no summary segment", msgs[0])
	}
}

func TestAPILogger_TruncatesLongLines(t *testing.T) {
	var buf bytes.Buffer
	handler := APILogger(captureLogger(&buf), "/api")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"payload":"` + strings.Repeat("x", 300) + `"}`))
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/big", nil))

	msgs := loggedMessages(t, &buf)
	if len(msgs) != 1 {
		t.Fatalf("got %d log lines, want 1", len(msgs))
	}
	if n := utf8.RuneCountInString(msgs[0]); n > 81 {
		t.Errorf("line length = %d runes, want <= 81", n)
	}
	if !strings.HasSuffix(msgs[0], "…") {
		t.Errorf("line = %q, want ellipsis suffix", msgs[0])
	}
}

func TestAPILogger_DoesNotAlterResponse(t *testing.T) {
	var buf bytes.Buffer
	handler := APILogger(captureLogger(&buf), "/api")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/items", nil))

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", rec.Code)
	}
	if body := rec.Body.String(); body != `{"ok":true}` {
		t.Errorf("body = %q, altered by logger", body)
	}
}

func TestTruncateLine(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		wantLen  int
		ellipsis bool
	}{
		{"short line untouched", "GET /api 200 in 1ms", 19, false},
		{"exactly 80 untouched", strings.Repeat("a", 80), 80, false},
		{"81 truncated", strings.Repeat("a", 81), 81, true},
		{"long truncated", strings.Repeat("a", 500), 81, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncateLine(tt.in)
			if n := utf8.RuneCountInString(got); n != tt.wantLen {
				t.Errorf("length = %d runes, want %d", n, tt.wantLen)
			}
			if strings.HasSuffix(got, "…") != tt.ellipsis {
				t.Errorf("ellipsis = %v, want %v", !tt.ellipsis, tt.ellipsis)
			}
		})
	}
}
