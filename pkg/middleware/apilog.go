package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	// maxLogLine is the longest emitted line before the ellipsis.
	maxLogLine = 80

	// maxCapture caps how many response bytes the logger retains for
	// the JSON summary. The line is truncated far below this anyway.
	maxCapture = 512
)

// recordingWriter wraps http.ResponseWriter to capture the status code
// and a bounded copy of JSON response bodies. It never alters response
// bytes or status codes; it only observes.
type recordingWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
	captured   []byte
}

func newRecordingWriter(w http.ResponseWriter) *recordingWriter {
	return &recordingWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

// WriteHeader captures the status code before writing.
func (rw *recordingWriter) WriteHeader(code int) {
	if !rw.written {
		rw.statusCode = code
		rw.written = true
		rw.ResponseWriter.WriteHeader(code)
	}
}

// Write tees JSON response bytes into the capture buffer up to
// maxCapture, then forwards them unmodified.
func (rw *recordingWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	if rw.isJSON() && len(rw.captured) < maxCapture {
		n := maxCapture - len(rw.captured)
		if n > len(b) {
			n = len(b)
		}
		rw.captured = append(rw.captured, b[:n]...)
	}
	return rw.ResponseWriter.Write(b)
}

// Flush passes through so streaming handlers (SSE) keep working
// behind the wrapper.
func (rw *recordingWriter) Flush() {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (rw *recordingWriter) Unwrap() http.ResponseWriter { return rw.ResponseWriter }

func (rw *recordingWriter) isJSON() bool {
	return strings.Contains(rw.Header().Get("Content-Type"), "application/json")
}

// APILogger emits exactly one log line per request on paths under
// prefix. The line has the form
//
//	METHOD PATH STATUS in Nms :: <jsonSummary>
//
// where the summary segment is present only when the handler produced
// a JSON body. Lines longer than 80 characters keep their first 80 and
// gain a single trailing ellipsis. Requests outside the prefix are
// passed through without logging.
//
// APILogger sits last in the chain, directly above routing, so the
// status and body it observes are the final ones, including recovered
// panics and error responses.
func APILogger(logger *slog.Logger, prefix string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !underPrefix(r.URL.Path, prefix) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			ctx := context.WithValue(r.Context(), StartTimeKey, start)
			rw := newRecordingWriter(w)

			next.ServeHTTP(rw, r.WithContext(ctx))

			elapsed := time.Since(start)
			line := fmt.Sprintf("%s %s %d in %dms", r.Method, r.URL.Path, rw.statusCode, elapsed.Milliseconds())
			if len(rw.captured) > 0 {
				line += " :: " + string(rw.captured)
			}
			line = truncateLine(line)

			logger.InfoContext(ctx, line)
		})
	}
}

// truncateLine bounds a log line to maxLogLine runes plus one ellipsis
// rune, so an emitted line never exceeds 81 characters.
func truncateLine(line string) string {
	runes := []rune(line)
	if len(runes) <= maxLogLine {
		return line
	}
	return string(runes[:maxLogLine]) + "…"
}
