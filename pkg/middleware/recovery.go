package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"skylarkhq/perch/pkg/httperr"
	"skylarkhq/perch/pkg/telemetry/metrics"
)

// Recovery converts request-level panics into a 500 JSON error
// response and a single ERROR log with the stack trace. It is the
// innermost stage so the API logger above it still observes the error
// response.
//
// Recovery is scoped to a request: panics on goroutines outside the
// handler chain are the fault trap's concern, not this middleware's.
func Recovery(collector *metrics.Collector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					slog.ErrorContext(r.Context(), "panic in handler",
						"error", rec,
						"method", r.Method,
						"path", r.URL.Path,
						"request_id", GetRequestID(r.Context()),
						"stack", string(debug.Stack()),
					)
					if collector != nil {
						collector.RecordPanic()
					}

					herr := httperr.New(http.StatusInternalServerError, "Internal Server Error")
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(herr.Status)
					_, _ = w.Write([]byte(`{"message":"` + herr.Message + `"}`))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
