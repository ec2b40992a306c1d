package middleware

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"skylarkhq/perch/pkg/config"
	"skylarkhq/perch/pkg/telemetry/metrics"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func productionConfig() *config.Config {
	var cfg config.Config
	config.ApplyDefaults(&cfg)
	cfg.Mode = config.Production
	return &cfg
}

func testCollector() *metrics.Collector {
	return metrics.NewCollector(prometheus.NewRegistry())
}

// applyChain wraps a trivial OK handler with the full chain, outermost
// stage first, the way chi's Use does.
func applyChain(chain []func(http.Handler) http.Handler) http.Handler {
	var handler http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	for i := len(chain) - 1; i >= 0; i-- {
		handler = chain[i](handler)
	}
	return handler
}
