package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"skylarkhq/perch/pkg/config"
	"skylarkhq/perch/pkg/telemetry/metrics"
)

// MonitoredPrefix is the path namespace subject to request logging
// and, in production, rate limiting.
const MonitoredPrefix = "/api"

// underPrefix reports whether path lies inside the prefix's namespace.
// Sibling paths that merely share the string prefix ("/apix") do not.
func underPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// Chain assembles the ordered middleware pipeline. Order matters and
// is part of the contract, outermost first:
//
//	1. security headers        (production only)
//	2. response compression    (production only)
//	3. rate limiting on /api   (production only)
//	4. body size cap           (both modes)
//	5. request ID              (both modes)
//	6. metrics                 (both modes)
//	7. API request logger      (both modes, last so it observes the
//	                            final response)
//	8. recovery                (innermost)
//
// Skipping stages 1-3 outside production is deliberate policy, not an
// oversight: development traffic is trusted and unthrottled.
func Chain(cfg *config.Config, limiter *RateLimiter, collector *metrics.Collector, logger *slog.Logger) []func(http.Handler) http.Handler {
	var chain []func(http.Handler) http.Handler

	if cfg.Mode == config.Production {
		chain = append(chain,
			SecurityHeaders,
			chimiddleware.Compress(5),
			limiter.Middleware(MonitoredPrefix),
		)
	}

	chain = append(chain,
		BodyLimit(cfg.Server.MaxBodyBytes),
		RequestID,
		Metrics(collector),
		APILogger(logger, MonitoredPrefix),
		Recovery(collector),
	)

	return chain
}
