// Package middleware provides the ordered HTTP middleware pipeline:
// security headers, compression, fixed-window rate limiting, body size
// capping, request IDs, metrics, the monitored-prefix request logger,
// and panic recovery.
//
// All stages use the standard func(http.Handler) http.Handler shape
// and are assembled in their contractual order by Chain. Production
// mode enables the hardening stages; development traffic runs only the
// observation stages.
package middleware
