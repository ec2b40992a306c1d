// Package metrics provides Prometheus instrumentation for the HTTP
// server: a request counter, a latency histogram, and a recovered
// panic counter, exposed via the /metrics endpoint.
package metrics
