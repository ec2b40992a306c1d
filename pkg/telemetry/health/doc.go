// Package health provides the component health checker and the
// /api/health endpoint consumed by external probes.
package health
