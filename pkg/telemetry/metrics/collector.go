package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector registers and records Prometheus metrics for the HTTP
// server. All metrics live under the "perch" namespace.
type Collector struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	panicsTotal     prometheus.Counter
}

// NewCollector creates a collector and registers its metrics with the
// given registry.
func NewCollector(registry *prometheus.Registry) *Collector {
	c := &Collector{
		registry: registry,
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "perch",
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total HTTP requests by method and status code.",
			},
			[]string{"method", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "perch",
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request latency by method.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		panicsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "perch",
				Subsystem: "http",
				Name:      "handler_panics_total",
				Help:      "Total panics recovered in HTTP handlers.",
			},
		),
	}

	registry.MustRegister(c.requestsTotal, c.requestDuration, c.panicsTotal)
	return c
}

// RecordRequest records one completed HTTP exchange.
func (c *Collector) RecordRequest(method string, status int, duration time.Duration) {
	c.requestsTotal.WithLabelValues(method, strconv.Itoa(status)).Inc()
	c.requestDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// RecordPanic records one recovered handler panic.
func (c *Collector) RecordPanic() {
	c.panicsTotal.Inc()
}
