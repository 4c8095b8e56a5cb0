// Package metrics holds per-endpoint latency and error collectors for the analytics API.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type Endpoint struct {
	latency *prometheus.HistogramVec
	errors  *prometheus.CounterVec
}

// NewEndpoint registers the analytics collectors on reg (default registry when nil).
func NewEndpoint(reg prometheus.Registerer) *Endpoint {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	e := &Endpoint{
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "findash",
				Subsystem: "analytics",
				Name:      "latency_seconds",
				Help:      "Latency of analytics endpoints",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "findash",
				Subsystem: "analytics",
				Name:      "errors_total",
				Help:      "Errors by analytics endpoint and code",
			},
			[]string{"endpoint", "code"},
		),
	}
	reg.MustRegister(e.latency, e.errors)
	return e
}

// Observe records one call. Use as: defer m.Observe("signals", time.Now(), &code).
func (e *Endpoint) Observe(endpoint string, start time.Time, code *string) {
	e.latency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if code != nil && *code != "" {
		e.errors.WithLabelValues(endpoint, *code).Inc()
	}
}
