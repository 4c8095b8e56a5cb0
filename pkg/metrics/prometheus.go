package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	providerRequests *prometheus.CounterVec
	signals          *prometheus.CounterVec
	errorsTotal      *prometheus.CounterVec
	lastClose        *prometheus.GaugeVec
	latency          *prometheus.HistogramVec
}

// New registers the recorder's collectors with reg; nil means the default registry.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Recorder{
		providerRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "findash_provider_requests_total",
				Help: "Market and macro data provider requests by outcome",
			},
			[]string{"provider", "outcome"},
		),
		signals: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "findash_signals_generated_total",
				Help: "Composite technical signals generated by type",
			},
			[]string{"type"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "findash_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		lastClose: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "findash_last_close",
				Help: "Most recent close seen for a symbol",
			},
			[]string{"symbol"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "findash_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

func (r *Recorder) RecordProviderRequest(provider, outcome string) {
	r.providerRequests.WithLabelValues(provider, outcome).Inc()
}

func (r *Recorder) RecordSignal(kind string) {
	r.signals.WithLabelValues(kind).Inc()
}

func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

func (r *Recorder) RecordLastClose(symbol string, price float64) {
	r.lastClose.WithLabelValues(symbol).Set(price)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
