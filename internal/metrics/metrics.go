// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the collectors. Create one per process with New and pass it
// to the components that record into it.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	CommandsTotal *prometheus.CounterVec

	VerifierRequestsTotal   *prometheus.CounterVec
	VerifierRequestDuration prometheus.Histogram

	ExportsTotal *prometheus.CounterVec

	WSSessionsActive prometheus.Gauge
}

// New creates the collectors and registers them with reg.
// It panics if a collector is already registered, like prometheus.MustRegister.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"handler", "method", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"handler", "method"},
		),
		CommandsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stats_commands_total",
				Help: "Statistics commands handled, by delivery channel and outcome",
			},
			[]string{"channel", "outcome"},
		),
		VerifierRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "verifier_requests_total",
				Help: "Token verification calls, by outcome",
			},
			[]string{"outcome"},
		),
		VerifierRequestDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "verifier_request_duration_seconds",
				Help:    "Duration of token verification calls",
				Buckets: prometheus.DefBuckets,
			},
		),
		ExportsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stats_exports_total",
				Help: "Spreadsheet exports, by result",
			},
			[]string{"result"},
		),
		WSSessionsActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "ws_sessions_active",
				Help: "Open websocket sessions",
			},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.CommandsTotal,
		m.VerifierRequestsTotal,
		m.VerifierRequestDuration,
		m.ExportsTotal,
		m.WSSessionsActive,
	)

	return m
}

// NewNop returns collectors registered nowhere. Useful in tests and tools.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}
