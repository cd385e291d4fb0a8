// Package metrics defines the Prometheus collectors exposed on the metrics
// endpoint. Label values stay low-cardinality: provider and operation names
// come from fixed sets, never from user input.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Status label values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Metrics holds the collectors for provider calls and voice sessions.
type Metrics struct {
	providerRequests *prometheus.CounterVec
	providerDuration *prometheus.HistogramVec
	activeSessions   prometheus.Gauge
}

// New registers the collectors with the given registerer and returns them.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		providerRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "daybook_provider_requests_total",
			Help: "Number of upstream calendar provider calls by provider, operation and status.",
		}, []string{"provider", "operation", "status"}),
		providerDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "daybook_provider_request_duration_seconds",
			Help:    "Latency of upstream calendar provider calls.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider", "operation"}),
		activeSessions: factory.NewGauge(prometheus.GaugeOpts{
			Name: "daybook_voice_sessions_active",
			Help: "Number of live voice assistant sessions.",
		}),
	}
}

// ObserveProviderCall records one upstream call outcome.
func (m *Metrics) ObserveProviderCall(provider, operation string, duration time.Duration, err error) {
	status := StatusSuccess
	if err != nil {
		status = StatusError
	}
	m.providerRequests.WithLabelValues(provider, operation, status).Inc()
	m.providerDuration.WithLabelValues(provider, operation).Observe(duration.Seconds())
}

// SessionStarted increments the active session gauge.
func (m *Metrics) SessionStarted() {
	m.activeSessions.Inc()
}

// SessionEnded decrements the active session gauge.
func (m *Metrics) SessionEnded() {
	m.activeSessions.Dec()
}
