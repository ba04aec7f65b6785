// Package metrics exposes Prometheus collectors for cleaning operations,
// sessions and uploads. Collectors live on a private registry so tests can
// build as many instances as they need.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JonMunkholm/cleaner/internal/cleaner"
)

// Outcome label values.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeFailure  = "failure"
)

// Metrics holds the service collectors.
type Metrics struct {
	registry *prometheus.Registry

	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	sessions   prometheus.Gauge
	ingested   *prometheus.CounterVec
}

// New registers the collectors, plus the Go runtime and process
// collectors, on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cleaner_operations_total",
			Help: "Cleaning operations by name and outcome.",
		}, []string{"operation", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cleaner_operation_duration_seconds",
			Help:    "Time spent executing cleaning operations.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"operation"}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cleaner_sessions_active",
			Help: "Cleaning sessions currently held in memory.",
		}),
		ingested: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cleaner_rows_ingested_total",
			Help: "Rows loaded into sessions by source format.",
		}, []string{"format"}),
	}

	m.registry.MustRegister(
		m.operations,
		m.duration,
		m.sessions,
		m.ingested,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Observe records one engine operation. It has the signature of
// cleaner.Observer so it can be passed to cleaner.WithObserver directly.
func (m *Metrics) Observe(op string, d time.Duration, err error) {
	m.operations.WithLabelValues(op, outcome(err)).Inc()
	m.duration.WithLabelValues(op).Observe(d.Seconds())
}

func outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case cleaner.KindOf(err) == cleaner.KindInternalFailure:
		return OutcomeFailure
	}
	return OutcomeRejected
}

// SetSessions reports the number of live sessions.
func (m *Metrics) SetSessions(n int) { m.sessions.Set(float64(n)) }

// RowsIngested counts rows loaded from a file or request body.
func (m *Metrics) RowsIngested(format string, n int) {
	m.ingested.WithLabelValues(format).Add(float64(n))
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
