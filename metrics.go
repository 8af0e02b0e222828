package s3promote

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects per-run promotion counters on a private registry.
type Metrics struct {
	registry *prometheus.Registry
	outcomes *prometheus.CounterVec
	duration prometheus.Histogram
}

// NewMetrics returns registered collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "s3promote",
			Name:      "outcomes_total",
			Help:      "Component promotions by status and reason.",
		}, []string{"status", "reason"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "s3promote",
			Name:      "transfer_duration_seconds",
			Help:      "Time spent promoting one component.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	m.registry.MustRegister(m.outcomes, m.duration)
	return m
}

// Gatherer exposes the registry.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// WriteTextfile writes the metrics in the node_exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}

func (m *Metrics) observe(o Outcome, d time.Duration) {
	if m == nil {
		return
	}
	m.outcomes.WithLabelValues(o.Status.String(), reasonLabel(o.Err)).Inc()
	m.duration.Observe(d.Seconds())
}

func reasonLabel(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrDryRun):
		return "dry_run"
	case errors.Is(err, ErrSourceMissing):
		return "source_missing"
	case errors.Is(err, ErrNoMappingFound):
		return "no_mapping"
	case errors.Is(err, ErrNoVersionFound):
		return "no_version"
	case errors.Is(err, ErrPermissionDenied):
		return "permission_denied"
	case errors.Is(err, ErrTransport):
		return "transport"
	case errors.Is(err, ErrUnexpected):
		return "unexpected"
	}
	return "other"
}
