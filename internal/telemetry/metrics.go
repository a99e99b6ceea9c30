package telemetry

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spektr-org/spektr-viz/engine"
)

// Metrics counts chart transformations.
type Metrics struct {
	registry *prometheus.Registry
	charts   *prometheus.CounterVec
	errors   *prometheus.CounterVec
	duration prometheus.Histogram
}

// NewMetrics registers the collectors on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		charts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "spektr_viz",
			Name:      "charts_total",
			Help:      "Visualization specs produced, by chart type.",
		}, []string{"chart_type"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "spektr_viz",
			Name:      "chart_errors_total",
			Help:      "Failed transformations, by error kind.",
		}, []string{"kind"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "spektr_viz",
			Name:      "transform_seconds",
			Help:      "Time spent in a single transformation.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
	}
	m.registry.MustRegister(m.charts, m.errors, m.duration)
	return m
}

// Observe records the outcome of one transformation started at start.
func (m *Metrics) Observe(chartType engine.ChartType, start time.Time, err error) {
	if m == nil {
		return
	}
	m.duration.Observe(time.Since(start).Seconds())
	if err != nil {
		m.errors.WithLabelValues(ErrorKind(err)).Inc()
		return
	}
	m.charts.WithLabelValues(string(chartType)).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ErrorKind labels an error as "validation", "config" or "internal".
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, engine.ErrValidation):
		return "validation"
	case errors.Is(err, engine.ErrConfig):
		return "config"
	default:
		return "internal"
	}
}
