package telemetry

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/spektr-org/spektr-viz/engine"
)

func TestObserve_CountsByOutcome(t *testing.T) {
	m := NewMetrics()
	start := time.Now()

	m.Observe(engine.ChartLine, start, nil)
	m.Observe(engine.ChartLine, start, nil)
	m.Observe(engine.ChartPie, start, nil)
	m.Observe(engine.ChartScatter, start, &engine.ConfigError{Reason: "x"})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.charts.WithLabelValues("line")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.charts.WithLabelValues("pie")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errors.WithLabelValues("config")))
}

func TestObserve_NilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() { m.Observe(engine.ChartBar, time.Now(), nil) })
}

func TestErrorKind(t *testing.T) {
	assert.Equal(t, "validation", ErrorKind(&engine.ValidationError{Reason: "x"}))
	assert.Equal(t, "config", ErrorKind(&engine.ConfigError{Reason: "x"}))
	assert.Equal(t, "internal", ErrorKind(errors.New("boom")))
}

func TestHandler_ExposesCollectors(t *testing.T) {
	m := NewMetrics()
	m.Observe(engine.ChartBar, time.Now(), nil)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), `spektr_viz_charts_total{chart_type="bar"} 1`)
}
