package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveRun(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveRun("forecast", OutcomeSuccess, time.Now().Add(-time.Second))
	m.ObserveRun("forecast", OutcomeFailure, time.Now())

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Runs.WithLabelValues("forecast", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Runs.WithLabelValues("forecast", OutcomeFailure)))
	assert.Greater(t, testutil.ToFloat64(m.LastSuccess.WithLabelValues("forecast")), 0.0)

	n, err := testutil.GatherAndCount(reg, "healthforecast_run_duration_seconds")
	require.Nil(t, err)
	assert.Equal(t, 1, n)
}

func TestObserveForecast(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveForecast(
		map[string]int{"forecast": 3, "insufficient_history": 2},
		map[string]int{"LinearRegression": 2, "ETS": 1},
		map[string]int{"ARIMA": 1},
		15,
	)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.Series.WithLabelValues("forecast")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ModelWins.WithLabelValues("LinearRegression")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FitterFailures.WithLabelValues("ARIMA")))
	assert.Equal(t, 15.0, testutil.ToFloat64(m.Rows))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRun("forecast", OutcomeSuccess, time.Now())
		m.ObserveForecast(nil, nil, nil, 0)
	})
}
