// Package metrics exposes pipeline run outcomes as Prometheus collectors
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "healthforecast"

// Run outcomes
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeNoInput = "no_input"
)

// Metrics holds all Prometheus collectors for the pipeline
type Metrics struct {
	Runs           *prometheus.CounterVec
	RunDuration    *prometheus.HistogramVec
	LastSuccess    *prometheus.GaugeVec
	Series         *prometheus.CounterVec
	ModelWins      *prometheus.CounterVec
	FitterFailures *prometheus.CounterVec
	Rows           prometheus.Counter
}

// New creates and registers all metrics on reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Runs: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_total",
				Help:      "Number of pipeline stage runs by outcome",
			},
			[]string{"stage", "outcome"},
		),
		RunDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "run_duration_seconds",
				Help:      "Wall time of pipeline stage runs",
				Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
			},
			[]string{"stage"},
		),
		LastSuccess: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_success_timestamp_seconds",
				Help:      "Unix time of the last successful run per stage",
			},
			[]string{"stage"},
		),
		Series: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "series_total",
				Help:      "Number of series processed by forecast status",
			},
			[]string{"status"},
		),
		ModelWins: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "model_wins_total",
				Help:      "Number of series won by each model",
			},
			[]string{"model"},
		),
		FitterFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fitter_failures_total",
				Help:      "Number of series a model failed to fit or score",
			},
			[]string{"model"},
		),
		Rows: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "forecast_rows_total",
			Help:      "Number of forecast rows written",
		}),
	}
}

// ObserveRun records the outcome and duration of a stage run started at start
func (m *Metrics) ObserveRun(stage, outcome string, start time.Time) {
	if m == nil {
		return
	}
	m.Runs.WithLabelValues(stage, outcome).Inc()
	m.RunDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
	if outcome == OutcomeSuccess {
		m.LastSuccess.WithLabelValues(stage).SetToCurrentTime()
	}
}

// ObserveForecast records the per series tallies of a forecast run
func (m *Metrics) ObserveForecast(statuses, wins, failures map[string]int, rows int) {
	if m == nil {
		return
	}
	for status, n := range statuses {
		m.Series.WithLabelValues(status).Add(float64(n))
	}
	for model, n := range wins {
		m.ModelWins.WithLabelValues(model).Add(float64(n))
	}
	for model, n := range failures {
		m.FitterFailures.WithLabelValues(model).Add(float64(n))
	}
	m.Rows.Add(float64(rows))
}
