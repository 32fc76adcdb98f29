// Package fitter races forecasting strategies over a single yearly series. Each strategy fits the
// series, scores its fit with MAPE and forecasts a fixed horizon of future years.
package fitter

import (
	"errors"
	"fmt"
	"math"

	"github.com/aouyang1/go-healthforecast/timedataset"
)

// Name identifies a fitting strategy in results and output rows
type Name string

const (
	ARIMA            Name = "ARIMA"
	ETS              Name = "ETS"
	LinearRegression Name = "LinearRegression"
	GradientBoosting Name = "GradientBoosting"
)

// Names lists every strategy in tie-break priority order
var Names = []Name{ARIMA, ETS, LinearRegression, GradientBoosting}

var (
	ErrNoHorizon      = errors.New("no horizon years to forecast")
	ErrNoSeries       = errors.New("no series to fit")
	ErrForecastLen    = errors.New("forecast length does not match horizon")
	ErrPanic          = errors.New("fitter panicked")
	ErrInvalidWindow  = errors.New("score window must be positive")
	ErrUnknownFitter  = errors.New("unknown fitter")
	ErrDuplicateModel = errors.New("duplicate fitter name")
)

// Priority returns the tie-break rank of a strategy where lower wins. Unknown names rank last.
func (n Name) Priority() int {
	for i, name := range Names {
		if name == n {
			return i
		}
	}
	return len(Names)
}

// Known reports whether the name is one of the built in strategies
func (n Name) Known() bool {
	return n.Priority() < len(Names)
}

// Prediction is a forecast value for a single future year
type Prediction struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
}

// Result is the outcome of one strategy on one series. A result with a non-nil Err has no usable
// score and is never selected. Scores holds the fit diagnostics over the same points MAPE was
// scored on when the strategy reports them.
type Result struct {
	Model    Name         `json:"model"`
	Forecast []Prediction `json:"forecast,omitempty"`
	MAPE     float64      `json:"mape"`
	Scores   *Scores      `json:"scores,omitempty"`
	Err      error        `json:"-"`
}

// Valid reports whether the result carries a usable score and forecast
func (r Result) Valid() bool {
	return r.Err == nil && isFinite(r.MAPE) && len(r.Forecast) > 0
}

// Failure wraps err as a failed result for the named strategy
func Failure(name Name, err error) Result {
	return Result{
		Model: name,
		MAPE:  math.NaN(),
		Err:   fmt.Errorf("%s, %w", name, err),
	}
}

// Success builds a scored result after checking the forecast lines up with the horizon
func Success(name Name, horizon []int, forecast []float64, mape float64) Result {
	if len(forecast) != len(horizon) {
		return Failure(name, fmt.Errorf("got %d values for %d years, %w", len(forecast), len(horizon), ErrForecastLen))
	}
	preds := make([]Prediction, len(horizon))
	for i, year := range horizon {
		if !isFinite(forecast[i]) {
			return Failure(name, fmt.Errorf("forecast for %d, %w", year, ErrNonFinite))
		}
		preds[i] = Prediction{Year: year, Value: forecast[i]}
	}
	return Result{
		Model:    name,
		Forecast: preds,
		MAPE:     mape,
	}
}

// withScores attaches fit diagnostics to a successful result
func withScores(res Result, scores *Scores) Result {
	if res.Err == nil {
		res.Scores = scores
	}
	return res
}

// Fitter is a forecasting strategy. Fit must not mutate the series and reports any failure
// through the returned Result.
type Fitter interface {
	Name() Name
	Fit(series *timedataset.TimeDataset, horizon []int) Result
}

// Run calls f.Fit on its own copy of the series and turns a panic into a failed result
func Run(f Fitter, series *timedataset.TimeDataset, horizon []int) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Failure(f.Name(), fmt.Errorf("%v, %w", r, ErrPanic))
		}
	}()
	if series == nil || series.Len() == 0 {
		return Failure(f.Name(), ErrNoSeries)
	}
	if len(horizon) == 0 {
		return Failure(f.Name(), ErrNoHorizon)
	}
	return f.Fit(series.Copy(), append([]int(nil), horizon...))
}

// New returns the four built in strategies in priority order
func New(opt *Options) ([]Fitter, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	return []Fitter{
		&ARIMAFitter{opt: opt},
		&ETSFitter{opt: opt},
		&LinearFitter{opt: opt},
		&BoostingFitter{opt: opt},
	}, nil
}

// tail returns the last n values, or all of them when the series is shorter
func tail(y []float64, n int) []float64 {
	if n > len(y) {
		n = len(y)
	}
	return y[len(y)-n:]
}
