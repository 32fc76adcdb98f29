package fitter

import (
	"github.com/aouyang1/go-healthforecast/timedataset"
	"github.com/aouyang1/go-healthforecast/tsa"
)

// seriesModel is a univariate model fit on the raw value sequence by index
type seriesModel interface {
	Fit(y []float64) error
	Fitted() ([]float64, error)
	Forecast(steps int) ([]float64, error)
}

// fitSeries fits the model to the values, scores the in-sample one step predictions over the
// trailing window and forecasts one value per horizon year
func fitSeries(name Name, model seriesModel, series *timedataset.TimeDataset, horizon []int, window int) Result {
	if err := model.Fit(series.Y); err != nil {
		return Failure(name, err)
	}
	fitted, err := model.Fitted()
	if err != nil {
		return Failure(name, err)
	}
	scores, err := NewScores(tail(fitted, window), series.Tail(window))
	if err != nil {
		return Failure(name, err)
	}
	forecast, err := model.Forecast(len(horizon))
	if err != nil {
		return Failure(name, err)
	}
	return withScores(Success(name, horizon, forecast, scores.MAPE), scores)
}

// ARIMAFitter forecasts with an ARIMA(1,1,1) model
type ARIMAFitter struct {
	opt *Options
}

// NewARIMAFitter returns the ARIMA strategy
func NewARIMAFitter(opt *Options) (*ARIMAFitter, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	return &ARIMAFitter{opt: opt}, nil
}

func (a *ARIMAFitter) Name() Name {
	return ARIMA
}

func (a *ARIMAFitter) Fit(series *timedataset.TimeDataset, horizon []int) Result {
	model, err := tsa.NewARIMA(a.opt.ARIMA)
	if err != nil {
		return Failure(ARIMA, err)
	}
	return fitSeries(ARIMA, model, series, horizon, a.opt.ScoreWindow)
}

// ETSFitter forecasts with Holt's additive trend exponential smoothing
type ETSFitter struct {
	opt *Options
}

// NewETSFitter returns the exponential smoothing strategy
func NewETSFitter(opt *Options) (*ETSFitter, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	return &ETSFitter{opt: opt}, nil
}

func (e *ETSFitter) Name() Name {
	return ETS
}

func (e *ETSFitter) Fit(series *timedataset.TimeDataset, horizon []int) Result {
	model, err := tsa.NewHolt(e.opt.Holt)
	if err != nil {
		return Failure(ETS, err)
	}
	return fitSeries(ETS, model, series, horizon, e.opt.ScoreWindow)
}
