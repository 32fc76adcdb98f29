package tsa

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// minDiffs is the fewest first differences needed to estimate one AR and one MA term
const minDiffs = 3

// ARIMAOptions configures the ARIMA(1,1,1) fit
type ARIMAOptions struct {
	MaxIterations int `yaml:"max_iterations" split_words:"true"`
}

// NewDefaultARIMAOptions returns the default ARIMA options
func NewDefaultARIMAOptions() *ARIMAOptions {
	return &ARIMAOptions{
		MaxIterations: 500,
	}
}

// Validate runs basic validation on ARIMA options
func (o *ARIMAOptions) Validate() (*ARIMAOptions, error) {
	if o == nil {
		return NewDefaultARIMAOptions(), nil
	}
	if o.MaxIterations <= 0 {
		return nil, fmt.Errorf("got %d iterations, %w", o.MaxIterations, ErrInvalidIterations)
	}
	return o, nil
}

// ARIMA is a first differenced ARMA(1,1) model without drift, estimated by conditional sum of
// squares on the differenced series
type ARIMA struct {
	opt *ARIMAOptions

	ar, ma  float64
	y       []float64
	diffs   []float64
	resid   []float64
	fitted  []float64
	trained bool
}

// NewARIMA initializes an ARIMA(1,1,1) model ready for fitting
func NewARIMA(opt *ARIMAOptions) (*ARIMA, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	return &ARIMA{opt: opt}, nil
}

// Fit estimates the AR and MA coefficients on the series y
func (a *ARIMA) Fit(y []float64) error {
	if err := checkFinite(y); err != nil {
		return err
	}
	if len(y)-1 < minDiffs {
		return fmt.Errorf("got %d observations, %w", len(y), ErrInsufficientData)
	}

	diffs := make([]float64, len(y)-1)
	floats.SubTo(diffs, y[1:], y[:len(y)-1])

	// tanh keeps both coefficients inside the stationary and invertible region
	css := func(p []float64) float64 {
		_, ss := armaResiduals(diffs, math.Tanh(p[0]), math.Tanh(p[1]))
		return ss
	}
	params, err := minimize(css, []float64{0, 0}, a.opt.MaxIterations)
	if err != nil {
		return err
	}

	a.ar = math.Tanh(params[0])
	a.ma = math.Tanh(params[1])
	a.y = append([]float64(nil), y...)
	a.diffs = diffs
	a.resid, _ = armaResiduals(diffs, a.ar, a.ma)

	// one step ahead in-sample predictions of the levels. The first observation has no prior
	// level so it is predicted as zero.
	a.fitted = make([]float64, len(y))
	for t := 0; t < len(diffs); t++ {
		a.fitted[t+1] = y[t] + (diffs[t] - a.resid[t])
	}
	a.trained = true
	return nil
}

// armaResiduals runs the ARMA(1,1) recursion over w conditioned on zero pre-sample values and
// returns the one step residuals with their sum of squares excluding the first term
func armaResiduals(w []float64, ar, ma float64) ([]float64, float64) {
	resid := make([]float64, len(w))
	resid[0] = w[0]
	ss := 0.0
	for t := 1; t < len(w); t++ {
		pred := ar*w[t-1] + ma*resid[t-1]
		resid[t] = w[t] - pred
		ss += resid[t] * resid[t]
	}
	return resid, ss
}

// Fitted returns the in-sample one step ahead predictions aligned to the training series
func (a *ARIMA) Fitted() ([]float64, error) {
	if !a.trained {
		return nil, ErrUntrainedModel
	}
	return append([]float64(nil), a.fitted...), nil
}

// Forecast extends the series by steps values past the last observation
func (a *ARIMA) Forecast(steps int) ([]float64, error) {
	if !a.trained {
		return nil, ErrUntrainedModel
	}
	if steps <= 0 {
		return nil, fmt.Errorf("got %d steps, %w", steps, ErrInvalidSteps)
	}

	n := len(a.diffs)
	w := a.ar*a.diffs[n-1] + a.ma*a.resid[n-1]
	level := a.y[len(a.y)-1]

	res := make([]float64, steps)
	for h := range steps {
		if h > 0 {
			w = a.ar * w
		}
		level += w
		res[h] = level
	}
	return res, nil
}

// Coef returns the AR and MA coefficients
func (a *ARIMA) Coef() (float64, float64) {
	return a.ar, a.ma
}
