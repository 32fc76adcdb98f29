package tsa

import (
	"fmt"
)

// HoltOptions configures Holt's additive trend exponential smoothing
type HoltOptions struct {
	InitialAlpha  float64 `yaml:"initial_alpha" split_words:"true"`
	InitialBeta   float64 `yaml:"initial_beta" split_words:"true"`
	MaxIterations int     `yaml:"max_iterations" split_words:"true"`
}

// NewDefaultHoltOptions returns the default Holt options
func NewDefaultHoltOptions() *HoltOptions {
	return &HoltOptions{
		InitialAlpha:  0.5,
		InitialBeta:   0.1,
		MaxIterations: 500,
	}
}

// Validate runs basic validation on Holt options
func (o *HoltOptions) Validate() (*HoltOptions, error) {
	if o == nil {
		return NewDefaultHoltOptions(), nil
	}
	if o.InitialAlpha <= 0 || o.InitialAlpha >= 1 {
		return nil, fmt.Errorf("got initial alpha of %.4f, %w", o.InitialAlpha, ErrInvalidSmoothing)
	}
	if o.InitialBeta <= 0 || o.InitialBeta >= 1 {
		return nil, fmt.Errorf("got initial beta of %.4f, %w", o.InitialBeta, ErrInvalidSmoothing)
	}
	if o.MaxIterations <= 0 {
		return nil, fmt.Errorf("got %d iterations, %w", o.MaxIterations, ErrInvalidIterations)
	}
	return o, nil
}

// Holt smooths a level and an additive trend. The level starts at the first observation and the
// trend at the first difference.
type Holt struct {
	opt *HoltOptions

	alpha, beta  float64
	level, trend float64
	fitted       []float64
	trained      bool
}

// NewHolt initializes a Holt model ready for fitting
func NewHolt(opt *HoltOptions) (*Holt, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	return &Holt{opt: opt}, nil
}

// Fit estimates the smoothing parameters by minimizing the in-sample squared one step error
func (h *Holt) Fit(y []float64) error {
	if err := checkFinite(y); err != nil {
		return err
	}
	if len(y) < 2 {
		return fmt.Errorf("got %d observations, %w", len(y), ErrInsufficientData)
	}

	sse := func(p []float64) float64 {
		run := smooth(y, logistic(p[0]), logistic(p[1]))
		return run.sse
	}
	x0 := []float64{logit(h.opt.InitialAlpha), logit(h.opt.InitialBeta)}
	params, err := minimize(sse, x0, h.opt.MaxIterations)
	if err != nil {
		return err
	}

	h.alpha = logistic(params[0])
	h.beta = logistic(params[1])
	run := smooth(y, h.alpha, h.beta)
	h.level = run.level
	h.trend = run.trend
	h.fitted = run.fitted
	h.trained = true
	return nil
}

type holtRun struct {
	level, trend float64
	fitted       []float64
	sse          float64
}

func smooth(y []float64, alpha, beta float64) holtRun {
	level := y[0]
	trend := y[1] - y[0]
	fitted := make([]float64, len(y))
	sse := 0.0
	for t, v := range y {
		fitted[t] = level + trend
		e := v - fitted[t]
		sse += e * e

		prev := level
		level = alpha*v + (1-alpha)*(level+trend)
		trend = beta*(level-prev) + (1-beta)*trend
	}
	return holtRun{level: level, trend: trend, fitted: fitted, sse: sse}
}

// Fitted returns the in-sample one step ahead predictions aligned to the training series
func (h *Holt) Fitted() ([]float64, error) {
	if !h.trained {
		return nil, ErrUntrainedModel
	}
	return append([]float64(nil), h.fitted...), nil
}

// Forecast extends the series by steps values along the final level and trend
func (h *Holt) Forecast(steps int) ([]float64, error) {
	if !h.trained {
		return nil, ErrUntrainedModel
	}
	if steps <= 0 {
		return nil, fmt.Errorf("got %d steps, %w", steps, ErrInvalidSteps)
	}
	res := make([]float64, steps)
	for i := range steps {
		res[i] = h.level + float64(i+1)*h.trend
	}
	return res, nil
}

// Params returns the fitted level and trend smoothing parameters
func (h *Holt) Params() (float64, float64) {
	return h.alpha, h.beta
}
