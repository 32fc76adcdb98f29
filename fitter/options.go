package fitter

import (
	"fmt"

	"github.com/aouyang1/go-healthforecast/ensemble"
	"github.com/aouyang1/go-healthforecast/linearmodel"
	"github.com/aouyang1/go-healthforecast/tsa"
)

// Options configures the built in strategies
type Options struct {
	// ScoreWindow is the number of trailing observations the time series strategies are scored on
	ScoreWindow int `yaml:"score_window" split_words:"true"`

	ARIMA    *tsa.ARIMAOptions                 `yaml:"arima"`
	Holt     *tsa.HoltOptions                  `yaml:"holt"`
	OLS      *linearmodel.OLSOptions           `yaml:"ols"`
	Boosting *ensemble.GradientBoostingOptions `yaml:"boosting"`
}

// NewDefaultOptions returns the default strategy options
func NewDefaultOptions() *Options {
	return &Options{
		ScoreWindow: 5,
		ARIMA:       tsa.NewDefaultARIMAOptions(),
		Holt:        tsa.NewDefaultHoltOptions(),
		OLS:         linearmodel.NewDefaultOLSOptions(),
		Boosting:    ensemble.NewDefaultGradientBoostingOptions(),
	}
}

// Validate fills in missing model options with defaults and checks each of them
func (o *Options) Validate() (*Options, error) {
	if o == nil {
		return NewDefaultOptions(), nil
	}
	if o.ScoreWindow <= 0 {
		return nil, fmt.Errorf("got score window of %d, %w", o.ScoreWindow, ErrInvalidWindow)
	}

	var err error
	if o.ARIMA, err = o.ARIMA.Validate(); err != nil {
		return nil, fmt.Errorf("invalid arima options, %w", err)
	}
	if o.Holt, err = o.Holt.Validate(); err != nil {
		return nil, fmt.Errorf("invalid holt options, %w", err)
	}
	if o.OLS, err = o.OLS.Validate(); err != nil {
		return nil, fmt.Errorf("invalid ols options, %w", err)
	}
	if o.Boosting, err = o.Boosting.Validate(); err != nil {
		return nil, fmt.Errorf("invalid gradient boosting options, %w", err)
	}
	return o, nil
}
