package healthforecast

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aouyang1/go-healthforecast/fitter"
)

var (
	ErrInvalidMinObservations = errors.New("minimum observations must be at least 2")
	ErrInvalidHorizon         = errors.New("horizon must be positive")
	ErrInvalidParallelization = errors.New("parallelization must be positive")
	ErrInvalidCacheSize       = errors.New("cache size must be non-negative")
	ErrNoDiseaseType          = errors.New("no disease type to select series")
)

// Options configures the forecast engine
type Options struct {
	// DiseaseType selects the rows forecast by the engine, compared case insensitively
	DiseaseType string `yaml:"disease_type" split_words:"true"`

	// MinObservations is the fewest valid (year, value) pairs a series needs to be forecast
	MinObservations int `yaml:"min_observations" split_words:"true"`

	// Horizon is the number of contiguous years forecast past the last observed year
	Horizon int `yaml:"horizon"`

	// Parallelization bounds how many fitters run concurrently on one series
	Parallelization int `yaml:"parallelization"`

	// CacheSize is the number of series selections memoized across runs, 0 disables it
	CacheSize int `yaml:"cache_size" split_words:"true"`

	FitterOptions *fitter.Options `yaml:"fitters" split_words:"true"`
}

// NewDefaultOptions returns the default engine options
func NewDefaultOptions() *Options {
	return &Options{
		DiseaseType:     "disease",
		MinObservations: 5,
		Horizon:         5,
		Parallelization: 1,
		CacheSize:       0,
		FitterOptions:   fitter.NewDefaultOptions(),
	}
}

// Validate runs basic validation on engine options
func (o *Options) Validate() (*Options, error) {
	if o == nil {
		return NewDefaultOptions(), nil
	}
	if strings.TrimSpace(o.DiseaseType) == "" {
		return nil, ErrNoDiseaseType
	}
	if o.MinObservations < 2 {
		return nil, fmt.Errorf("got %d minimum observations, %w", o.MinObservations, ErrInvalidMinObservations)
	}
	if o.Horizon <= 0 {
		return nil, fmt.Errorf("got horizon of %d, %w", o.Horizon, ErrInvalidHorizon)
	}
	if o.Parallelization <= 0 {
		return nil, fmt.Errorf("got parallelization of %d, %w", o.Parallelization, ErrInvalidParallelization)
	}
	if o.CacheSize < 0 {
		return nil, fmt.Errorf("got cache size of %d, %w", o.CacheSize, ErrInvalidCacheSize)
	}

	var err error
	if o.FitterOptions, err = o.FitterOptions.Validate(); err != nil {
		return nil, fmt.Errorf("invalid fitter options, %w", err)
	}
	return o, nil
}
