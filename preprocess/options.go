// Package preprocess cleans, enriches, aggregates and flags the combined vaccination and disease
// observation table ahead of forecasting
package preprocess

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidOutlierFactor = errors.New("outlier factor must be non-negative")
	ErrInvalidThreshold     = errors.New("anomaly threshold must be positive")
	ErrNoRecords            = errors.New("no records")
)

// AggregateCodes are WHO region and World Bank income group codes that are not countries
var AggregateCodes = []string{
	"AFR", "AMR", "EMR", "EUR", "GLOBAL", "MDA", "SEAR", "WB_HI", "WB_LI", "WB_LMI", "WB_UMI", "WPR", "XKX",
}

// Options configures the cleaning stages
type Options struct {
	// OutlierFactor scales the interquartile range to set the outlier fences
	OutlierFactor float64 `yaml:"outlier_factor" split_words:"true"`

	// AnomalyThreshold is the absolute year over year relative change flagged as an anomaly
	AnomalyThreshold float64 `yaml:"anomaly_threshold" split_words:"true"`

	ExcludedCodes   []string          `yaml:"excluded_codes" split_words:"true"`
	RegionOverrides map[string]string `yaml:"region_overrides" split_words:"true"`
}

// NewDefaultOptions returns the default cleaning options
func NewDefaultOptions() *Options {
	return &Options{
		OutlierFactor:    1.5,
		AnomalyThreshold: 0.80,
		ExcludedCodes:    append([]string(nil), AggregateCodes...),
		RegionOverrides: map[string]string{
			"HKG": "South-East Asia",
			"MAC": "South-East Asia",
		},
	}
}

// Validate runs basic validation on cleaning options
func (o *Options) Validate() (*Options, error) {
	if o == nil {
		return NewDefaultOptions(), nil
	}
	if o.OutlierFactor < 0 {
		return nil, fmt.Errorf("got outlier factor of %.2f, %w", o.OutlierFactor, ErrInvalidOutlierFactor)
	}
	if o.AnomalyThreshold <= 0 {
		return nil, fmt.Errorf("got anomaly threshold of %.2f, %w", o.AnomalyThreshold, ErrInvalidThreshold)
	}
	return o, nil
}
