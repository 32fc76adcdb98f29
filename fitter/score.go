package fitter

import (
	"errors"
	"fmt"
	"math"

	"github.com/aouyang1/go-healthforecast/stats"
)

var (
	ErrResLenMismatch = errors.New("predicted and actual have different lengths")
	ErrNoValues       = errors.New("no values to score")
	ErrZeroActual     = errors.New("actual value of zero leaves percent error undefined")
	ErrNonFinite      = errors.New("non-finite value")
)

// Scores tracks the fit scores
type Scores struct {
	MSE  float64 `json:"mean_squared_error"`
	MAPE float64 `json:"mean_average_percent_error"`
	R2   float64 `json:"r_squared"`
}

// NewScores calculates the fit scores given the predicted and actual input slice values
func NewScores(predicted, actual []float64) (*Scores, error) {
	mse, err := MSE(predicted, actual)
	if err != nil {
		return nil, fmt.Errorf("unable to compute mean squared error, %w", err)
	}
	mape, err := MAPE(predicted, actual)
	if err != nil {
		return nil, fmt.Errorf("unable to compute mean average percent error, %w", err)
	}
	rs, err := RSquared(predicted, actual)
	if err != nil {
		return nil, fmt.Errorf("unable to compute r-squared, %w", err)
	}

	return &Scores{
		MSE:  mse,
		MAPE: mape,
		R2:   rs,
	}, nil
}

func checkPair(predicted, actual []float64) error {
	if len(predicted) != len(actual) {
		return fmt.Errorf("expected %d, but got %d, %w", len(actual), len(predicted), ErrResLenMismatch)
	}
	if len(actual) == 0 {
		return ErrNoValues
	}
	for i := range actual {
		if !isFinite(actual[i]) {
			return fmt.Errorf("actual at index %d, %w", i, ErrNonFinite)
		}
		if !isFinite(predicted[i]) {
			return fmt.Errorf("prediction at index %d, %w", i, ErrNonFinite)
		}
	}
	return nil
}

// MSE computes the mean squared error. A score of 0 means a perfect match with no errors.
func MSE(predicted, actual []float64) (float64, error) {
	if err := checkPair(predicted, actual); err != nil {
		return 0, err
	}

	mse := 0.0
	for i := range actual {
		mse += math.Pow(actual[i]-predicted[i], 2.0)
	}
	mse /= float64(len(actual))
	return mse, nil
}

// MAPE calculates the mean absolute percent error, mean(abs((y-yhat)/y)). Unlike a lenient
// variant that skips zero actuals, any zero actual fails the score.
func MAPE(predicted, actual []float64) (float64, error) {
	if err := checkPair(predicted, actual); err != nil {
		return 0, err
	}

	mape := 0.0
	for i := range actual {
		if actual[i] == 0 {
			return 0, fmt.Errorf("actual at index %d, %w", i, ErrZeroActual)
		}
		mape += math.Abs((actual[i] - predicted[i]) / actual[i])
	}
	mape /= float64(len(actual))
	if !isFinite(mape) {
		return 0, fmt.Errorf("mean absolute percent error, %w", ErrNonFinite)
	}
	return mape, nil
}

// RSquared computes the r squared value between the predicted and actual where 1.0 means perfect
// fit and 0 represents no relationship
func RSquared(predicted, actual []float64) (float64, error) {
	if err := checkPair(predicted, actual); err != nil {
		return 0, err
	}
	return stats.RSquared(predicted, actual), nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
