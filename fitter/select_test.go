package fitter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func result(name Name, mape float64) Result {
	return Success(name, []int{2023}, []float64{1}, mape)
}

func TestSelect(t *testing.T) {
	testData := map[string]struct {
		results  []Result
		expected Name
		ok       bool
	}{
		"lowest wins": {
			results:  []Result{result(ARIMA, 0.3), result(ETS, 0.1), result(LinearRegression, 0.2)},
			expected: ETS,
			ok:       true,
		},
		"failures skipped": {
			results: []Result{
				Failure(ARIMA, errors.New("no convergence")),
				result(GradientBoosting, 0.4),
				Failure(LinearRegression, ErrZeroActual),
			},
			expected: GradientBoosting,
			ok:       true,
		},
		"tie resolves by priority": {
			results:  []Result{result(GradientBoosting, 0.0), result(LinearRegression, 0.0), result(ETS, 0.0)},
			expected: ETS,
			ok:       true,
		},
		"all failed": {
			results: []Result{Failure(ARIMA, ErrNoSeries), Failure(ETS, ErrNoSeries)},
			ok:      false,
		},
		"empty": {
			results: nil,
			ok:      false,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			res, ok := Select(td.results)
			require.Equal(t, td.ok, ok)
			if !ok {
				return
			}
			assert.Equal(t, td.expected, res.Model)
		})
	}
}
