// Package tsa fits classical univariate time series models to short annual series
package tsa

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/optimize"
)

// penalty stands in for objective values that overflow or are undefined so the simplex moves
// away from them
const penalty = 1e300

func finiteOrPenalty(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return penalty
	}
	return v
}

// minimize runs a derivative free Nelder-Mead search from x0 and returns the best location
func minimize(f func(x []float64) float64, x0 []float64, maxIter int) ([]float64, error) {
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			return finiteOrPenalty(f(x))
		},
	}
	settings := &optimize.Settings{
		MajorIterations: maxIter,
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-12,
			Iterations: 200,
		},
	}
	res, err := optimize.Minimize(problem, x0, settings, &optimize.NelderMead{})
	if err != nil {
		return nil, fmt.Errorf("%w, %w", ErrOptimize, err)
	}
	if res == nil || res.F >= penalty {
		return nil, ErrOptimize
	}
	for _, v := range res.X {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, ErrOptimize
		}
	}
	return res.X, nil
}

func logistic(v float64) float64 {
	return 1.0 / (1.0 + math.Exp(-v))
}

func logit(p float64) float64 {
	return math.Log(p / (1.0 - p))
}

func checkFinite(y []float64) error {
	for i, v := range y {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("value at index %d is %f, %w", i, v, ErrNonFiniteSeries)
		}
	}
	return nil
}
