package stats

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// equalTol is the absolute or relative tolerance under which a prediction of a constant target
// counts as exact
const equalTol = 1e-9

// RSquared computes the coefficient of determination of predicted against actual. A constant
// actual has no variance to explain, so it scores 1 when matched within tolerance and 0 otherwise.
// Lengths must match.
func RSquared(predicted, actual []float64) float64 {
	if constant(actual) {
		if floats.EqualApprox(predicted, actual, equalTol) {
			return 1.0
		}
		return 0.0
	}
	return stat.RSquaredFrom(predicted, actual, nil)
}

func constant(y []float64) bool {
	for _, v := range y {
		if v != y[0] {
			return false
		}
	}
	return true
}
