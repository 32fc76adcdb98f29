// Package linearmodel is a collection of linear regression fitting implementations used by the
// trend fitters
package linearmodel

import (
	"gonum.org/v1/gonum/mat"
)

// Model is a regression model fit on a design matrix x with one observation per row and a
// single column target matrix y
type Model interface {
	Fit(x, y mat.Matrix) error
	Predict(x mat.Matrix) ([]float64, error)
	Score(x, y mat.Matrix) (float64, error)
	Intercept() float64
	Coef() []float64
}
