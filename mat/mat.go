// Package mat contains helpers to build gonum matrices from the slices the fitters work with
package mat

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

var ErrColMismatch = errors.New("column size mismatch")

// NewDenseFromArray builds a row major dense matrix where each inner slice is a row
func NewDenseFromArray(x [][]float64) (*mat.Dense, error) {
	m := len(x)
	if m == 0 {
		return nil, mat.ErrZeroLength
	}

	n := len(x[0])
	for i, row := range x {
		if len(row) != n {
			return nil, fmt.Errorf("at row %d, %w", i, ErrColMismatch)
		}
	}
	if n == 0 {
		return nil, mat.ErrZeroLength
	}

	// flatten to row order
	data := make([]float64, 0, m*n)
	for _, row := range x {
		data = append(data, row...)
	}
	return mat.NewDense(m, n, data), nil
}

// NewColumn builds a single column design or target matrix from a slice
func NewColumn(x []float64) (*mat.Dense, error) {
	if len(x) == 0 {
		return nil, mat.ErrZeroLength
	}
	data := make([]float64, len(x))
	copy(data, x)
	return mat.NewDense(len(x), 1, data), nil
}
