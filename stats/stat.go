// Package stats holds the descriptive statistics used by the cleaning and flagging stages and the
// goodness of fit measures shared by the models
package stats

import (
	"errors"
	"math"
	"sort"
)

var (
	ErrNoValues      = errors.New("no finite values")
	ErrInvalidQuanti = errors.New("quantile must be in [0, 1]")
)

// Quantile computes the p-th quantile of the finite values of y, interpolating linearly between
// the closest ranks at position (n-1)*p of the sorted values
func Quantile(y []float64, p float64) (float64, error) {
	if p < 0 || p > 1 || math.IsNaN(p) {
		return 0, ErrInvalidQuanti
	}
	sorted := finiteSorted(y)
	if len(sorted) == 0 {
		return 0, ErrNoValues
	}
	return quantileSorted(sorted, p), nil
}

func quantileSorted(sorted []float64, p float64) float64 {
	h := float64(len(sorted)-1) * p
	lo := math.Floor(h)
	i := int(lo)
	if i+1 >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	return sorted[i] + (h-lo)*(sorted[i+1]-sorted[i])
}

func finiteSorted(y []float64) []float64 {
	sorted := make([]float64, 0, len(y))
	for _, v := range y {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		sorted = append(sorted, v)
	}
	sort.Float64s(sorted)
	return sorted
}

// Bounds is an inclusive range of accepted values derived from the interquartile range
type Bounds struct {
	Q1    float64
	Q3    float64
	Lower float64
	Upper float64
}

// Contains reports whether v lies within the bounds, inclusive. NaN is never contained.
func (b Bounds) Contains(v float64) bool {
	return v >= b.Lower && v <= b.Upper
}

// IQRBounds computes Q1 - factor*IQR and Q3 + factor*IQR over the finite values of y
func IQRBounds(y []float64, factor float64) (Bounds, error) {
	sorted := finiteSorted(y)
	if len(sorted) == 0 {
		return Bounds{}, ErrNoValues
	}
	factor = math.Max(factor, 0.0)

	q1 := quantileSorted(sorted, 0.25)
	q3 := quantileSorted(sorted, 0.75)
	iqr := q3 - q1
	return Bounds{
		Q1:    q1,
		Q3:    q3,
		Lower: q1 - factor*iqr,
		Upper: q3 + factor*iqr,
	}, nil
}

// DetectOutliers returns the indices of y falling outside the Tukey fences for the given factor.
// Missing values are reported as outliers.
func DetectOutliers(y []float64, tukeyFactor float64) ([]int, error) {
	b, err := IQRBounds(y, tukeyFactor)
	if err != nil {
		return nil, err
	}

	var outlierIdx []int
	for i := 0; i < len(y); i++ {
		if !b.Contains(y[i]) {
			outlierIdx = append(outlierIdx, i)
		}
	}
	return outlierIdx, nil
}

// PctChange returns the relative change from prev to cur. A missing previous value yields NaN
// and a zero previous value yields a signed infinity, or NaN when cur is also zero.
func PctChange(prev, cur float64) float64 {
	if math.IsNaN(prev) || math.IsNaN(cur) {
		return math.NaN()
	}
	return (cur - prev) / prev
}

// Round rounds v to the given number of decimal places
func Round(v float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}
