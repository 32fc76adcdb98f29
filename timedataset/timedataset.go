package timedataset

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrNoTrainingData     = errors.New("no training data")
	ErrNonMonotonic       = errors.New("years are not strictly increasing")
	ErrDatasetLenMismatch = errors.New("years have a different length than observations")
	ErrHorizonTooShort    = errors.New("horizon must contain at least one year")
)

// TimeDataset represents a yearly series storing a slice of calendar years and values.
// Both must be of the same length.
type TimeDataset struct {
	Years []int
	Y     []float64
}

// NewYearlyDataset returns an instance of a TimeDataset given a year and value slice. Years
// must be strictly increasing but do not have to be contiguous.
func NewYearlyDataset(years []int, y []float64) (*TimeDataset, error) {
	if len(y) == 0 {
		return nil, ErrNoTrainingData
	}
	if len(years) != len(y) {
		return nil, fmt.Errorf(
			"years have length of %d, but values has a length of %d, %w",
			len(years), len(y), ErrDatasetLenMismatch,
		)
	}

	for i := 1; i < len(years); i++ {
		if years[i] <= years[i-1] {
			return nil, fmt.Errorf("non-monotonic at %d, year %d follows %d, %w", i, years[i], years[i-1], ErrNonMonotonic)
		}
	}

	ySeries := make([]int, len(years))
	vSeries := make([]float64, len(y))
	copy(ySeries, years)
	copy(vSeries, y)
	td := &TimeDataset{
		Years: ySeries,
		Y:     vSeries,
	}

	return td, nil
}

// Copy returns a deep copy of the dataset so callers can mutate it independently
func (td *TimeDataset) Copy() *TimeDataset {
	if td == nil {
		return nil
	}
	ySeries := make([]int, len(td.Years))
	vSeries := make([]float64, len(td.Y))
	copy(ySeries, td.Years)
	copy(vSeries, td.Y)
	return &TimeDataset{
		Years: ySeries,
		Y:     vSeries,
	}
}

// Len returns the number of observations
func (td *TimeDataset) Len() int {
	if td == nil {
		return 0
	}
	return len(td.Y)
}

// DropNan returns a new dataset without any observations holding a NaN value
func (td *TimeDataset) DropNan() *TimeDataset {
	if td == nil {
		return nil
	}
	years := make([]int, 0, len(td.Years))
	y := make([]float64, 0, len(td.Y))
	for i := 0; i < len(td.Y); i++ {
		if math.IsNaN(td.Y[i]) {
			continue
		}
		years = append(years, td.Years[i])
		y = append(y, td.Y[i])
	}
	return &TimeDataset{
		Years: years,
		Y:     y,
	}
}

// Features returns the years as a float feature column for regression models
func (td *TimeDataset) Features() []float64 {
	if td == nil {
		return nil
	}
	x := make([]float64, len(td.Years))
	for i, year := range td.Years {
		x[i] = float64(year)
	}
	return x
}

// Tail returns a copy of the last n values. If n exceeds the series length the whole
// series is returned.
func (td *TimeDataset) Tail(n int) []float64 {
	if td == nil || n <= 0 {
		return nil
	}
	if n > len(td.Y) {
		n = len(td.Y)
	}
	res := make([]float64, n)
	copy(res, td.Y[len(td.Y)-n:])
	return res
}

// Horizon returns the n contiguous years following the last observed year
func (td *TimeDataset) Horizon(n int) ([]int, error) {
	if td == nil || len(td.Years) == 0 {
		return nil, ErrNoTrainingData
	}
	if n < 1 {
		return nil, ErrHorizonTooShort
	}
	last := YearSlice(td.Years).End()
	horizon := make([]int, 0, n)
	for i := 1; i <= n; i++ {
		horizon = append(horizon, last+i)
	}
	return horizon, nil
}
