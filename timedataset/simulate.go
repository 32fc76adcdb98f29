package timedataset

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
)

// GenerateYears returns n contiguous years starting at start
func GenerateYears(start, n int) []int {
	years := make([]int, 0, n)
	for i := 0; i < n; i++ {
		years = append(years, start+i)
	}
	return years
}

type Series []float64

func (s Series) Add(src Series) Series {
	floats.Add(s, src)
	return s
}

// SetConst overwrites the values for years in [start, end)
func (s Series) SetConst(years []int, val float64, start, end int) Series {
	n := len(s)
	for i := 0; i < n; i++ {
		if years[i] >= start && years[i] < end {
			s[i] = val
		}
	}
	return s
}

// MaskWithYearRange zeroes out any value outside of [start, end]
func (s Series) MaskWithYearRange(start, end int, years []int) Series {
	n := len(s)
	for i := 0; i < n; i++ {
		if years[i] < start || years[i] > end {
			s[i] = 0.0
		}
	}
	return s
}

func GenerateConstY(n int, val float64) Series {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, val)
	}
	return Series(y)
}

// GenerateLinearY produces intercept + slope*(year - years[0])
func GenerateLinearY(years []int, intercept, slope float64) Series {
	y := make([]float64, 0, len(years))
	for _, year := range years {
		y = append(y, intercept+slope*float64(year-years[0]))
	}
	return Series(y)
}

// GenerateGrowthY produces start compounded by rate each year
func GenerateGrowthY(n int, start, rate float64) Series {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, start*math.Pow(1.0+rate, float64(i)))
	}
	return Series(y)
}

// GenerateNoise produces normally distributed noise from a seeded source so simulated
// series are reproducible
func GenerateNoise(n int, noiseScale float64, seed uint64) Series {
	rng := rand.New(rand.NewPCG(seed, seed))
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, rng.NormFloat64()*noiseScale)
	}
	return Series(y)
}

// GenerateChange produces a level shift of bias plus slope per year starting at chpt
func GenerateChange(years []int, chpt int, bias, slope float64) Series {
	n := len(years)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		if years[i] >= chpt {
			y[i] = bias + slope*float64(years[i]-chpt)
		}
	}
	return Series(y)
}
