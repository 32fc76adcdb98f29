package timedataset

// YearSlice is an ordered slice of calendar years
type YearSlice []int

// Start returns the first year or 0 if empty
func (y YearSlice) Start() int {
	if len(y) < 1 {
		return 0
	}
	return y[0]
}

// End returns the last year or 0 if empty
func (y YearSlice) End() int {
	if len(y) < 1 {
		return 0
	}
	return y[len(y)-1]
}

// Gaps returns the years missing between the first and last year. Missing years are not
// interpolated by any model, this is only used for reporting.
func (y YearSlice) Gaps() []int {
	var gaps []int
	for i := 1; i < len(y); i++ {
		for missing := y[i-1] + 1; missing < y[i]; missing++ {
			gaps = append(gaps, missing)
		}
	}
	return gaps
}

// Floats converts the years into a float slice
func (y YearSlice) Floats() []float64 {
	res := make([]float64, len(y))
	for i, year := range y {
		res[i] = float64(year)
	}
	return res
}
