package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRSquared(t *testing.T) {
	testData := map[string]struct {
		predicted []float64
		actual    []float64
		expected  float64
	}{
		"perfect":                 {[]float64{1, 2, 3}, []float64{1, 2, 3}, 1.0},
		"mean only":               {[]float64{2, 2, 2}, []float64{1, 2, 3}, 0.0},
		"partial":                 {[]float64{1, 3, 3}, []float64{1, 2, 3}, 0.5},
		"constant exact":          {[]float64{50, 50, 50}, []float64{50, 50, 50}, 1.0},
		"constant rounding noise": {[]float64{50 + 1e-13, 50 - 2e-13, 50}, []float64{50, 50, 50}, 1.0},
		"constant missed":         {[]float64{49, 50, 51}, []float64{50, 50, 50}, 0.0},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			assert.InDelta(t, td.expected, RSquared(td.predicted, td.actual), 1e-12)
		})
	}
}
