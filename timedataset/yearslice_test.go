package timedataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestYearSlice(t *testing.T) {
	testData := map[string]struct {
		years YearSlice
		start int
		end   int
		gaps  []int
	}{
		"nil input": {
			years: nil,
		},
		"contiguous": {
			years: YearSlice{2000, 2001, 2002},
			start: 2000,
			end:   2002,
		},
		"with gaps": {
			years: YearSlice{2000, 2003, 2004, 2006},
			start: 2000,
			end:   2006,
			gaps:  []int{2001, 2002, 2005},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, td.start, td.years.Start())
			assert.Equal(t, td.end, td.years.End())
			assert.Equal(t, td.gaps, td.years.Gaps())
			assert.Len(t, td.years.Floats(), len(td.years))
		})
	}
}
