package healthforecast

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/aouyang1/go-healthforecast/dataset"
	"github.com/aouyang1/go-healthforecast/timedataset"
)

// EntityKey identifies one forecast series
type EntityKey struct {
	Country string `json:"country"`
	Disease string `json:"disease"`
}

func (k EntityKey) String() string {
	return k.Country + "/" + k.Disease
}

func compareKeys(a, b EntityKey) int {
	return cmp.Or(cmp.Compare(a.Country, b.Country), cmp.Compare(a.Disease, b.Disease))
}

// candidate is the valid history of one entity before the minimum length policy is applied
type candidate struct {
	key   EntityKey
	years []int
	y     []float64
}

// extract keeps rows of the disease type, groups them by entity and drops rows missing a year or
// value. Each group is sorted by year and groups are returned in key order.
func extract(records []dataset.Record, diseaseType string) []candidate {
	diseaseType = strings.TrimSpace(diseaseType)

	type point struct {
		year  int
		value float64
	}
	groups := make(map[EntityKey][]point)
	for _, r := range records {
		if !strings.EqualFold(strings.TrimSpace(r.Type), diseaseType) {
			continue
		}
		key := EntityKey{Country: r.Country, Disease: r.Disease}
		if !r.HasYear || !r.HasValue() {
			if _, ok := groups[key]; !ok {
				groups[key] = nil
			}
			continue
		}
		groups[key] = append(groups[key], point{r.Year, r.Value})
	}

	res := make([]candidate, 0, len(groups))
	for key, points := range groups {
		slices.SortStableFunc(points, func(a, b point) int {
			return cmp.Compare(a.year, b.year)
		})
		c := candidate{
			key:   key,
			years: make([]int, len(points)),
			y:     make([]float64, len(points)),
		}
		for i, p := range points {
			c.years[i] = p.year
			c.y[i] = p.value
		}
		res = append(res, c)
	}
	slices.SortFunc(res, func(a, b candidate) int {
		return compareKeys(a.key, b.key)
	})
	return res
}

// series builds the yearly dataset, failing when a year repeats
func (c candidate) series() (*timedataset.TimeDataset, error) {
	td, err := timedataset.NewYearlyDataset(c.years, c.y)
	if err != nil {
		return nil, fmt.Errorf("unable to build series for %s, %w", c.key, err)
	}
	return td, nil
}
