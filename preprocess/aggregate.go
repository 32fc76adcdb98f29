package preprocess

import (
	"cmp"
	"math"
	"slices"

	"github.com/aouyang1/go-healthforecast/dataset"
	"github.com/aouyang1/go-healthforecast/stats"
)

// Anomaly labels assigned by FlagAnomalies
const (
	AnomalySpike = "sudden_spike"
	AnomalyDrop  = "sudden_drop"
)

type aggKey struct {
	countryName string
	year        int
	typ         string
	disease     string
}

type aggCell struct {
	sum   float64
	count int
}

type place struct {
	region    string
	continent string
}

// Aggregate averages values per (country name, year, type, disease), ordered by those keys.
// Records missing any key are dropped. The region and continent of the first record seen for each
// country name are carried onto its aggregates.
func Aggregate(records []dataset.Record) []dataset.Record {
	cells := make(map[aggKey]*aggCell)
	places := make(map[string]place)
	for _, r := range records {
		if _, ok := places[r.CountryName]; !ok && r.CountryName != "" {
			places[r.CountryName] = place{region: r.Region, continent: r.Continent}
		}
		if !r.HasYear || r.CountryName == "" || r.Type == "" || r.Disease == "" {
			continue
		}
		k := aggKey{r.CountryName, r.Year, r.Type, r.Disease}
		c, ok := cells[k]
		if !ok {
			c = &aggCell{}
			cells[k] = c
		}
		if r.HasValue() {
			c.sum += r.Value
			c.count++
		}
	}

	keys := make([]aggKey, 0, len(cells))
	for k := range cells {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b aggKey) int {
		return cmp.Or(
			cmp.Compare(a.countryName, b.countryName),
			cmp.Compare(a.year, b.year),
			cmp.Compare(a.typ, b.typ),
			cmp.Compare(a.disease, b.disease),
		)
	})

	res := make([]dataset.Record, 0, len(keys))
	for _, k := range keys {
		c := cells[k]
		r := dataset.NewRecord()
		r.CountryName = k.countryName
		r.Year = k.year
		r.HasYear = true
		r.Type = k.typ
		r.Disease = k.disease
		if c.count > 0 {
			r.Value = c.sum / float64(c.count)
		}
		p := places[k.countryName]
		r.Region = p.region
		r.Continent = p.continent
		res = append(res, r)
	}
	return res
}

// FlagAnomalies sorts by (country name, disease, type, year) and sets the year over year change
// within each series. Changes above the threshold are flagged as spikes and below its negation
// as drops.
func FlagAnomalies(records []dataset.Record, opt *Options) ([]dataset.Record, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}

	res := slices.Clone(records)
	slices.SortStableFunc(res, func(a, b dataset.Record) int {
		return cmp.Or(
			cmp.Compare(a.CountryName, b.CountryName),
			cmp.Compare(a.Disease, b.Disease),
			cmp.Compare(a.Type, b.Type),
			cmp.Compare(a.Year, b.Year),
		)
	})

	for i := range res {
		res[i].ChangePct = math.NaN()
		res[i].Anomaly = ""
		if i == 0 || !sameSeries(res[i-1], res[i]) {
			continue
		}
		change := stats.PctChange(res[i-1].Value, res[i].Value)
		res[i].ChangePct = change
		switch {
		case change > opt.AnomalyThreshold:
			res[i].Anomaly = AnomalySpike
		case change < -opt.AnomalyThreshold:
			res[i].Anomaly = AnomalyDrop
		}
	}
	return res, nil
}

func sameSeries(a, b dataset.Record) bool {
	return a.CountryName == b.CountryName && a.Disease == b.Disease && a.Type == b.Type
}
