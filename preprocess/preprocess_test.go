package preprocess

import (
	"math"
	"testing"

	"github.com/aouyang1/go-healthforecast/dataset"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(indicator, country, disease string, year int, value float64) dataset.Record {
	r := dataset.NewRecord()
	r.Indicator = indicator
	r.Country = country
	r.Disease = disease
	r.Year = year
	r.HasYear = true
	r.Value = value
	return r
}

func TestOptionsValidate(t *testing.T) {
	testData := map[string]struct {
		opt *Options
		err error
	}{
		"nil":             {nil, nil},
		"negative factor": {&Options{OutlierFactor: -1, AnomalyThreshold: 0.8}, ErrInvalidOutlierFactor},
		"zero threshold":  {&Options{OutlierFactor: 1.5}, ErrInvalidThreshold},
		"valid":           {&Options{OutlierFactor: 3, AnomalyThreshold: 0.5}, nil},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			opt, err := td.opt.Validate()
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.NotNil(t, opt)
		})
	}
}

func TestCombine(t *testing.T) {
	vacc := []dataset.Record{rec("MCV1", "FRA", "MCV1", 2020, 90), rec("MCV1", "FRA", "MCV1", 2021, math.NaN())}
	disease := []dataset.Record{rec("MEASLES", "FRA", "MEASLES", 2020, 12)}

	res := Combine(vacc, disease)
	require.Len(t, res, 2)
	assert.Equal(t, dataset.TypeVaccination, res[0].Type)
	assert.Equal(t, dataset.TypeDisease, res[1].Type)
}

func TestEnrichCountries(t *testing.T) {
	codes := map[string]dataset.CountryCode{
		"FRA": {Code3: "FRA", Name: "france", Continent: "europe"},
		"HKG": {Code3: "HKG", Name: "hong kong", Continent: "asia"},
	}
	in := []dataset.Record{
		rec("MEASLES", "FRA", "MEASLES", 2020, 12),
		rec("MEASLES", "GLOBAL", "MEASLES", 2020, 1200),
		rec("MEASLES", "WB_LMI", "MEASLES", 2020, 300),
		rec("MEASLES", "HKG", "MEASLES", 2020, 4),
		rec("MEASLES", "ZZZ", " measles ", 2020, 5),
	}
	in[0].Type = "disease"
	in[0].Region = "europe"

	res, err := EnrichCountries(in, codes, nil)
	require.Nil(t, err)
	require.Len(t, res, 3)

	assert.Equal(t, "MEASLES", res[0].Indicator)
	assert.Equal(t, "Fra", res[0].Country)
	assert.Equal(t, "France", res[0].CountryName)
	assert.Equal(t, "Europe", res[0].Continent)
	assert.Equal(t, "Europe", res[0].Region)
	assert.Equal(t, "Disease", res[0].Type)
	assert.Equal(t, "Measles", res[0].Disease)

	assert.Equal(t, "South-East Asia", res[1].Region)
	assert.Equal(t, "Hong Kong", res[1].CountryName)

	assert.Equal(t, "", res[2].CountryName)
	assert.Equal(t, "Measles", res[2].Disease)
}

func TestTitleCase(t *testing.T) {
	testData := map[string]struct {
		in       string
		expected string
	}{
		"upper":      {"USA", "Usa"},
		"words":      {"united states of AMERICA", "United States Of America"},
		"digits":     {"mcv1_dose", "Mcv1_Dose"},
		"hyphen":     {"south-east asia", "South-East Asia"},
		"whitespace": {"  polio ", "Polio"},
		"empty":      {"", ""},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, td.expected, TitleCase(td.in))
		})
	}
}

func TestTrimOutliers(t *testing.T) {
	in := []dataset.Record{
		rec("A", "FRA", "A", 2018, 1),
		rec("B", "FRA", "B", 2018, 10),
		rec("A", "FRA", "A", 2019, 2),
		rec("A", "FRA", "A", 2020, 3),
		rec("A", "FRA", "A", 2021, 4),
		rec("A", "FRA", "A", 2022, 100),
	}

	cleaned, summary, err := TrimOutliers(in, nil)
	require.Nil(t, err)
	require.Len(t, cleaned, 5)
	assert.Equal(t, "A", cleaned[0].Indicator)
	assert.Equal(t, "B", cleaned[4].Indicator)

	assert.Equal(t, IndicatorSummary{
		InitialRecords:  5,
		CleanedRecords:  4,
		RemovedOutliers: 1,
		LowerBound:      -1,
		UpperBound:      7,
	}, summary["A"])
	assert.Equal(t, 1, summary["B"].CleanedRecords)

	out, err := summary.JSON()
	require.Nil(t, err)
	var decoded map[string]map[string]float64
	require.Nil(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, 7.0, decoded["A"]["upper_bound"])
	assert.Equal(t, 1.0, decoded["A"]["removed_outliers"])
}

func TestAggregate(t *testing.T) {
	mk := func(name string, year int, value float64) dataset.Record {
		r := rec("X", "", "Measles", year, value)
		r.CountryName = name
		r.Type = "Disease"
		r.Region = "Europe"
		r.Continent = "Europe"
		return r
	}
	noYear := mk("France", 0, 5)
	noYear.HasYear = false

	res := Aggregate([]dataset.Record{
		mk("Spain", 2020, 4),
		mk("France", 2021, 10),
		mk("France", 2020, 2),
		mk("France", 2020, 4),
		noYear,
	})
	require.Len(t, res, 3)
	assert.Equal(t, "France", res[0].CountryName)
	assert.Equal(t, 2020, res[0].Year)
	assert.Equal(t, 3.0, res[0].Value)
	assert.Equal(t, "Europe", res[0].Region)
	assert.Equal(t, 2021, res[1].Year)
	assert.Equal(t, "Spain", res[2].CountryName)
}

func TestFlagAnomalies(t *testing.T) {
	mk := func(year int, value float64) dataset.Record {
		r := rec("X", "", "Measles", year, value)
		r.CountryName = "France"
		r.Type = "Disease"
		return r
	}
	in := []dataset.Record{mk(2021, 190), mk(2020, 100), mk(2022, 20), mk(2023, 30)}
	other := mk(2019, 1)
	other.CountryName = "Albania"
	in = append(in, other)

	res, err := FlagAnomalies(in, nil)
	require.Nil(t, err)
	require.Len(t, res, 5)

	assert.Equal(t, "Albania", res[0].CountryName)
	assert.True(t, math.IsNaN(res[0].ChangePct))
	assert.True(t, math.IsNaN(res[1].ChangePct), "first year of a series has no change")

	assert.InDelta(t, 0.9, res[2].ChangePct, 1e-12)
	assert.Equal(t, AnomalySpike, res[2].Anomaly)
	assert.InDelta(t, -0.894736, res[3].ChangePct, 1e-6)
	assert.Equal(t, AnomalyDrop, res[3].Anomaly)
	assert.InDelta(t, 0.5, res[4].ChangePct, 1e-12)
	assert.Equal(t, "", res[4].Anomaly)

	assert.Equal(t, 2021, in[0].Year, "input is not reordered")
}
