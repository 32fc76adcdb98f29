// Package dataset reads and writes the long format observation tables exchanged between pipeline
// stages, and the forecast output table
package dataset

import (
	"errors"
	"math"
)

// Column names of the observation tables
const (
	ColIndicator   = "indicator"
	ColCountry     = "country"
	ColCountryName = "country_name"
	ColRegion      = "region"
	ColContinent   = "continent"
	ColType        = "type"
	ColDisease     = "disease_name"
	ColDiseaseCode = "disease_code"
	ColYear        = "year"
	ColValue       = "value"
	ColChangePct   = "change_pct"
	ColAnomaly     = "anomaly"
)

// Record types assigned when vaccination and disease tables are combined
const (
	TypeVaccination = "vaccination"
	TypeDisease     = "disease"
)

var (
	ErrMissingColumn = errors.New("missing required column")
	ErrNoHeader      = errors.New("no header row")
	ErrUnknownColumn = errors.New("unknown column")
)

// ProcessedColumns is the layout of the per category processed tables
var ProcessedColumns = []string{ColIndicator, ColCountry, ColRegion, ColYear, ColValue, ColDiseaseCode}

// CleanedColumns is the layout of the cleaned table the forecast engine reads
var CleanedColumns = []string{
	ColIndicator, ColCountry, ColRegion, ColYear, ColValue, ColDisease, ColType, ColCountryName, ColContinent,
}

// AggregatedColumns is the layout of the aggregated table with anomaly flags
var AggregatedColumns = []string{
	ColCountryName, ColYear, ColType, ColDisease, ColValue, ColRegion, ColContinent, ColChangePct, ColAnomaly,
}

// Record is one row of an observation table. Missing numeric cells hold NaN and a missing year
// leaves HasYear false.
type Record struct {
	Indicator   string
	Country     string
	CountryName string
	Region      string
	Continent   string
	Type        string
	Disease     string
	Year        int
	HasYear     bool
	Value       float64
	ChangePct   float64
	Anomaly     string
}

// NewRecord returns a record with missing numeric cells
func NewRecord() Record {
	return Record{
		Value:     math.NaN(),
		ChangePct: math.NaN(),
	}
}

// HasValue reports whether the value cell holds a finite number
func (r Record) HasValue() bool {
	return !math.IsNaN(r.Value) && !math.IsInf(r.Value, 0)
}

// ForecastRow is one forecast year of one series in the output table
type ForecastRow struct {
	Country  string  `json:"country"`
	Disease  string  `json:"disease"`
	Year     int     `json:"year"`
	Forecast float64 `json:"forecast"`
	Model    string  `json:"model"`
}

// ForecastColumns is the layout of the forecast output table
var ForecastColumns = []string{"country", "disease", "year", "forecast", "model"}
