package healthforecast

import (
	"github.com/aouyang1/go-healthforecast/dataset"
	"github.com/aouyang1/go-healthforecast/fitter"
	"github.com/aouyang1/go-healthforecast/timedataset"
)

// ForecastRow is one forecast year of one series in the output table
type ForecastRow = dataset.ForecastRow

// Status is the outcome of one series in a run
type Status string

const (
	StatusForecast            Status = "forecast"
	StatusInsufficientHistory Status = "insufficient_history"
	StatusUnforecastable      Status = "unforecastable"
)

// SeriesReport describes how one series was handled
type SeriesReport struct {
	Key          EntityKey                     `json:"key"`
	Status       Status                        `json:"status"`
	Reason       string                        `json:"reason,omitempty"`
	Observations int                           `json:"observations"`
	Gaps         []int                         `json:"gaps,omitempty"`
	Winner       fitter.Name                   `json:"winner,omitempty"`
	Scores       map[fitter.Name]float64       `json:"scores,omitempty"`
	Diagnostics  map[fitter.Name]fitter.Scores `json:"diagnostics,omitempty"`
	Failures     map[fitter.Name]string        `json:"failures,omitempty"`
	Cached       bool                          `json:"cached,omitempty"`

	History *timedataset.TimeDataset `json:"-"`
	Results []fitter.Result          `json:"-"`
}

// Output is the result of one engine run. Rows hold every forecast series in key order and
// Reports hold one entry per extracted series, including the ones without rows.
type Output struct {
	Rows    []ForecastRow  `json:"rows"`
	Reports []SeriesReport `json:"reports"`
}

// Summary counts series outcomes and winning models
type Summary struct {
	Series              int                 `json:"series"`
	Forecast            int                 `json:"forecast"`
	InsufficientHistory int                 `json:"insufficient_history"`
	Unforecastable      int                 `json:"unforecastable"`
	Rows                int                 `json:"rows"`
	Wins                map[fitter.Name]int `json:"wins"`
	FitterFailures      map[fitter.Name]int `json:"fitter_failures"`
}

// Summary tallies the run
func (o *Output) Summary() Summary {
	s := Summary{
		Series:         len(o.Reports),
		Rows:           len(o.Rows),
		Wins:           make(map[fitter.Name]int),
		FitterFailures: make(map[fitter.Name]int),
	}
	for _, r := range o.Reports {
		switch r.Status {
		case StatusForecast:
			s.Forecast++
			s.Wins[r.Winner]++
		case StatusInsufficientHistory:
			s.InsufficientHistory++
		case StatusUnforecastable:
			s.Unforecastable++
		}
		for name := range r.Failures {
			s.FitterFailures[name]++
		}
	}
	return s
}

// Report returns the report for key
func (o *Output) Report(key EntityKey) (SeriesReport, bool) {
	for _, r := range o.Reports {
		if r.Key == key {
			return r, true
		}
	}
	return SeriesReport{}, false
}
