// Package healthforecast forecasts yearly disease series per country by racing several
// forecasting strategies on each series and keeping the one with the lowest fit error
package healthforecast

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"math"
	"slices"

	"github.com/aouyang1/go-healthforecast/dataset"
	"github.com/aouyang1/go-healthforecast/fitter"
	"github.com/aouyang1/go-healthforecast/timedataset"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"
)

var (
	ErrEmptyInput = errors.New("empty input table")
	ErrNoFitters  = errors.New("no fitters configured")
)

type selection struct {
	results []fitter.Result
	winner  fitter.Result
	ok      bool

	// the inputs the selection was made for, checked on every cache hit
	key     EntityKey
	years   []int
	y       []float64
	horizon int
}

// matches reports whether the selection was computed for exactly this series and horizon
func (s selection) matches(key EntityKey, series *timedataset.TimeDataset, horizon int) bool {
	return s.key == key &&
		s.horizon == horizon &&
		slices.Equal(s.years, series.Years) &&
		slices.Equal(s.y, series.Y)
}

// Engine extracts series from an observation table, fits every strategy to each series and
// assembles the winning forecasts
type Engine struct {
	opt     *Options
	fitters []fitter.Fitter
	cache   *lru.Cache[uint64, selection]
}

// New creates an engine with the built in strategies. If no options are provided a default is used.
func New(opt *Options) (*Engine, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	fitters, err := fitter.New(opt.FitterOptions)
	if err != nil {
		return nil, fmt.Errorf("unable to initialize fitters, %w", err)
	}
	return NewWithFitters(opt, fitters...)
}

// NewWithFitters creates an engine racing the given strategies instead of the built in ones
func NewWithFitters(opt *Options, fitters ...fitter.Fitter) (*Engine, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	if len(fitters) == 0 {
		return nil, ErrNoFitters
	}
	seen := make(map[fitter.Name]bool, len(fitters))
	for _, f := range fitters {
		if seen[f.Name()] {
			return nil, fmt.Errorf("%s, %w", f.Name(), fitter.ErrDuplicateModel)
		}
		seen[f.Name()] = true
	}

	e := &Engine{
		opt:     opt,
		fitters: fitters,
	}
	if opt.CacheSize > 0 {
		cache, err := lru.New[uint64, selection](opt.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("unable to initialize series cache, %w", err)
		}
		e.cache = cache
	}
	return e, nil
}

// Forecast runs every series of the disease type through the fitters. Series that are too short
// or that no strategy could fit are reported without rows. Only an empty table fails the run.
func (e *Engine) Forecast(records []dataset.Record) (*Output, error) {
	if len(records) == 0 {
		return nil, ErrEmptyInput
	}

	candidates := extract(records, e.opt.DiseaseType)
	out := &Output{
		Reports: make([]SeriesReport, 0, len(candidates)),
	}
	for _, c := range candidates {
		report, rows := e.forecastSeries(c)
		out.Reports = append(out.Reports, report)
		out.Rows = append(out.Rows, rows...)
	}

	s := out.Summary()
	slog.Info("forecast run complete",
		"series", s.Series,
		"forecast", s.Forecast,
		"insufficient_history", s.InsufficientHistory,
		"unforecastable", s.Unforecastable,
		"rows", s.Rows,
	)
	return out, nil
}

func (e *Engine) forecastSeries(c candidate) (SeriesReport, []ForecastRow) {
	report := SeriesReport{
		Key:          c.key,
		Observations: len(c.years),
	}
	if len(c.years) < e.opt.MinObservations {
		report.Status = StatusInsufficientHistory
		report.Reason = fmt.Sprintf("%d of %d required observations", len(c.years), e.opt.MinObservations)
		slog.Debug("skipping short series", "country", c.key.Country, "disease", c.key.Disease, "observations", len(c.years))
		return report, nil
	}

	series, err := c.series()
	if err != nil {
		report.Status = StatusUnforecastable
		report.Reason = err.Error()
		slog.Warn("series unforecastable", "country", c.key.Country, "disease", c.key.Disease, "error", err.Error())
		return report, nil
	}
	report.History = series
	report.Gaps = timedataset.YearSlice(series.Years).Gaps()

	horizon, err := series.Horizon(e.opt.Horizon)
	if err != nil {
		report.Status = StatusUnforecastable
		report.Reason = err.Error()
		return report, nil
	}

	sel, cached := e.selectFor(c.key, series, horizon)
	report.Cached = cached
	report.Results = sel.results
	report.Scores = make(map[fitter.Name]float64)
	for _, r := range sel.results {
		if r.Valid() {
			report.Scores[r.Model] = r.MAPE
			if r.Scores != nil {
				if report.Diagnostics == nil {
					report.Diagnostics = make(map[fitter.Name]fitter.Scores)
				}
				report.Diagnostics[r.Model] = *r.Scores
			}
			continue
		}
		if report.Failures == nil {
			report.Failures = make(map[fitter.Name]string)
		}
		report.Failures[r.Model] = r.Err.Error()
		slog.Debug("fitter failed", "country", c.key.Country, "disease", c.key.Disease, "model", string(r.Model), "error", r.Err.Error())
	}

	if !sel.ok {
		report.Status = StatusUnforecastable
		report.Reason = "no fitter produced a valid score"
		slog.Warn("series unforecastable", "country", c.key.Country, "disease", c.key.Disease, "reason", report.Reason)
		return report, nil
	}

	report.Status = StatusForecast
	report.Winner = sel.winner.Model
	return report, assemble(c.key, sel.winner)
}

// selectFor fits every strategy on the series, reusing a memoized selection when the same series
// was seen before
func (e *Engine) selectFor(key EntityKey, series *timedataset.TimeDataset, horizon []int) (selection, bool) {
	var fp uint64
	if e.cache != nil {
		fp = fingerprint(key, series, len(horizon))
		if sel, ok := e.cache.Get(fp); ok {
			if sel.matches(key, series, len(horizon)) {
				return sel, true
			}
			slog.Warn("series fingerprint collision", "country", key.Country, "disease", key.Disease, "cached_country", sel.key.Country, "cached_disease", sel.key.Disease)
		}
	}

	results := e.fitAll(series, horizon)
	winner, ok := fitter.Select(results)
	sel := selection{
		results: results,
		winner:  winner,
		ok:      ok,
		key:     key,
		years:   slices.Clone(series.Years),
		y:       slices.Clone(series.Y),
		horizon: len(horizon),
	}

	if e.cache != nil {
		e.cache.Add(fp, sel)
	}
	return sel, false
}

// fitAll runs the fitters with at most Parallelization in flight. Each fitter fills its own slot
// so results keep fitter order.
func (e *Engine) fitAll(series *timedataset.TimeDataset, horizon []int) []fitter.Result {
	results := make([]fitter.Result, len(e.fitters))

	var g errgroup.Group
	g.SetLimit(e.opt.Parallelization)
	for i, f := range e.fitters {
		g.Go(func() error {
			results[i] = fitter.Run(f, series, horizon)
			return nil
		})
	}
	// fitter.Run reports failures through the result, never through the group
	_ = g.Wait()
	return results
}

func fingerprint(key EntityKey, series *timedataset.TimeDataset, horizon int) uint64 {
	h := fnv.New64a()
	h.Write([]byte(key.Country))
	h.Write([]byte{0})
	h.Write([]byte(key.Disease))
	h.Write([]byte{0})

	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(horizon))
	h.Write(buf[:])
	for i, year := range series.Years {
		binary.LittleEndian.PutUint64(buf[:], uint64(year))
		h.Write(buf[:])
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(series.Y[i]))
		h.Write(buf[:])
	}
	return h.Sum64()
}
