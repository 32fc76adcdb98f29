package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	healthforecast "github.com/aouyang1/go-healthforecast"
	"github.com/aouyang1/go-healthforecast/dataset"
	"github.com/aouyang1/go-healthforecast/storage"
)

// ForecastRun is the result of one forecast stage run
type ForecastRun struct {
	Manifest *Manifest
	Output   *healthforecast.Output
}

// Forecast runs the engine over the newest cleaned table and writes the forecast table, an
// optional spreadsheet copy and the run manifest stamped with today's date
func (p *Pipeline) Forecast(ctx context.Context) (run *ForecastRun, err error) {
	start := time.Now()
	m := p.newManifest(StageForecast)
	run = &ForecastRun{Manifest: m}
	defer func() { p.observe(m, start, err) }()

	out, err := p.evaluate(ctx, m)
	if err != nil {
		return run, err
	}
	run.Output = out

	now := p.now()
	var buf bytes.Buffer
	if err := dataset.WriteForecastCSV(&buf, out.Rows); err != nil {
		return run, err
	}
	csvKey := storage.DatedKey(ForecastPrefix, ForecastName, "csv", now)
	if err := p.store.Put(ctx, csvKey, buf.Bytes()); err != nil {
		return run, fmt.Errorf("unable to write %s, %w", csvKey, err)
	}
	m.Outputs = append(m.Outputs, csvKey)

	if p.opt.WriteXLSX {
		buf.Reset()
		if err := dataset.WriteForecastXLSX(&buf, out.Rows); err != nil {
			return run, err
		}
		xlsxKey := storage.DatedKey(ForecastPrefix, ForecastName, "xlsx", now)
		if err := p.store.Put(ctx, xlsxKey, buf.Bytes()); err != nil {
			return run, fmt.Errorf("unable to write %s, %w", xlsxKey, err)
		}
		m.Outputs = append(m.Outputs, xlsxKey)
	}

	summary := out.Summary()
	m.Summary = &summary
	m.Reports = out.Reports
	manifestKey := storage.DatedKey(ManifestPrefix, ManifestName, "json", now)
	m.Outputs = append(m.Outputs, manifestKey)
	m.Finished = p.now().UTC()

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return run, fmt.Errorf("unable to encode run manifest, %w", err)
	}
	if err := p.store.Put(ctx, manifestKey, data); err != nil {
		return run, fmt.Errorf("unable to write %s, %w", manifestKey, err)
	}

	p.observeForecast(summary)
	return run, nil
}

// Evaluate runs the engine over the newest cleaned table without writing anything
func (p *Pipeline) Evaluate(ctx context.Context) (*healthforecast.Output, error) {
	return p.evaluate(ctx, p.newManifest(StageForecast))
}

func (p *Pipeline) evaluate(ctx context.Context, m *Manifest) (*healthforecast.Output, error) {
	key, err := p.latest(ctx, CleanedPrefix, CleanedName)
	if err != nil {
		return nil, err
	}
	m.Inputs = []string{key}

	records, err := p.readRecords(ctx, key, ForecastColumns...)
	if err != nil {
		return nil, err
	}
	m.Records = len(records)

	out, err := p.engine.Forecast(records)
	if errors.Is(err, healthforecast.ErrEmptyInput) {
		return nil, fmt.Errorf("%s, %w, %w", key, ErrInputNotFound, err)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to forecast %s, %w", key, err)
	}
	return out, nil
}

func (p *Pipeline) observeForecast(s healthforecast.Summary) {
	statuses := map[string]int{
		string(healthforecast.StatusForecast):            s.Forecast,
		string(healthforecast.StatusInsufficientHistory): s.InsufficientHistory,
		string(healthforecast.StatusUnforecastable):      s.Unforecastable,
	}
	wins := make(map[string]int, len(s.Wins))
	for name, n := range s.Wins {
		wins[string(name)] = n
	}
	failures := make(map[string]int, len(s.FitterFailures))
	for name, n := range s.FitterFailures {
		failures[string(name)] = n
	}
	p.metrics.ObserveForecast(statuses, wins, failures, s.Rows)
}
