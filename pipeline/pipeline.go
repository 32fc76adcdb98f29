// Package pipeline runs the normalization, cleaning, aggregation and forecast stages against an
// object store. Every stage reads its inputs under a fixed prefix and writes dated outputs.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	healthforecast "github.com/aouyang1/go-healthforecast"
	"github.com/aouyang1/go-healthforecast/dataset"
	"github.com/aouyang1/go-healthforecast/metrics"
	"github.com/aouyang1/go-healthforecast/preprocess"
	"github.com/aouyang1/go-healthforecast/storage"
)

// Object layout
const (
	VaccinationPrefix = "processed/vaccination"
	VaccinationName   = "processed_vaccination_"
	DiseasePrefix     = "processed/disease"
	DiseaseName       = "processed_disease_"
	CountryCodesKey   = "country_codes/country_codes.csv"

	CleanedPrefix = "processed/forecasting"
	CleanedName   = "cleaned_for_forecast_"
	OutlierPrefix = "logs/eda"
	OutlierName   = "outlier_summary_"

	AggregatedPrefix = "aggregated/forecasting"
	AggregatedName   = "grouped_combined_data_"

	ForecastPrefix = "processed/forecast"
	ForecastName   = "forecasted_data_"
	ManifestPrefix = "logs/forecast"
	ManifestName   = "run_"
)

// Stage names
const (
	StageNormalize = "normalize"
	StagePrepare   = "prepare"
	StageAggregate = "aggregate"
	StageForecast  = "forecast"
)

var (
	ErrInputNotFound = errors.New("pipeline input not found")
	ErrNoStore       = errors.New("no store provided")
)

// ForecastColumns are the cleaned table columns the forecast stage needs
var ForecastColumns = []string{dataset.ColType, dataset.ColCountry, dataset.ColDisease, dataset.ColYear, dataset.ColValue}

// Options configures the pipeline stages
type Options struct {
	Engine     *healthforecast.Options
	Preprocess *preprocess.Options

	// WriteXLSX adds a spreadsheet copy of the forecast table
	WriteXLSX bool
}

// NewDefaultOptions returns the default pipeline options
func NewDefaultOptions() *Options {
	return &Options{
		Engine:     healthforecast.NewDefaultOptions(),
		Preprocess: preprocess.NewDefaultOptions(),
	}
}

// Validate fills missing stage options with defaults and checks each of them
func (o *Options) Validate() (*Options, error) {
	if o == nil {
		return NewDefaultOptions(), nil
	}
	var err error
	if o.Engine, err = o.Engine.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine options, %w", err)
	}
	if o.Preprocess, err = o.Preprocess.Validate(); err != nil {
		return nil, fmt.Errorf("invalid preprocess options, %w", err)
	}
	return o, nil
}

// Pipeline runs stages against one store
type Pipeline struct {
	store   storage.Store
	engine  *healthforecast.Engine
	opt     *Options
	metrics *metrics.Metrics
	now     func() time.Time
}

// New creates a pipeline. m may be nil to skip metrics.
func New(store storage.Store, opt *Options, m *metrics.Metrics) (*Pipeline, error) {
	if store == nil {
		return nil, ErrNoStore
	}
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	engine, err := healthforecast.New(opt.Engine)
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		store:   store,
		engine:  engine,
		opt:     opt,
		metrics: m,
		now:     time.Now,
	}, nil
}

// SetClock replaces the clock stamping run times and output names
func (p *Pipeline) SetClock(now func() time.Time) {
	p.now = now
}

// Manifest records what a stage run read and wrote
type Manifest struct {
	RunID    string    `json:"run_id"`
	Stage    string    `json:"stage"`
	Inputs   []string  `json:"inputs"`
	Outputs  []string  `json:"outputs"`
	Records  int       `json:"records"`
	Started  time.Time `json:"started"`
	Finished time.Time `json:"finished"`

	Summary *healthforecast.Summary       `json:"summary,omitempty"`
	Reports []healthforecast.SeriesReport `json:"reports,omitempty"`
}

func (p *Pipeline) newManifest(stage string) *Manifest {
	return &Manifest{
		RunID:   uuid.NewString(),
		Stage:   stage,
		Started: p.now().UTC(),
	}
}

// observe logs and records the outcome of a stage run
func (p *Pipeline) observe(m *Manifest, start time.Time, err error) {
	outcome := metrics.OutcomeSuccess
	switch {
	case errors.Is(err, ErrInputNotFound):
		outcome = metrics.OutcomeNoInput
		slog.Warn("stage input not found", "stage", m.Stage, "run_id", m.RunID, "error", err.Error())
	case err != nil:
		outcome = metrics.OutcomeFailure
		slog.Error("stage failed", "stage", m.Stage, "run_id", m.RunID, "error", err.Error())
	default:
		slog.Info("stage complete", "stage", m.Stage, "run_id", m.RunID, "records", m.Records, "outputs", m.Outputs)
	}
	p.metrics.ObserveRun(m.Stage, outcome, start)
}

func (p *Pipeline) latest(ctx context.Context, prefix, name string) (string, error) {
	key, err := storage.LatestDated(ctx, p.store, prefix, name, "csv")
	if errors.Is(err, storage.ErrNotFound) {
		return "", fmt.Errorf("%w, %w", ErrInputNotFound, err)
	}
	return key, err
}

func (p *Pipeline) get(ctx context.Context, key string) ([]byte, error) {
	data, err := p.store.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%s, %w, %w", key, ErrInputNotFound, err)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to read %s, %w", key, err)
	}
	return data, nil
}

func (p *Pipeline) readRecords(ctx context.Context, key string, required ...string) ([]dataset.Record, error) {
	data, err := p.get(ctx, key)
	if err != nil {
		return nil, err
	}
	records, err := dataset.ReadCSV(bytes.NewReader(data), required...)
	if err != nil {
		return nil, fmt.Errorf("unable to parse %s, %w", key, err)
	}
	return records, nil
}

func (p *Pipeline) writeRecords(ctx context.Context, key string, records []dataset.Record, columns []string) error {
	var buf bytes.Buffer
	if err := dataset.WriteCSV(&buf, records, columns); err != nil {
		return err
	}
	return p.store.Put(ctx, key, buf.Bytes())
}
