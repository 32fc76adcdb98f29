package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/aouyang1/go-healthforecast/dataset"
	"github.com/aouyang1/go-healthforecast/preprocess"
	"github.com/aouyang1/go-healthforecast/storage"
)

var aggregateColumns = []string{dataset.ColCountryName, dataset.ColType, dataset.ColDisease, dataset.ColYear, dataset.ColValue}

// Aggregate averages the newest cleaned table per country, year, type and disease, flags year over
// year anomalies and writes the result stamped with today's date
func (p *Pipeline) Aggregate(ctx context.Context) (m *Manifest, err error) {
	start := time.Now()
	m = p.newManifest(StageAggregate)
	defer func() { p.observe(m, start, err) }()

	key, err := p.latest(ctx, CleanedPrefix, CleanedName)
	if err != nil {
		return m, err
	}
	m.Inputs = []string{key}

	records, err := p.readRecords(ctx, key, aggregateColumns...)
	if err != nil {
		return m, err
	}
	flagged, err := preprocess.FlagAnomalies(preprocess.Aggregate(records), p.opt.Preprocess)
	if err != nil {
		return m, err
	}

	outKey := storage.DatedKey(AggregatedPrefix, AggregatedName, "csv", p.now())
	if err := p.writeRecords(ctx, outKey, flagged, dataset.AggregatedColumns); err != nil {
		return m, fmt.Errorf("unable to write %s, %w", outKey, err)
	}

	m.Outputs = []string{outKey}
	m.Records = len(flagged)
	m.Finished = p.now().UTC()
	return m, nil
}
