package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aouyang1/go-healthforecast/dataset"
	"github.com/aouyang1/go-healthforecast/preprocess"
	"github.com/aouyang1/go-healthforecast/storage"
)

// processedColumns are required in both processed tables
var processedColumns = []string{dataset.ColIndicator, dataset.ColCountry, dataset.ColYear, dataset.ColValue}

// Prepare combines the processed vaccination and disease tables stamped with date, joins country
// names, trims per indicator outliers and writes the cleaned table with its outlier summary
func (p *Pipeline) Prepare(ctx context.Context, date time.Time) (m *Manifest, err error) {
	start := time.Now()
	m = p.newManifest(StagePrepare)
	defer func() { p.observe(m, start, err) }()

	vaccKey := storage.DatedKey(VaccinationPrefix, VaccinationName, "csv", date)
	diseaseKey := storage.DatedKey(DiseasePrefix, DiseaseName, "csv", date)
	m.Inputs = []string{vaccKey, diseaseKey, CountryCodesKey}

	vaccination, err := p.readRecords(ctx, vaccKey, processedColumns...)
	if err != nil {
		return m, err
	}
	disease, err := p.readRecords(ctx, diseaseKey, processedColumns...)
	if err != nil {
		return m, err
	}
	codeData, err := p.get(ctx, CountryCodesKey)
	if err != nil {
		return m, err
	}
	codes, err := dataset.ReadCountryCodes(bytes.NewReader(codeData))
	if err != nil {
		return m, fmt.Errorf("unable to parse %s, %w", CountryCodesKey, err)
	}

	combined := preprocess.Combine(vaccination, disease)
	enriched, err := preprocess.EnrichCountries(combined, codes, p.opt.Preprocess)
	if err != nil {
		return m, err
	}
	cleaned, summary, err := preprocess.TrimOutliers(enriched, p.opt.Preprocess)
	if err != nil {
		return m, err
	}

	cleanedKey := storage.DatedKey(CleanedPrefix, CleanedName, "csv", date)
	if err := p.writeRecords(ctx, cleanedKey, cleaned, dataset.CleanedColumns); err != nil {
		return m, fmt.Errorf("unable to write %s, %w", cleanedKey, err)
	}
	summaryJSON, err := summary.JSON()
	if err != nil {
		return m, err
	}
	summaryKey := storage.DatedKey(OutlierPrefix, OutlierName, "json", date)
	if err := p.store.Put(ctx, summaryKey, summaryJSON); err != nil {
		return m, fmt.Errorf("unable to write %s, %w", summaryKey, err)
	}

	m.Outputs = []string{cleanedKey, summaryKey}
	m.Records = len(cleaned)
	m.Finished = p.now().UTC()
	return m, nil
}
