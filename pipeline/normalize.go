package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/aouyang1/go-healthforecast/dataset"
	"github.com/aouyang1/go-healthforecast/preprocess"
	"github.com/aouyang1/go-healthforecast/storage"
)

// Raw export categories
const (
	CategoryVaccination = dataset.TypeVaccination
	CategoryDisease     = dataset.TypeDisease
)

// Categories lists the raw export categories in processing order
var Categories = []string{CategoryVaccination, CategoryDisease}

var ErrUnknownCategory = errors.New("unknown category")

// RawPrefix returns the prefix of the raw exports of a category
func RawPrefix(category string) string {
	return path.Join("raw", category) + "/"
}

// ProcessedKey returns the dated processed table of a category
func ProcessedKey(category string, t time.Time) string {
	return storage.DatedKey(path.Join("processed", category), "processed_"+category+"_", "csv", t)
}

// MasterKey returns the running table of every processed record of a category
func MasterKey(category string) string {
	return path.Join("aggregated", category, "master_"+category+".csv")
}

// Normalize reads every raw export of category, renames its columns to the processed layout, tags
// the records with the disease code from each file name and drops incomplete records. It writes
// the dated processed table and merges the records into the category master table without
// duplicates.
func (p *Pipeline) Normalize(ctx context.Context, category string) (m *Manifest, err error) {
	start := time.Now()
	m = p.newManifest(StageNormalize)
	defer func() { p.observe(m, start, err) }()

	if !slices.Contains(Categories, category) {
		return m, fmt.Errorf("%q, %w", category, ErrUnknownCategory)
	}

	prefix := RawPrefix(category)
	keys, err := p.store.List(ctx, prefix)
	if err != nil {
		return m, fmt.Errorf("unable to list %s, %w", prefix, err)
	}

	var processed []dataset.Record
	for _, key := range keys {
		if !strings.HasSuffix(key, ".csv") {
			continue
		}
		data, err := p.get(ctx, key)
		if err != nil {
			return m, err
		}
		raw, err := dataset.ReadRawCSV(bytes.NewReader(data))
		if err != nil {
			return m, fmt.Errorf("unable to parse %s, %w", key, err)
		}
		m.Inputs = append(m.Inputs, key)
		processed = append(processed, preprocess.Normalize(raw, preprocess.DiseaseCode(key))...)
	}
	if len(m.Inputs) == 0 {
		return m, fmt.Errorf("no csv exports under %s, %w", prefix, ErrInputNotFound)
	}

	processedKey := ProcessedKey(category, p.now())
	if err := p.writeRecords(ctx, processedKey, processed, dataset.ProcessedColumns); err != nil {
		return m, fmt.Errorf("unable to write %s, %w", processedKey, err)
	}

	masterKey := MasterKey(category)
	master, err := p.readRecords(ctx, masterKey)
	if err != nil && !errors.Is(err, ErrInputNotFound) {
		return m, err
	}
	merged, err := preprocess.AppendUnique(master, processed, dataset.ProcessedColumns)
	if err != nil {
		return m, err
	}
	if err := p.writeRecords(ctx, masterKey, merged, dataset.ProcessedColumns); err != nil {
		return m, fmt.Errorf("unable to write %s, %w", masterKey, err)
	}

	m.Outputs = []string{processedKey, masterKey}
	m.Records = len(processed)
	m.Finished = p.now().UTC()
	return m, nil
}

// NormalizeAll normalizes every category in order. Categories without raw exports are skipped and
// ErrInputNotFound is returned only when no category had any.
func (p *Pipeline) NormalizeAll(ctx context.Context) ([]*Manifest, error) {
	var (
		manifests []*Manifest
		missing   error
	)
	for _, category := range Categories {
		m, err := p.Normalize(ctx, category)
		if errors.Is(err, ErrInputNotFound) {
			missing = errors.Join(missing, err)
			continue
		}
		if err != nil {
			return manifests, err
		}
		manifests = append(manifests, m)
	}
	if len(manifests) == 0 {
		return nil, missing
	}
	return manifests, nil
}
