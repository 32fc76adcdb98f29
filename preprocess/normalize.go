package preprocess

import (
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/aouyang1/go-healthforecast/dataset"
)

// DiseaseCode returns the code a raw export is named by, the part of its file name before the
// first underscore
func DiseaseCode(key string) string {
	base := path.Base(key)
	base = strings.TrimSuffix(base, path.Ext(base))
	code, _, _ := strings.Cut(base, "_")
	return code
}

// Normalize tags raw export records with their disease code and drops the ones missing an
// indicator, country, year, value or code. A missing region is kept.
func Normalize(records []dataset.Record, diseaseCode string) []dataset.Record {
	res := make([]dataset.Record, 0, len(records))
	for _, r := range records {
		r.Disease = diseaseCode
		if r.Indicator == "" || r.Country == "" || r.Disease == "" || !r.HasYear || !r.HasValue() {
			continue
		}
		res = append(res, r)
	}
	if dropped := len(records) - len(res); dropped > 0 {
		slog.Debug("dropped incomplete raw records", "disease_code", diseaseCode, "dropped", dropped, "kept", len(res))
	}
	return res
}

// AppendUnique appends records to master and drops every repeat of a row already seen, comparing
// the formatted cells of columns. The first occurrence keeps its position.
func AppendUnique(master, records []dataset.Record, columns []string) ([]dataset.Record, error) {
	seen := make(map[string]bool, len(master)+len(records))
	res := make([]dataset.Record, 0, len(master)+len(records))
	for _, table := range [][]dataset.Record{master, records} {
		for _, r := range table {
			cells, err := r.Values(columns)
			if err != nil {
				return nil, fmt.Errorf("unable to compare records, %w", err)
			}
			key := strings.Join(cells, "\x00")
			if seen[key] {
				continue
			}
			seen[key] = true
			res = append(res, r)
		}
	}
	return res, nil
}
