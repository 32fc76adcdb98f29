package preprocess

import (
	"log/slog"
	"slices"
	"strings"
	"unicode"

	"github.com/aouyang1/go-healthforecast/dataset"
)

// Combine tags each table with its record type and concatenates them, vaccination first. Records
// without a value are dropped.
func Combine(vaccination, disease []dataset.Record) []dataset.Record {
	combined := make([]dataset.Record, 0, len(vaccination)+len(disease))
	for _, tagged := range []struct {
		typ     string
		records []dataset.Record
	}{
		{dataset.TypeVaccination, vaccination},
		{dataset.TypeDisease, disease},
	} {
		for _, r := range tagged.records {
			if !r.HasValue() {
				continue
			}
			r.Type = tagged.typ
			combined = append(combined, r)
		}
	}
	slog.Info("combined tables", "vaccination", len(vaccination), "disease", len(disease), "kept", len(combined))
	return combined
}

// EnrichCountries joins country names and continents by three letter code, drops aggregate
// codes, applies region overrides and normalizes every text column except the indicator
func EnrichCountries(records []dataset.Record, codes map[string]dataset.CountryCode, opt *Options) ([]dataset.Record, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}

	res := make([]dataset.Record, 0, len(records))
	var unmatched int
	for _, r := range records {
		if slices.Contains(opt.ExcludedCodes, r.Country) {
			continue
		}
		if cc, ok := codes[r.Country]; ok {
			r.CountryName = cc.Name
			r.Continent = cc.Continent
		} else {
			unmatched++
		}
		if region, ok := opt.RegionOverrides[r.Country]; ok {
			r.Region = region
		}
		res = append(res, normalize(r))
	}
	if unmatched > 0 {
		slog.Warn("records without a country code match", "count", unmatched)
	}
	return res, nil
}

func normalize(r dataset.Record) dataset.Record {
	r.Country = TitleCase(r.Country)
	r.CountryName = TitleCase(r.CountryName)
	r.Region = TitleCase(r.Region)
	r.Continent = TitleCase(r.Continent)
	r.Type = TitleCase(r.Type)
	r.Disease = TitleCase(r.Disease)
	r.Anomaly = TitleCase(r.Anomaly)
	return r
}

// TitleCase trims surrounding space, upper cases every letter that follows a non-letter and lower
// cases the rest, so "  MCV1_dose " becomes "Mcv1_Dose"
func TitleCase(s string) string {
	s = strings.TrimSpace(s)
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, c := range s {
		if unicode.IsLetter(c) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(c))
			} else {
				b.WriteRune(unicode.ToTitle(c))
			}
			prevLetter = true
			continue
		}
		b.WriteRune(c)
		prevLetter = false
	}
	return b.String()
}
