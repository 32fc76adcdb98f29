package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// CountryCode is one entry of the country code reference table
type CountryCode struct {
	Code3     string
	Name      string
	Continent string
}

// ReadCountryCodes parses the country code reference table with code_3, country and continent
// columns. Rows with the wrong number of fields are skipped.
func ReadCountryCodes(r io.Reader) (map[string]CountryCode, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header, %w", err)
	}

	pos := map[string]int{"code_3": -1, "country": -1, "continent": -1}
	for i, col := range header {
		col = strings.TrimSpace(col)
		if _, ok := pos[col]; ok {
			pos[col] = i
		}
	}
	if pos["code_3"] < 0 || pos["country"] < 0 {
		return nil, fmt.Errorf("country codes need code_3 and country, %w", ErrMissingColumn)
	}

	codes := make(map[string]CountryCode)
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv row, %w", err)
		}
		if len(row) != len(header) {
			continue
		}
		cc := CountryCode{
			Code3: strings.TrimSpace(row[pos["code_3"]]),
			Name:  row[pos["country"]],
		}
		if pos["continent"] >= 0 {
			cc.Continent = row[pos["continent"]]
		}
		if cc.Code3 == "" {
			continue
		}
		if _, ok := codes[cc.Code3]; !ok {
			codes[cc.Code3] = cc
		}
	}
	return codes, nil
}
