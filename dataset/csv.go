package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// ReadCSV parses an observation table, locating columns by header name. Columns not present are
// left empty unless listed in required. A disease_code column is read as the disease name when no
// disease_name column exists.
func ReadCSV(r io.Reader, required ...string) ([]Record, error) {
	return readCSV(r, nil, required)
}

// readCSV parses a table whose header names are first translated through aliases
func readCSV(r io.Reader, aliases map[string]string, required []string) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header, %w", err)
	}

	idx, err := indexHeader(header, aliases, required)
	if err != nil {
		return nil, err
	}

	var records []Record
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv row %d, %w", line, err)
		}
		records = append(records, idx.record(row))
	}
	return records, nil
}

// WriteCSV writes records with the given column layout
func WriteCSV(w io.Writer, records []Record, columns []string) error {
	for _, col := range columns {
		if _, ok := fieldGetters[col]; !ok {
			return fmt.Errorf("column %q, %w", col, ErrUnknownColumn)
		}
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(columns); err != nil {
		return fmt.Errorf("failed to write csv header, %w", err)
	}
	row := make([]string, len(columns))
	for _, rec := range records {
		for i, col := range columns {
			row[i] = fieldGetters[col](rec)
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row, %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// Values formats the cells of the record in column order
func (r Record) Values(columns []string) ([]string, error) {
	row := make([]string, len(columns))
	for i, col := range columns {
		get, ok := fieldGetters[col]
		if !ok {
			return nil, fmt.Errorf("column %q, %w", col, ErrUnknownColumn)
		}
		row[i] = get(r)
	}
	return row, nil
}

// WriteForecastCSV writes the forecast output table
func WriteForecastCSV(w io.Writer, rows []ForecastRow) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(ForecastColumns); err != nil {
		return fmt.Errorf("failed to write csv header, %w", err)
	}
	for _, r := range rows {
		rec := []string{r.Country, r.Disease, strconv.Itoa(r.Year), formatFloat(r.Forecast), r.Model}
		if err := writer.Write(rec); err != nil {
			return fmt.Errorf("failed to write csv row, %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// ReadForecastCSV parses a forecast output table
func ReadForecastCSV(r io.Reader) ([]ForecastRow, error) {
	reader := csv.NewReader(r)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv, %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNoHeader
	}

	pos := make(map[string]int)
	for i, col := range rows[0] {
		pos[strings.TrimSpace(col)] = i
	}
	for _, col := range ForecastColumns {
		if _, ok := pos[col]; !ok {
			return nil, fmt.Errorf("column %q, %w", col, ErrMissingColumn)
		}
	}

	res := make([]ForecastRow, 0, len(rows)-1)
	for i, row := range rows[1:] {
		year, err := strconv.Atoi(row[pos["year"]])
		if err != nil {
			return nil, fmt.Errorf("invalid year on row %d, %w", i+2, err)
		}
		val, err := strconv.ParseFloat(row[pos["forecast"]], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid forecast on row %d, %w", i+2, err)
		}
		res = append(res, ForecastRow{
			Country:  row[pos["country"]],
			Disease:  row[pos["disease"]],
			Year:     year,
			Forecast: val,
			Model:    row[pos["model"]],
		})
	}
	return res, nil
}

// headerIndex maps record fields to row positions, -1 when the column is absent
type headerIndex map[string]int

func indexHeader(header []string, aliases map[string]string, required []string) (headerIndex, error) {
	idx := make(headerIndex, len(fieldSetters))
	for col := range fieldSetters {
		idx[col] = -1
	}
	for i, col := range header {
		col = strings.TrimSpace(strings.TrimPrefix(col, "\ufeff"))
		if alias, ok := aliases[col]; ok {
			col = alias
		}
		if _, ok := fieldSetters[col]; ok {
			idx[col] = i
		}
	}
	if idx[ColDisease] < 0 {
		idx[ColDisease] = idx[ColDiseaseCode]
	}
	delete(idx, ColDiseaseCode)

	for _, col := range required {
		if col == ColDiseaseCode {
			col = ColDisease
		}
		if pos, ok := idx[col]; !ok || pos < 0 {
			return nil, fmt.Errorf("column %q, %w", col, ErrMissingColumn)
		}
	}
	return idx, nil
}

func (h headerIndex) record(row []string) Record {
	rec := NewRecord()
	for col, pos := range h {
		if pos < 0 || pos >= len(row) {
			continue
		}
		fieldSetters[col](&rec, row[pos])
	}
	return rec
}

var fieldSetters = map[string]func(*Record, string){
	ColIndicator:   func(r *Record, v string) { r.Indicator = v },
	ColCountry:     func(r *Record, v string) { r.Country = v },
	ColCountryName: func(r *Record, v string) { r.CountryName = v },
	ColRegion:      func(r *Record, v string) { r.Region = v },
	ColContinent:   func(r *Record, v string) { r.Continent = v },
	ColType:        func(r *Record, v string) { r.Type = v },
	ColDisease:     func(r *Record, v string) { r.Disease = v },
	ColDiseaseCode: func(r *Record, v string) { r.Disease = v },
	ColYear:        func(r *Record, v string) { r.Year, r.HasYear = parseYear(v) },
	ColValue:       func(r *Record, v string) { r.Value = parseFloat(v) },
	ColChangePct:   func(r *Record, v string) { r.ChangePct = parseFloat(v) },
	ColAnomaly:     func(r *Record, v string) { r.Anomaly = v },
}

var fieldGetters = map[string]func(Record) string{
	ColIndicator:   func(r Record) string { return r.Indicator },
	ColCountry:     func(r Record) string { return r.Country },
	ColCountryName: func(r Record) string { return r.CountryName },
	ColRegion:      func(r Record) string { return r.Region },
	ColContinent:   func(r Record) string { return r.Continent },
	ColType:        func(r Record) string { return r.Type },
	ColDisease:     func(r Record) string { return r.Disease },
	ColDiseaseCode: func(r Record) string { return r.Disease },
	ColYear: func(r Record) string {
		if !r.HasYear {
			return ""
		}
		return strconv.Itoa(r.Year)
	},
	ColValue:     func(r Record) string { return formatFloat(r.Value) },
	ColChangePct: func(r Record) string { return formatFloat(r.ChangePct) },
	ColAnomaly:   func(r Record) string { return r.Anomaly },
}

// parseYear accepts integer years and integral floats such as 2019.0
func parseYear(v string) (int, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, false
	}
	if year, err := strconv.Atoi(v); err == nil {
		return year, true
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(f), true
}

// parseFloat coerces unparseable cells to NaN
func parseFloat(v string) float64 {
	v = strings.TrimSpace(v)
	if v == "" {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
