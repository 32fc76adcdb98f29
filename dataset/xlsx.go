package dataset

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ForecastSheet is the sheet name used for forecast workbooks
const ForecastSheet = "forecast"

// WriteForecastXLSX writes the forecast output table as a single sheet workbook
func WriteForecastXLSX(w io.Writer, rows []ForecastRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), ForecastSheet); err != nil {
		return fmt.Errorf("failed to name sheet, %w", err)
	}

	header := make([]interface{}, len(ForecastColumns))
	for i, col := range ForecastColumns {
		header[i] = col
	}
	if err := f.SetSheetRow(ForecastSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header, %w", err)
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{r.Country, r.Disease, r.Year, r.Forecast, r.Model}
		if err := f.SetSheetRow(ForecastSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d, %w", i+2, err)
		}
	}
	if err := f.SetColWidth(ForecastSheet, "A", "B", 24); err != nil {
		return fmt.Errorf("failed to size columns, %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook, %w", err)
	}
	return nil
}

// ReadXLSX parses an observation table from the named sheet of a workbook, or the first sheet
// when sheet is empty. Columns are located by header name as in ReadCSV.
func ReadXLSX(r io.Reader, sheet string, required ...string) ([]Record, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook, %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, ErrNoHeader
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s, %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, ErrNoHeader
	}

	idx, err := indexHeader(rows[0], nil, required)
	if err != nil {
		return nil, err
	}
	records := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		records = append(records, idx.record(row))
	}
	return records, nil
}
