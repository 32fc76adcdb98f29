package dataset

import "io"

// Column names of the raw indicator exports
const (
	RawIndicator = "IndicatorCode"
	RawCountry   = "SpatialDim"
	RawRegion    = "ParentLocation"
	RawYear      = "TimeDim"
	RawValue     = "Value"
)

var rawAliases = map[string]string{
	RawIndicator: ColIndicator,
	RawCountry:   ColCountry,
	RawRegion:    ColRegion,
	RawYear:      ColYear,
	RawValue:     ColValue,
}

// rawRequired are the processed columns every raw export must map onto. The region may be absent.
var rawRequired = []string{ColIndicator, ColCountry, ColYear, ColValue}

// ReadRawCSV parses a raw indicator export, renaming its columns to the processed layout. Other
// export columns are ignored.
func ReadRawCSV(r io.Reader) ([]Record, error) {
	return readCSV(r, rawAliases, rawRequired)
}
