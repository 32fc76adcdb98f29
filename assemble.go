package healthforecast

import (
	"github.com/aouyang1/go-healthforecast/fitter"
)

// assemble expands the winning forecast into one row per horizon year in ascending order
func assemble(key EntityKey, winner fitter.Result) []ForecastRow {
	rows := make([]ForecastRow, 0, len(winner.Forecast))
	for _, p := range winner.Forecast {
		rows = append(rows, ForecastRow{
			Country:  key.Country,
			Disease:  key.Disease,
			Year:     p.Year,
			Forecast: p.Value,
			Model:    string(winner.Model),
		})
	}
	return rows
}
