package healthforecast

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

var ErrNoHistory = errors.New("series report has no history to plot")

// LineYears generates an echart multi-line chart over calendar years. Each series in y must have
// the same length as years and NaN values are left as gaps.
func LineYears(title string, seriesName []string, years []int, y [][]float64) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: title,
			},
		),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Top: "bottom"}),
	)

	xAxis := make([]string, len(years))
	for i, year := range years {
		xAxis[i] = strconv.Itoa(year)
	}
	line.SetXAxis(xAxis)

	for i, name := range seriesName {
		data := make([]opts.LineData, len(years))
		for j := range years {
			if j >= len(y[i]) || math.IsNaN(y[i][j]) {
				data[j] = opts.LineData{Value: "-"}
				continue
			}
			data[j] = opts.LineData{Value: y[i][j]}
		}
		line.AddSeries(name, data)
	}
	return line
}

// LineReport plots the history of a series with each valid strategy's forecast continuing from
// the last observation. The winning strategy is marked in its series name.
func LineReport(report SeriesReport) (*charts.Line, error) {
	if report.History == nil || report.History.Len() == 0 {
		return nil, fmt.Errorf("%s, %w", report.Key, ErrNoHistory)
	}
	hist := report.History

	last := hist.Years[len(hist.Years)-1]
	years := append([]int(nil), hist.Years...)
	for _, r := range report.Results {
		for _, p := range r.Forecast {
			if p.Year > last {
				last = p.Year
				years = append(years, p.Year)
			}
		}
	}
	pos := make(map[int]int, len(years))
	for i, year := range years {
		pos[year] = i
	}

	names := []string{"Actual"}
	actual := nanSlice(len(years))
	copy(actual, hist.Y)
	values := [][]float64{actual}

	lastIdx := hist.Len() - 1
	for _, r := range report.Results {
		if !r.Valid() {
			continue
		}
		name := fmt.Sprintf("%s (MAPE %.4f)", r.Model, r.MAPE)
		if r.Model == report.Winner {
			name = "* " + name
		}
		y := nanSlice(len(years))
		y[lastIdx] = hist.Y[lastIdx]
		for _, p := range r.Forecast {
			y[pos[p.Year]] = p.Value
		}
		names = append(names, name)
		values = append(values, y)
	}

	title := report.Key.String()
	if report.Winner != "" {
		title += " winner " + string(report.Winner)
	}
	return LineYears(title, names, years, values), nil
}

// Plot renders a page with one chart per forecast series, limited to keys when any are given
func (o *Output) Plot(w io.Writer, keys ...EntityKey) error {
	want := make(map[EntityKey]bool, len(keys))
	for _, k := range keys {
		want[k] = true
	}

	page := components.NewPage()
	page.SetPageTitle("Forecasts")
	var n int
	for _, r := range o.Reports {
		if len(want) > 0 && !want[r.Key] {
			continue
		}
		if r.History == nil {
			continue
		}
		line, err := LineReport(r)
		if err != nil {
			return err
		}
		page.AddCharts(line)
		n++
	}
	if n == 0 {
		return ErrNoHistory
	}
	return page.Render(w)
}

func nanSlice(n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = math.NaN()
	}
	return s
}
