package preprocess

import (
	"fmt"
	"log/slog"

	"github.com/aouyang1/go-healthforecast/dataset"
	"github.com/aouyang1/go-healthforecast/stats"

	"github.com/goccy/go-json"
)

// IndicatorSummary records how many observations of an indicator survived outlier trimming
type IndicatorSummary struct {
	InitialRecords  int     `json:"initial_records"`
	CleanedRecords  int     `json:"cleaned_records"`
	RemovedOutliers int     `json:"removed_outliers"`
	LowerBound      float64 `json:"lower_bound"`
	UpperBound      float64 `json:"upper_bound"`
}

// OutlierSummary is keyed by indicator
type OutlierSummary map[string]IndicatorSummary

// JSON renders the summary as indented JSON with indicators in sorted order
func (s OutlierSummary) JSON() ([]byte, error) {
	out, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("unable to encode outlier summary, %w", err)
	}
	return out, nil
}

// TrimOutliers drops, per indicator, the records whose value lies outside the interquartile
// fences. Indicators are emitted in order of first appearance.
func TrimOutliers(records []dataset.Record, opt *Options) ([]dataset.Record, OutlierSummary, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, nil, err
	}

	var order []string
	groups := make(map[string][]dataset.Record)
	for _, r := range records {
		if _, ok := groups[r.Indicator]; !ok {
			order = append(order, r.Indicator)
		}
		groups[r.Indicator] = append(groups[r.Indicator], r)
	}

	summary := make(OutlierSummary, len(order))
	cleaned := make([]dataset.Record, 0, len(records))
	for _, indicator := range order {
		group := groups[indicator]
		values := make([]float64, len(group))
		for i, r := range group {
			values[i] = r.Value
		}

		bounds, err := stats.IQRBounds(values, opt.OutlierFactor)
		if err != nil {
			// nothing finite to measure against, every record fails the fence
			summary[indicator] = IndicatorSummary{
				InitialRecords:  len(group),
				RemovedOutliers: len(group),
			}
			slog.Warn("indicator has no finite values", "indicator", indicator, "records", len(group))
			continue
		}

		kept := 0
		for _, r := range group {
			if bounds.Contains(r.Value) {
				cleaned = append(cleaned, r)
				kept++
			}
		}
		summary[indicator] = IndicatorSummary{
			InitialRecords:  len(group),
			CleanedRecords:  kept,
			RemovedOutliers: len(group) - kept,
			LowerBound:      stats.Round(bounds.Lower, 2),
			UpperBound:      stats.Round(bounds.Upper, 2),
		}
		slog.Debug("trimmed indicator", "indicator", indicator, "before", len(group), "after", kept)
	}
	return cleaned, summary, nil
}
