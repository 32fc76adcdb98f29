package fitter

// Select returns the valid result with the lowest MAPE. Equal scores resolve by strategy
// priority, then by position. The boolean is false when no result is valid.
func Select(results []Result) (Result, bool) {
	var best Result
	found := false
	for _, r := range results {
		if !r.Valid() {
			continue
		}
		if !found || r.MAPE < best.MAPE || (r.MAPE == best.MAPE && r.Model.Priority() < best.Model.Priority()) {
			best = r
			found = true
		}
	}
	return best, found
}
