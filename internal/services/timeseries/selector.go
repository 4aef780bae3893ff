package timeseries

// Select applies rule to series and returns the kept points in their original
// relative order. The input is never modified and the result never shares its
// backing array.
func Select(series Series, rule SelectionRule) Series {
	switch rule.Kind {
	case Unbounded:
		return series.Clone()
	case LastN:
		if rule.N <= 0 {
			return Series{}
		}
		if len(series) <= rule.N {
			return series.Clone()
		}
		return series[len(series)-rule.N:].Clone()
	case YearEquals:
		return keep(series, func(p TimePoint) bool {
			return p.Timestamp.Year() == rule.Year
		})
	case DateWindow:
		return keep(series, func(p TimePoint) bool {
			if rule.Start != nil && p.Timestamp.Before(*rule.Start) {
				return false
			}
			if rule.End != nil && p.Timestamp.After(*rule.End) {
				return false
			}
			return true
		})
	default:
		return series.Clone()
	}
}

// keep filters on pred, dropping points without a timestamp first.
func keep(series Series, pred func(TimePoint) bool) Series {
	out := make(Series, 0, len(series))
	for _, p := range series {
		if !p.HasTime() {
			continue
		}
		if pred(p) {
			out = append(out, p)
		}
	}
	return out
}
