// Package timeseries implements range-bounded selection over dashboard series:
// resolving a range token into a selection rule, applying it to a series,
// substituting the original series on an empty result when the policy says so,
// and projecting the outcome into chart labels and datasets.
package timeseries

import (
	"sort"
	"time"
)

// ValueField is the field name under which single-value points expose Value.
const ValueField = "value"

// TimePoint is one observation of a series. A zero Timestamp marks a point whose
// source date was missing or could not be parsed.
type TimePoint struct {
	Timestamp time.Time          `json:"timestamp"`
	Label     string             `json:"label,omitempty"`
	Value     float64            `json:"value"`
	Fields    map[string]float64 `json:"fields,omitempty"`
}

// HasTime reports whether the point carries a usable timestamp.
func (p TimePoint) HasTime() bool {
	return !p.Timestamp.IsZero()
}

// Field returns the named measurement. "value" falls back to Value when the
// point has no explicit field of that name.
func (p TimePoint) Field(name string) (float64, bool) {
	if v, ok := p.Fields[name]; ok {
		return v, true
	}
	if name == ValueField {
		return p.Value, true
	}
	return 0, false
}

// Series is an ordered sequence of points. Order is whatever the source produced.
type Series []TimePoint

// Len is the number of points.
func (s Series) Len() int { return len(s) }

// Clone returns a copy of the series backed by a new array.
func (s Series) Clone() Series {
	out := make(Series, len(s))
	copy(out, s)
	return out
}

// FieldNames lists every field present in the series in sorted order. A series
// without any multi-field points reports just "value".
func (s Series) FieldNames() []string {
	seen := make(map[string]struct{})
	for _, p := range s {
		for k := range p.Fields {
			seen[k] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return []string{ValueField}
	}
	names := make([]string, 0, len(seen))
	for k := range seen {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Last returns the final point of the series.
func (s Series) Last() (TimePoint, bool) {
	if len(s) == 0 {
		return TimePoint{}, false
	}
	return s[len(s)-1], true
}
