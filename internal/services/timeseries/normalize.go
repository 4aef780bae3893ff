package timeseries

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"

	"SmartBank/pkg/util"
)

// Source keys that carry the point's date rather than a measurement.
const (
	DateKey  = "date"
	MonthKey = "month"
)

// ParseTimestamp reads a full date/time value, falling back to the legacy
// "YYYY-MM" month form. Results are in UTC.
func ParseTimestamp(s string) (time.Time, bool) {
	if t, ok := util.ParseTime(s); ok {
		return t.UTC(), true
	}
	if t, ok := util.ParseMonth(s); ok {
		return t, true
	}
	return time.Time{}, false
}

// NormalizePoint converts a decoded source record into a TimePoint. "date"
// takes precedence over the legacy "month" key. Every other numeric value,
// including numeric strings, becomes a field. A missing or unparseable date
// leaves the timestamp zero.
func NormalizePoint(raw map[string]any) TimePoint {
	var p TimePoint
	if label, ok := dateLabel(raw[DateKey]); ok {
		p.Label = label
		if t, ok := ParseTimestamp(label); ok {
			p.Timestamp = t
		}
	} else if label, ok := dateLabel(raw[MonthKey]); ok {
		p.Label = label
		if t, ok := util.ParseMonth(label); ok {
			p.Timestamp = t
		} else if t, ok := util.ParseTime(label); ok {
			p.Timestamp = t.UTC()
		}
	}

	for k, v := range raw {
		if k == DateKey || k == MonthKey {
			continue
		}
		f, ok := toFloat(v)
		if !ok {
			continue
		}
		if k == ValueField {
			p.Value = f
			continue
		}
		if p.Fields == nil {
			p.Fields = make(map[string]float64)
		}
		p.Fields[k] = f
	}
	return p
}

// NormalizeSeries normalises every record, keeping source order.
func NormalizeSeries(raw []map[string]any) Series {
	out := make(Series, 0, len(raw))
	for _, r := range raw {
		out = append(out, NormalizePoint(r))
	}
	return out
}

// DecodeSeries parses a JSON array of source records.
func DecodeSeries(data []byte) (Series, error) {
	var raw []map[string]any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	return NormalizeSeries(raw), nil
}

// dateLabel renders a date value as text. Numbers are unix seconds.
func dateLabel(v any) (string, bool) {
	switch d := v.(type) {
	case string:
		return d, d != ""
	case json.Number:
		return d.String(), true
	case float64:
		return strconv.FormatFloat(d, 'f', -1, 64), true
	case int64:
		return strconv.FormatInt(d, 10), true
	case int:
		return strconv.Itoa(d), true
	default:
		return "", false
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		return util.ParseFloat(n)
	default:
		return 0, false
	}
}
