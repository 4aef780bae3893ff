package timeseries

import (
	"testing"
	"time"
)

func TestNormalizePointDate(t *testing.T) {
	p := NormalizePoint(map[string]any{"date": "2025-02-21", "value": 12.5, "note": "x"})
	if !p.Timestamp.Equal(day(2025, 2, 21)) {
		t.Fatalf("unexpected timestamp %v", p.Timestamp)
	}
	if p.Value != 12.5 || p.Label != "2025-02-21" {
		t.Fatalf("unexpected point %+v", p)
	}
	if len(p.Fields) != 0 {
		t.Fatalf("non-numeric keys must be ignored, got %v", p.Fields)
	}
}

func TestNormalizePointLegacyMonth(t *testing.T) {
	p := NormalizePoint(map[string]any{"month": "2024-07", "total_customers": "1,250", "new_customers": 40})
	if !p.Timestamp.Equal(day(2024, 7, 1)) {
		t.Fatalf("expected first of month, got %v", p.Timestamp)
	}
	if p.Fields["total_customers"] != 1250 || p.Fields["new_customers"] != 40 {
		t.Fatalf("unexpected fields %v", p.Fields)
	}
}

func TestNormalizePointDatePrecedesMonth(t *testing.T) {
	p := NormalizePoint(map[string]any{"date": "2025-03-04T10:00:00Z", "month": "2020-01"})
	if p.Timestamp.Year() != 2025 || p.Timestamp.Hour() != 10 {
		t.Fatalf("date must win over month, got %v", p.Timestamp)
	}
}

func TestNormalizePointInvalidDate(t *testing.T) {
	p := NormalizePoint(map[string]any{"date": "not-a-date", "value": 1})
	if p.HasTime() {
		t.Fatalf("expected missing timestamp, got %v", p.Timestamp)
	}
	if p.Label != "not-a-date" {
		t.Fatalf("raw label should be kept, got %q", p.Label)
	}
	if NormalizePoint(map[string]any{"value": 1}).HasTime() {
		t.Fatalf("point without date must have no timestamp")
	}
}

func TestDecodeSeriesKeepsOrder(t *testing.T) {
	data := []byte(`[
		{"date":"2025-01-03","value":3},
		{"date":"2025-01-01","value":1},
		{"date":"2025-01-02","value":2}
	]`)
	s, err := DecodeSeries(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(s) != 3 || s[0].Value != 3 || s[1].Value != 1 || s[2].Value != 2 {
		t.Fatalf("source order must be kept, got %+v", s)
	}
	if _, err := DecodeSeries([]byte(`{"date":"2025-01-01"}`)); err == nil {
		t.Fatalf("expected error for non-array input")
	}
}

func TestParseTimestamp(t *testing.T) {
	if ts, ok := ParseTimestamp("2025-01"); !ok || ts.Month() != time.January {
		t.Fatalf("expected month form to parse, got %v %v", ts, ok)
	}
	if _, ok := ParseTimestamp("yesterday"); ok {
		t.Fatalf("expected failure")
	}
}

func TestNormalizePointMonthInDateKey(t *testing.T) {
	p := NormalizePoint(map[string]any{"date": "2025-01", "value": 3})
	if !p.Timestamp.Equal(day(2025, 1, 1)) {
		t.Fatalf("month string under date should parse, got %v", p.Timestamp)
	}

	r := NewResolver(WithClock(func() time.Time { return day(2025, 6, 15) }))
	got := Select(Series{p}, r.Resolve(RangeToken{Preset: "ytd"}))
	if len(got) != 1 {
		t.Fatalf("ytd should keep the point, got %d", len(got))
	}
}

func TestDecodeSeriesUnixDate(t *testing.T) {
	s, err := DecodeSeries([]byte(`[{"date":1735689600,"value":4}]`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(s) != 1 || !s[0].Timestamp.Equal(day(2025, 1, 1)) || s[0].Value != 4 {
		t.Fatalf("numeric date should be read as unix seconds, got %+v", s)
	}
	if p := NormalizePoint(map[string]any{"date": float64(1735689600)}); !p.Timestamp.Equal(day(2025, 1, 1)) {
		t.Fatalf("float date should be read as unix seconds, got %v", p.Timestamp)
	}
}
