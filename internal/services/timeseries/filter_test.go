package timeseries

import (
	"testing"
	"time"
)

func TestScenarioLastSevenDays(t *testing.T) {
	s := daily(day(2024, 9, 1), 180)
	if last, _ := s.Last(); !last.Timestamp.Equal(day(2025, 2, 27)) {
		t.Fatalf("fixture should end on 2025-02-27, got %v", last.Timestamp)
	}
	f := NewFilter(NewResolver(), ShowAll)
	res := f.Apply(s, PresetToken("7d"))
	if len(res.Points) != 7 || res.FallbackApplied {
		t.Fatalf("expected 7 points without fallback, got %d", len(res.Points))
	}
	for i, p := range res.Points {
		if want := day(2025, 2, 21+i); !p.Timestamp.Equal(want) {
			t.Fatalf("index %d: expected %v got %v", i, want, p.Timestamp)
		}
	}
}

func TestScenarioYTDFallsBack(t *testing.T) {
	s := daily(day(2023, 6, 1), 400)
	if last, _ := s.Last(); last.Timestamp.Year() != 2024 {
		t.Fatalf("fixture should end in 2024")
	}
	r := NewResolver(WithClock(fixedClock(time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC))))
	res := NewFilter(r, ShowAll).Apply(s, PresetToken(PresetYTD))
	if res.Matched != 0 {
		t.Fatalf("expected no 2025 points, matched %d", res.Matched)
	}
	if !res.FallbackApplied || len(res.Points) != len(s) {
		t.Fatalf("expected fallback to the full series, got %d points", len(res.Points))
	}

	res = NewFilter(r, ShowEmpty).Apply(s, PresetToken(PresetYTD))
	if res.FallbackApplied || len(res.Points) != 0 {
		t.Fatalf("show_empty must not fall back")
	}
}

func TestScenarioCustomJanuary(t *testing.T) {
	s := daily(day(2024, 12, 1), 90)
	start, end := day(2025, 1, 1), day(2025, 1, 31)
	res := NewFilter(nil, "").Apply(s, WindowToken(&start, &end))
	if len(res.Points) != 31 {
		t.Fatalf("expected 31 January points, got %d", len(res.Points))
	}
	for _, p := range res.Points {
		if p.Timestamp.Year() != 2025 || p.Timestamp.Month() != time.January {
			t.Fatalf("point %v outside January", p.Timestamp)
		}
	}
}

func TestScenarioUnparseableDateExcluded(t *testing.T) {
	s := NormalizeSeries([]map[string]any{
		{"date": "2025-01-10", "value": 1},
		{"date": "not-a-date", "value": 2},
		{"date": "2025-01-20", "value": 3},
	})
	start, end := day(2025, 1, 1), day(2025, 1, 31)
	res := NewFilter(nil, ShowAll).Apply(s, WindowToken(&start, &end))
	if len(res.Points) != 2 || res.Points[0].Value != 1 || res.Points[1].Value != 3 {
		t.Fatalf("unexpected window result %+v", res.Points)
	}
}

func TestApplyWithPolicyOverride(t *testing.T) {
	s := daily(day(2020, 1, 1), 10)
	r := NewResolver(WithClock(fixedClock(day(2025, 1, 1))))
	f := NewFilter(r, ShowAll)
	res := f.ApplyWithPolicy(s, PresetToken(PresetYTD), ShowEmpty)
	if len(res.Points) != 0 {
		t.Fatalf("override should show empty result")
	}
	if f.Policy() != ShowAll {
		t.Fatalf("default policy must not change")
	}
}

func TestViewRecomputesFromOriginal(t *testing.T) {
	s := daily(day(2025, 1, 1), 60)
	f := NewFilter(nil, ShowAll)
	v := NewView(s)
	if len(v.Displayed) != 60 {
		t.Fatalf("new view should display everything")
	}
	v.Apply(f, PresetToken("7d"))
	if len(v.Displayed) != 7 {
		t.Fatalf("expected 7 displayed, got %d", len(v.Displayed))
	}
	v.Apply(f, PresetToken("30d"))
	if len(v.Displayed) != 30 {
		t.Fatalf("widening the range must recompute from the original, got %d", len(v.Displayed))
	}
	if len(v.Original) != 60 {
		t.Fatalf("original must be retained")
	}
	v.Reset(f, daily(day(2025, 1, 1), 10))
	if len(v.Displayed) != 10 {
		t.Fatalf("reset should reapply current token, got %d", len(v.Displayed))
	}
}
