package timeseries

import (
	"testing"
	"time"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestResolvePresets(t *testing.T) {
	r := NewResolver(WithClock(fixedClock(day(2025, 3, 15))))
	cases := map[string]SelectionRule{
		"all": {Kind: Unbounded},
		"":    {Kind: Unbounded},
		"7d":  {Kind: LastN, N: 7},
		"30D": {Kind: LastN, N: 30},
		"90d": {Kind: LastN, N: 90},
		"YTD": {Kind: YearEquals, Year: 2025},
		"3m":  {Kind: LastN, N: 3},
		"6M":  {Kind: LastN, N: 6},
		"12m": {Kind: LastN, N: 12},
	}
	for preset, want := range cases {
		got := r.Resolve(PresetToken(preset))
		if got.Kind != want.Kind || got.N != want.N || got.Year != want.Year {
			t.Fatalf("%q: expected %s got %s", preset, want, got)
		}
	}
}

func TestResolveYTDReadsClockEachTime(t *testing.T) {
	now := day(2024, 12, 31)
	r := NewResolver(WithClock(func() time.Time { return now }))
	if got := r.Resolve(PresetToken(PresetYTD)); got.Year != 2024 {
		t.Fatalf("expected 2024 got %d", got.Year)
	}
	now = day(2025, 1, 1)
	if got := r.Resolve(PresetToken(PresetYTD)); got.Year != 2025 {
		t.Fatalf("expected 2025 got %d", got.Year)
	}
}

func TestResolveYTDUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*3600)
	now := time.Date(2024, 12, 31, 20, 0, 0, 0, time.UTC)
	r := NewResolver(WithClock(fixedClock(now)), WithLocation(loc))
	if got := r.Resolve(PresetToken(PresetYTD)); got.Year != 2025 {
		t.Fatalf("expected 2025 in UTC+10, got %d", got.Year)
	}
}

func TestResolveCustomWindow(t *testing.T) {
	r := NewResolver()
	start, end := day(2025, 1, 1), day(2025, 1, 31)
	got := r.Resolve(WindowToken(&start, &end))
	if got.Kind != DateWindow || !got.Start.Equal(start) || !got.End.Equal(end) {
		t.Fatalf("unexpected rule %s", got)
	}
	got = r.Resolve(RangeToken{Preset: "last-quarter", End: &end})
	if got.Kind != DateWindow || got.Start != nil || got.End == nil {
		t.Fatalf("unknown preset should yield a window, got %s", got)
	}
}

func TestResolvePresetIgnoresBounds(t *testing.T) {
	r := NewResolver()
	start := day(2025, 1, 1)
	got := r.Resolve(RangeToken{Preset: "7d", Start: &start})
	if got.Kind != LastN || got.Start != nil {
		t.Fatalf("preset must win over bounds, got %s", got)
	}
}

func TestResolveUnknownWithoutBounds(t *testing.T) {
	r := NewResolver()
	if got := r.Resolve(PresetToken("bogus")); got.Kind != Unbounded {
		t.Fatalf("expected unbounded, got %s", got)
	}
	if got := r.Resolve(WindowToken(nil, nil)); got.Kind != Unbounded {
		t.Fatalf("expected unbounded, got %s", got)
	}
}

func TestRuleString(t *testing.T) {
	start := day(2025, 1, 1)
	r := SelectionRule{Kind: DateWindow, Start: &start}
	if got := r.String(); got != "date_window(2025-01-01T00:00:00Z, *)" {
		t.Fatalf("unexpected string %q", got)
	}
	if got := (SelectionRule{Kind: LastN, N: 7}).String(); got != "last_n(7)" {
		t.Fatalf("unexpected string %q", got)
	}
}
