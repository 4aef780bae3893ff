package timeseries

import "testing"

func TestWithFallback(t *testing.T) {
	original := daily(day(2025, 1, 1), 5)
	if got := WithFallback(Series{}, original); len(got) != 5 {
		t.Fatalf("expected original on empty filter, got %d points", len(got))
	}
	filtered := original[:2]
	if got := WithFallback(filtered, original); len(got) != 2 {
		t.Fatalf("expected filtered result, got %d points", len(got))
	}
	if got := WithFallback(nil, nil); len(got) != 0 {
		t.Fatalf("expected empty result for empty original")
	}
}

func TestApplyPolicy(t *testing.T) {
	original := daily(day(2025, 1, 1), 5)

	got, fellBack := ApplyPolicy(ShowAll, Series{}, original)
	if !fellBack || len(got) != 5 {
		t.Fatalf("show_all: expected fallback to 5 points, got %d (fallback=%v)", len(got), fellBack)
	}
	got, fellBack = ApplyPolicy(ShowEmpty, Series{}, original)
	if fellBack || len(got) != 0 {
		t.Fatalf("show_empty: expected empty result, got %d (fallback=%v)", len(got), fellBack)
	}
	got, fellBack = ApplyPolicy(ShowAll, original[:1], original)
	if fellBack || len(got) != 1 {
		t.Fatalf("non-empty selection must pass through")
	}
	_, fellBack = ApplyPolicy(ShowAll, Series{}, Series{})
	if fellBack {
		t.Fatalf("nothing to fall back to")
	}
}

func TestParseEmptyResultPolicy(t *testing.T) {
	cases := map[string]EmptyResultPolicy{
		"":           ShowEmpty,
		"show_all":   ShowAll,
		"Show-All":   ShowAll,
		"showEmpty":  ShowEmpty,
		"show_empty": ShowEmpty,
	}
	for in, want := range cases {
		got, err := ParseEmptyResultPolicy(in, ShowEmpty)
		if err != nil {
			t.Fatalf("%q: unexpected error %v", in, err)
		}
		if got != want {
			t.Fatalf("%q: expected %s got %s", in, want, got)
		}
	}
	if _, err := ParseEmptyResultPolicy("hide", ShowAll); err == nil {
		t.Fatalf("expected error for unknown policy")
	}
}
