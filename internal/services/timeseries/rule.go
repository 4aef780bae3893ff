package timeseries

import (
	"fmt"
	"strings"
	"time"
)

// Range presets understood by the resolver.
const (
	PresetAll    = "all"
	Preset7D     = "7d"
	Preset30D    = "30d"
	Preset90D    = "90d"
	PresetYTD    = "ytd"
	PresetCustom = "custom"

	// Month-count presets of monthly views; they take the last N points.
	Preset3M  = "3m"
	Preset6M  = "6m"
	Preset12M = "12m"
)

// RangeToken is the user's range selection: either an enumerated preset or a
// custom window. A recognised preset wins over any bounds that came with it.
type RangeToken struct {
	Preset string     `json:"preset,omitempty"`
	Start  *time.Time `json:"start,omitempty"`
	End    *time.Time `json:"end,omitempty"`
}

// PresetToken builds a token for an enumerated preset.
func PresetToken(preset string) RangeToken {
	return RangeToken{Preset: preset}
}

// WindowToken builds a custom window token. Either bound may be nil.
func WindowToken(start, end *time.Time) RangeToken {
	return RangeToken{Preset: PresetCustom, Start: start, End: end}
}

// RuleKind identifies the shape of a selection rule.
type RuleKind int

const (
	Unbounded RuleKind = iota
	LastN
	YearEquals
	DateWindow
)

func (k RuleKind) String() string {
	switch k {
	case Unbounded:
		return "unbounded"
	case LastN:
		return "last_n"
	case YearEquals:
		return "year_equals"
	case DateWindow:
		return "date_window"
	default:
		return "unknown"
	}
}

// SelectionRule describes which points of a series are kept. Only the fields
// relevant to Kind are meaningful.
type SelectionRule struct {
	Kind  RuleKind
	N     int
	Year  int
	Start *time.Time
	End   *time.Time
}

func (r SelectionRule) String() string {
	switch r.Kind {
	case LastN:
		return fmt.Sprintf("last_n(%d)", r.N)
	case YearEquals:
		return fmt.Sprintf("year_equals(%d)", r.Year)
	case DateWindow:
		return fmt.Sprintf("date_window(%s, %s)", boundString(r.Start), boundString(r.End))
	default:
		return r.Kind.String()
	}
}

func boundString(t *time.Time) string {
	if t == nil {
		return "*"
	}
	return t.Format(time.RFC3339)
}

// Resolver maps range tokens to selection rules. The clock is consulted at
// resolve time so that "ytd" always refers to the current year.
type Resolver struct {
	now func() time.Time
	loc *time.Location
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) ResolverOption {
	return func(r *Resolver) {
		if now != nil {
			r.now = now
		}
	}
}

// WithLocation sets the location used to decide the current year.
func WithLocation(loc *time.Location) ResolverOption {
	return func(r *Resolver) {
		if loc != nil {
			r.loc = loc
		}
	}
}

// NewResolver returns a resolver using the wall clock in UTC unless overridden.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{now: time.Now, loc: time.UTC}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve never fails: unknown presets are treated as a custom window over the
// token's bounds, and a window without bounds selects everything.
func (r *Resolver) Resolve(tok RangeToken) SelectionRule {
	switch strings.ToLower(strings.TrimSpace(tok.Preset)) {
	case PresetAll:
		return SelectionRule{Kind: Unbounded}
	case Preset7D:
		return SelectionRule{Kind: LastN, N: 7}
	case Preset30D:
		return SelectionRule{Kind: LastN, N: 30}
	case Preset90D:
		return SelectionRule{Kind: LastN, N: 90}
	case Preset3M:
		return SelectionRule{Kind: LastN, N: 3}
	case Preset6M:
		return SelectionRule{Kind: LastN, N: 6}
	case Preset12M:
		return SelectionRule{Kind: LastN, N: 12}
	case PresetYTD:
		return SelectionRule{Kind: YearEquals, Year: r.now().In(r.loc).Year()}
	}
	if tok.Start == nil && tok.End == nil {
		return SelectionRule{Kind: Unbounded}
	}
	return SelectionRule{Kind: DateWindow, Start: tok.Start, End: tok.End}
}
