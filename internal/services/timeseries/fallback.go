package timeseries

import (
	"fmt"
	"strings"
)

// EmptyResultPolicy decides what is displayed when a selection keeps no points.
type EmptyResultPolicy string

const (
	// ShowAll substitutes the original series for an empty selection.
	ShowAll EmptyResultPolicy = "show_all"
	// ShowEmpty displays the empty selection as is.
	ShowEmpty EmptyResultPolicy = "show_empty"
)

// ParseEmptyResultPolicy accepts "show_all", "show_empty" and their
// hyphen/camel variants. An empty string yields def.
func ParseEmptyResultPolicy(s string, def EmptyResultPolicy) (EmptyResultPolicy, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.ReplaceAll(norm, "-", "_")
	switch norm {
	case "":
		return def, nil
	case "show_all", "showall":
		return ShowAll, nil
	case "show_empty", "showempty":
		return ShowEmpty, nil
	default:
		return def, fmt.Errorf("unknown empty result policy %q", s)
	}
}

// WithFallback returns filtered when it has points and original otherwise.
func WithFallback(filtered, original Series) Series {
	if len(filtered) > 0 {
		return filtered
	}
	return original.Clone()
}

// ApplyPolicy resolves the displayed series under policy and reports whether
// the original was substituted.
func ApplyPolicy(policy EmptyResultPolicy, filtered, original Series) (Series, bool) {
	if policy == ShowEmpty || len(filtered) > 0 {
		return filtered, false
	}
	return WithFallback(filtered, original), len(original) > 0
}
