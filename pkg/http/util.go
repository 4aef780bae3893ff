package http

import (
    "strings"
    "time"

    xutil "SmartBank/pkg/util"
)

// ParseOptionalTime parses s into a pointer; empty input yields nil. The
// second result is false only when s is non-empty and unparseable.
func ParseOptionalTime(s string) (*time.Time, bool) {
    if s == "" {
        return nil, true
    }
    t, ok := xutil.ParseTime(s)
    if !ok {
        return nil, false
    }
    return &t, true
}

// ParseOptionalEnd is ParseOptionalTime for an inclusive upper bound: a plain
// date ("2025-01-31") covers that whole day.
func ParseOptionalEnd(s string) (*time.Time, bool) {
    t, ok := ParseOptionalTime(s)
    if t == nil || !ok {
        return t, ok
    }
    if s = strings.TrimSpace(s); len(s) == len("2006-01-02") && strings.Count(s, "-") == 2 {
        end := xutil.EndOfDay(*t)
        return &end, true
    }
    return t, true
}
