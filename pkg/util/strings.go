package util

import (
    "strconv"
    "strings"
)

// ParseFloat accepts plain numbers with optional surrounding spaces and
// thousands separators.
func ParseFloat(s string) (float64, bool) {
    s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
    if s == "" {
        return 0, false
    }
    v, err := strconv.ParseFloat(s, 64)
    if err != nil {
        return 0, false
    }
    return v, true
}

// SplitList splits a comma separated list, dropping blanks.
func SplitList(s string) []string {
    if s == "" {
        return nil
    }
    parts := strings.Split(s, ",")
    out := make([]string, 0, len(parts))
    for _, p := range parts {
        if p = strings.TrimSpace(p); p != "" {
            out = append(out, p)
        }
    }
    return out
}
