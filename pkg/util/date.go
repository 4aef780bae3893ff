package util

import (
    "strconv"
    "strings"
    "time"
)

var layouts = []string{
    time.RFC3339,
    time.RFC3339Nano,
    "2006-01-02T15:04:05",
    "2006-01-02 15:04:05",
    "2006-01-02",
}

// ParseTime tries RFC3339, RFC3339Nano, plain dates and unix seconds. Layouts
// without a zone are read as UTC. Returns (t, true) if any worked.
func ParseTime(s string) (time.Time, bool) {
    s = strings.TrimSpace(s)
    if s == "" {
        return time.Time{}, false
    }
    for _, layout := range layouts {
        if t, err := time.Parse(layout, s); err == nil {
            return t, true
        }
    }
    if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
        return time.Unix(ts, 0).UTC(), true
    }
    return time.Time{}, false
}

// ParseMonth reads a "YYYY-MM" string as the first day of that month in UTC.
func ParseMonth(s string) (time.Time, bool) {
    t, err := time.Parse("2006-01", strings.TrimSpace(s))
    if err != nil {
        return time.Time{}, false
    }
    return t, true
}

// EndOfDay moves t to the last nanosecond of its calendar day.
func EndOfDay(t time.Time) time.Time {
    y, m, d := t.Date()
    return time.Date(y, m, d, 0, 0, 0, 0, t.Location()).AddDate(0, 0, 1).Add(-time.Nanosecond)
}
