package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"SmartBank/internal/domain/models"
	"SmartBank/internal/services/timeseries"
	pkghttp "SmartBank/pkg/http"
	applogger "SmartBank/pkg/logger"
)

// HTTPSeriesSource reads series out of the remote dashboard payload, an object
// whose (possibly nested) keys hold arrays of dated records.
type HTTPSeriesSource struct {
	client *pkghttp.Client
	url    string
	l      *applogger.Logger
}

func NewHTTPSeriesSource(client *pkghttp.Client, url string) *HTTPSeriesSource {
	return &HTTPSeriesSource{client: client, url: url}
}

// SetLogger injects a structured logger.
func (s *HTTPSeriesSource) SetLogger(l *applogger.Logger) { s.l = l }

func (s *HTTPSeriesSource) Name() string { return "remote" }

// Fetch returns the first non-empty series among desc.Remote.
func (s *HTTPSeriesSource) Fetch(ctx context.Context, desc models.SeriesDescriptor) (timeseries.Series, error) {
	if s.url == "" || len(desc.Remote) == 0 {
		return nil, nil
	}
	start := time.Now()

	var payload map[string]json.RawMessage
	if err := s.client.GetJSON(ctx, s.url, nil, &payload); err != nil {
		return nil, fmt.Errorf("remote dashboard: %w", err)
	}

	for _, key := range desc.Remote {
		raw, ok := lookupPath(payload, key.Path)
		if !ok {
			continue
		}
		var records []map[string]any
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		if err := dec.Decode(&records); err != nil {
			return nil, fmt.Errorf("decode %s: %w", key.Path, err)
		}
		if key.From != "" {
			records = pickField(records, key.From, key.To)
		}
		series := timeseries.NormalizeSeries(records)
		if len(series) == 0 {
			continue
		}
		if s.l != nil {
			s.l.Debug("remote fetch_series ok",
				applogger.String("series", desc.Name),
				applogger.String("key", key.Path),
				applogger.Int("points", len(series)),
				applogger.Duration("duration_ms", time.Since(start)),
			)
		}
		return series, nil
	}
	return nil, nil
}

// lookupPath walks a dotted path through nested JSON objects.
func lookupPath(payload map[string]json.RawMessage, path string) (json.RawMessage, bool) {
	parts := strings.Split(path, ".")
	obj := payload
	for i, part := range parts {
		raw, ok := obj[part]
		if !ok || len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
			return nil, false
		}
		if i == len(parts)-1 {
			return raw, true
		}
		obj = nil
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil, false
		}
	}
	return nil, false
}

// pickField keeps the date keys and renames field from to to.
func pickField(records []map[string]any, from, to string) []map[string]any {
	out := make([]map[string]any, 0, len(records))
	for _, r := range records {
		m := make(map[string]any, 3)
		for _, k := range []string{timeseries.DateKey, timeseries.MonthKey} {
			if v, ok := r[k]; ok {
				m[k] = v
			}
		}
		if v, ok := r[from]; ok {
			m[to] = v
		}
		out = append(out, m)
	}
	return out
}
