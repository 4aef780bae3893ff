// Package upload inspects files sent to the dashboard: it checks the type,
// detects what kind of data the file holds and counts its rows.
package upload

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"SmartBank/internal/domain/models"
	"SmartBank/internal/services/timeseries"
)

// Accepted file types.
const (
	TypeJSON = "json"
	TypeCSV  = "csv"
)

var (
	ErrUnsupportedType = errors.New("only JSON and CSV files are allowed")
	ErrEmptyFile       = errors.New("file is empty")
	ErrInvalidContent  = errors.New("invalid data format")
)

// Result is what Analyze learned about a file.
type Result struct {
	FileType string
	MimeType string
	Kind     string
	Rows     int
	// Data is the JSON stored for the upload. CSV files become {"rows": [[...]]}.
	Data json.RawMessage
	// Series holds the dated records of the file, if it has any.
	Series timeseries.Series
}

// FileType maps a file name onto an accepted type.
func FileType(name string) (string, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return TypeJSON, nil
	case ".csv":
		return TypeCSV, nil
	default:
		return "", ErrUnsupportedType
	}
}

// Analyze detects the data kind of content and counts its rows.
func Analyze(name string, content []byte) (*Result, error) {
	ft, err := FileType(name)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(content)) == 0 {
		return nil, ErrEmptyFile
	}
	if ft == TypeCSV {
		return analyzeCSV(content)
	}
	return analyzeJSON(content)
}

func analyzeCSV(content []byte) (*Result, error) {
	r := csv.NewReader(bytes.NewReader(content))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	var rows [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidContent, err)
		}
		if blank(rec) {
			continue
		}
		rows = append(rows, rec)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}

	data, err := json.Marshal(map[string][][]string{"rows": rows})
	if err != nil {
		return nil, err
	}
	return &Result{
		FileType: TypeCSV,
		MimeType: "text/csv",
		Kind:     models.DataKindCSV,
		Rows:     len(rows) - 1,
		Data:     data,
		Series:   csvSeries(rows),
	}, nil
}

// csvSeries turns rows under a header with a date or month column into
// points. Other files yield nil.
func csvSeries(rows [][]string) timeseries.Series {
	if len(rows) < 2 {
		return nil
	}
	header := make([]string, len(rows[0]))
	dated := false
	for i, h := range rows[0] {
		header[i] = strings.ToLower(strings.TrimSpace(h))
		if header[i] == timeseries.DateKey || header[i] == timeseries.MonthKey {
			dated = true
		}
	}
	if !dated {
		return nil
	}
	records := make([]map[string]any, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(map[string]any, len(header))
		for i, v := range row {
			if i < len(header) && header[i] != "" {
				rec[header[i]] = strings.TrimSpace(v)
			}
		}
		records = append(records, rec)
	}
	return timeseries.NormalizeSeries(records)
}

func analyzeJSON(content []byte) (*Result, error) {
	dec := json.NewDecoder(bytes.NewReader(content))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidContent, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after JSON value", ErrInvalidContent)
	}

	res := &Result{FileType: TypeJSON, MimeType: "application/json", Data: json.RawMessage(bytes.TrimSpace(content))}
	switch val := v.(type) {
	case []any:
		res.Rows = len(val)
		res.Kind = models.DataKindRecords
		if records, ok := datedRecords(val); ok {
			res.Kind = models.DataKindTimeSeries
			res.Series = timeseries.NormalizeSeries(records)
		}
	case map[string]any:
		res.Rows = 1
		res.Kind = models.DataKindDocument
	default:
		return nil, fmt.Errorf("%w: expected an object or an array", ErrInvalidContent)
	}
	return res, nil
}

// datedRecords reports whether every element is an object carrying a date or
// month key.
func datedRecords(items []any) ([]map[string]any, bool) {
	if len(items) == 0 {
		return nil, false
	}
	out := make([]map[string]any, 0, len(items))
	for _, it := range items {
		m, ok := it.(map[string]any)
		if !ok {
			return nil, false
		}
		_, hasDate := m[timeseries.DateKey]
		_, hasMonth := m[timeseries.MonthKey]
		if !hasDate && !hasMonth {
			return nil, false
		}
		out = append(out, m)
	}
	return out, true
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
