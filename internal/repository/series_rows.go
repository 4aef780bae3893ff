package repository

import (
	"sort"
	"time"

	"SmartBank/internal/domain/models"
	"SmartBank/internal/services/timeseries"
)

// seriesToRows flattens a series into one row per field. The point index is
// kept as seq so the source order survives storage.
func seriesToRows(name string, s timeseries.Series) []models.SeriesRow {
	rows := make([]models.SeriesRow, 0, len(s))
	for i, p := range s {
		var ts *time.Time
		if p.HasTime() {
			t := p.Timestamp.UTC()
			ts = &t
		}
		base := models.SeriesRow{Series: name, Seq: uint32(i), TS: ts, Label: p.Label}
		if len(p.Fields) == 0 || p.Value != 0 {
			r := base
			r.Field = timeseries.ValueField
			r.Value = p.Value
			rows = append(rows, r)
		}
		keys := make([]string, 0, len(p.Fields))
		for k := range p.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			r := base
			r.Field = k
			r.Value = p.Fields[k]
			rows = append(rows, r)
		}
	}
	return rows
}

// rowsToSeries pivots rows ordered by seq back into points.
func rowsToSeries(rows []models.SeriesRow) timeseries.Series {
	out := make(timeseries.Series, 0, len(rows))
	var cur *timeseries.TimePoint
	var curSeq uint32
	for _, r := range rows {
		if cur == nil || r.Seq != curSeq {
			out = append(out, timeseries.TimePoint{Label: r.Label})
			cur = &out[len(out)-1]
			curSeq = r.Seq
			if r.TS != nil {
				cur.Timestamp = r.TS.UTC()
			}
		}
		if r.Field == timeseries.ValueField {
			cur.Value = r.Value
			continue
		}
		if cur.Fields == nil {
			cur.Fields = make(map[string]float64)
		}
		cur.Fields[r.Field] = r.Value
	}
	return out
}
