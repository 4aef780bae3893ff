package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"SmartBank/internal/domain/models"
	"SmartBank/internal/services/timeseries"
	pkgch "SmartBank/pkg/clickhouse"
	applogger "SmartBank/pkg/logger"
)

const seriesTable = "series_points"

// CHSeriesStore keeps dashboard series in ClickHouse, one row per point field.
type CHSeriesStore struct {
	ch    *pkgch.Client
	table string
	l     *applogger.Logger
}

func NewCHSeriesStore(ch *pkgch.Client) *CHSeriesStore {
	return &CHSeriesStore{ch: ch, table: ch.Database() + "." + seriesTable}
}

// SetLogger injects a structured logger.
func (s *CHSeriesStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHSeriesStore) Name() string { return "clickhouse" }

// Init creates the database and table if they are missing.
func (s *CHSeriesStore) Init(ctx context.Context) error {
	return s.ch.InitSchema(ctx, []string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", s.ch.Database()),
		fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS %s (
            series   LowCardinality(String),
            seq      UInt32,
            ts       Nullable(DateTime64(3, 'UTC')),
            label    String,
            field    LowCardinality(String),
            value    Float64,
            inserted DateTime DEFAULT now()
        ) ENGINE = MergeTree
        ORDER BY (series, seq, field)
    `, s.table),
	})
}

func (s *CHSeriesStore) Fetch(ctx context.Context, desc models.SeriesDescriptor) (timeseries.Series, error) {
	start := time.Now()
	q := fmt.Sprintf(`
        SELECT seq, ts, label, field, value
        FROM %s
        WHERE series = ?
        ORDER BY seq ASC, field ASC
    `, s.table)
	rows, err := s.ch.DB().QueryContext(ctx, q, desc.Name)
	if err != nil {
		s.logError("clickhouse fetch_series query error", desc.Name, err)
		return nil, fmt.Errorf("fetch series: %w", err)
	}
	defer rows.Close()

	out := make([]models.SeriesRow, 0, 512)
	for rows.Next() {
		r := models.SeriesRow{Series: desc.Name}
		var ts sql.NullTime
		if err := rows.Scan(&r.Seq, &ts, &r.Label, &r.Field, &r.Value); err != nil {
			s.logError("clickhouse fetch_series scan error", desc.Name, err)
			return nil, fmt.Errorf("scan series row: %w", err)
		}
		if ts.Valid {
			t := ts.Time
			r.TS = &t
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		s.logError("clickhouse fetch_series rows error", desc.Name, err)
		return nil, fmt.Errorf("rows: %w", err)
	}

	series := rowsToSeries(out)
	if s.l != nil {
		s.l.Debug("clickhouse fetch_series ok",
			applogger.String("series", desc.Name),
			applogger.Int("rows", len(out)),
			applogger.Int("points", len(series)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return series, nil
}

// Replace swaps the stored points of a series for s.
func (s *CHSeriesStore) Replace(ctx context.Context, name string, series timeseries.Series) error {
	start := time.Now()
	if _, err := s.ch.DB().ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE series = ?", s.table), name); err != nil {
		s.logError("clickhouse replace_series delete error", name, err)
		return fmt.Errorf("delete series: %w", err)
	}

	rows := seriesToRows(name, series)
	if len(rows) == 0 {
		return nil
	}
	err := s.ch.InTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s (series, seq, ts, label, field, value)", s.table))
		if err != nil {
			return fmt.Errorf("prepare insert: %w", err)
		}
		defer stmt.Close()
		for _, r := range rows {
			var ts any
			if r.TS != nil {
				ts = *r.TS
			}
			if _, err := stmt.ExecContext(ctx, r.Series, r.Seq, ts, r.Label, r.Field, r.Value); err != nil {
				return fmt.Errorf("append row: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		s.logError("clickhouse replace_series insert error", name, err)
		return err
	}
	if s.l != nil {
		s.l.Info("clickhouse replace_series ok",
			applogger.String("series", name),
			applogger.Int("points", len(series)),
			applogger.Int("rows", len(rows)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return nil
}

func (s *CHSeriesStore) Health(ctx context.Context) error {
	return s.ch.Health(ctx)
}

// Close is a no-op; the client is owned by the caller.
func (s *CHSeriesStore) Close() error {
	return nil
}

func (s *CHSeriesStore) logError(msg, series string, err error) {
	if s.l == nil {
		return
	}
	s.l.Error(msg,
		applogger.String("table", s.table),
		applogger.String("series", series),
		applogger.Error(err),
	)
}
