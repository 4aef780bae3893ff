package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"SmartBank/internal/domain/models"
	domrepo "SmartBank/internal/domain/repository"
	pkgpg "SmartBank/pkg/postgres"
	applogger "SmartBank/pkg/logger"
)

// PGNotificationStore keeps dashboard notifications in Postgres.
type PGNotificationStore struct {
	pg *pkgpg.Client
	l  *applogger.Logger
}

func NewPGNotificationStore(pg *pkgpg.Client) *PGNotificationStore {
	return &PGNotificationStore{pg: pg}
}

// SetLogger injects a structured logger.
func (s *PGNotificationStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *PGNotificationStore) Init(ctx context.Context) error {
	return s.pg.InitSchema(ctx, []string{`
        CREATE TABLE IF NOT EXISTS notifications (
            id SERIAL PRIMARY KEY,
            type VARCHAR(50) NOT NULL,
            message TEXT NOT NULL,
            time VARCHAR(100) NOT NULL,
            read BOOLEAN DEFAULT FALSE,
            category VARCHAR(100) NOT NULL,
            created_at TIMESTAMPTZ DEFAULT now()
        )`,
	})
}

func (s *PGNotificationStore) List(ctx context.Context, limit int) ([]models.Notification, error) {
	rows, err := s.pg.Pool().Query(ctx, `
        SELECT id, type, message, time, category, read, created_at
        FROM notifications
        ORDER BY created_at DESC, id DESC
        LIMIT $1`, limit)
	if err != nil {
		s.logError("postgres list_notifications query error", err)
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	out := make([]models.Notification, 0, limit)
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.Type, &n.Message, &n.Time, &n.Category, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *PGNotificationStore) Create(ctx context.Context, n *models.Notification) error {
	err := s.pg.Pool().QueryRow(ctx, `
        INSERT INTO notifications (type, message, time, category, read)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at`,
		n.Type, n.Message, n.Time, n.Category, n.Read,
	).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		s.logError("postgres create_notification error", err)
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

func (s *PGNotificationStore) MarkRead(ctx context.Context, id int64) error {
	tag, err := s.pg.Pool().Exec(ctx, `UPDATE notifications SET read = TRUE WHERE id = $1`, id)
	if err != nil {
		s.logError("postgres mark_read error", err)
		return fmt.Errorf("mark read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domrepo.ErrNotFound
	}
	return nil
}

func (s *PGNotificationStore) MarkAllRead(ctx context.Context) (int64, error) {
	tag, err := s.pg.Pool().Exec(ctx, `UPDATE notifications SET read = TRUE WHERE read = FALSE`)
	if err != nil {
		s.logError("postgres mark_all_read error", err)
		return 0, fmt.Errorf("mark all read: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (s *PGNotificationStore) logError(msg string, err error) {
	if s.l != nil {
		s.l.Error(msg, applogger.String("table", "notifications"), applogger.Error(err))
	}
}

// PGUploadStore keeps uploaded files and their metadata in data_uploads.
type PGUploadStore struct {
	pg *pkgpg.Client
	l  *applogger.Logger
}

func NewPGUploadStore(pg *pkgpg.Client) *PGUploadStore {
	return &PGUploadStore{pg: pg}
}

// SetLogger injects a structured logger.
func (s *PGUploadStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *PGUploadStore) Init(ctx context.Context) error {
	return s.pg.InitSchema(ctx, []string{
		`CREATE TABLE IF NOT EXISTS data_uploads (
            id SERIAL PRIMARY KEY,
            file_name VARCHAR(255) NOT NULL,
            file_size INTEGER NOT NULL,
            file_type VARCHAR(50) NOT NULL,
            data JSONB,
            metadata JSONB,
            upload_date TIMESTAMPTZ DEFAULT now()
        )`,
		`ALTER TABLE data_uploads ADD COLUMN IF NOT EXISTS status VARCHAR(50) DEFAULT 'Processed'`,
	})
}

func (s *PGUploadStore) Create(ctx context.Context, u *models.Upload) error {
	meta, err := json.Marshal(u.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	var data []byte
	if len(u.Data) > 0 {
		data = u.Data
	}
	start := time.Now()
	err = s.pg.Pool().QueryRow(ctx, `
        INSERT INTO data_uploads (file_name, file_size, file_type, data, metadata, status)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, upload_date`,
		u.FileName, u.FileSize, u.FileType, data, meta, u.Status,
	).Scan(&u.ID, &u.UploadedAt)
	if err != nil {
		s.logError("postgres create_upload error", err)
		return fmt.Errorf("create upload: %w", err)
	}
	if s.l != nil {
		s.l.Info("postgres create_upload ok",
			applogger.Int64("id", u.ID),
			applogger.String("file", u.FileName),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return nil
}

func (s *PGUploadStore) List(ctx context.Context, limit, offset int) ([]models.UploadSummary, error) {
	rows, err := s.pg.Pool().Query(ctx, `
        SELECT id, file_name, file_size, file_type, metadata, COALESCE(status, 'Processed'), upload_date
        FROM data_uploads
        ORDER BY upload_date DESC, id DESC
        LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		s.logError("postgres list_uploads query error", err)
		return nil, fmt.Errorf("list uploads: %w", err)
	}
	defer rows.Close()

	out := make([]models.UploadSummary, 0, limit)
	for rows.Next() {
		var u models.UploadSummary
		var meta []byte
		if err := rows.Scan(&u.ID, &u.FileName, &u.FileSize, &u.FileType, &meta, &u.Status, &u.UploadedAt); err != nil {
			return nil, fmt.Errorf("scan upload: %w", err)
		}
		if len(meta) > 0 {
			_ = json.Unmarshal(meta, &u.Metadata)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *PGUploadStore) Get(ctx context.Context, id int64) (*models.Upload, error) {
	var u models.Upload
	var data, meta []byte
	err := s.pg.Pool().QueryRow(ctx, `
        SELECT id, file_name, file_size, file_type, data, metadata, COALESCE(status, 'Processed'), upload_date
        FROM data_uploads WHERE id = $1`, id,
	).Scan(&u.ID, &u.FileName, &u.FileSize, &u.FileType, &data, &meta, &u.Status, &u.UploadedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domrepo.ErrNotFound
	}
	if err != nil {
		s.logError("postgres get_upload error", err)
		return nil, fmt.Errorf("get upload: %w", err)
	}
	u.Data = data
	if len(meta) > 0 {
		_ = json.Unmarshal(meta, &u.Metadata)
	}
	return &u, nil
}

func (s *PGUploadStore) Delete(ctx context.Context, id int64) error {
	tag, err := s.pg.Pool().Exec(ctx, `DELETE FROM data_uploads WHERE id = $1`, id)
	if err != nil {
		s.logError("postgres delete_upload error", err)
		return fmt.Errorf("delete upload: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domrepo.ErrNotFound
	}
	return nil
}

func (s *PGUploadStore) logError(msg string, err error) {
	if s.l != nil {
		s.l.Error(msg, applogger.String("table", "data_uploads"), applogger.Error(err))
	}
}

// PGTradeStore serves the trade blotter from trade_data.
type PGTradeStore struct {
	pg *pkgpg.Client
	l  *applogger.Logger
}

func NewPGTradeStore(pg *pkgpg.Client) *PGTradeStore {
	return &PGTradeStore{pg: pg}
}

// SetLogger injects a structured logger.
func (s *PGTradeStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *PGTradeStore) Init(ctx context.Context) error {
	return s.pg.InitSchema(ctx, []string{`
        CREATE TABLE IF NOT EXISTS trade_data (
            id SERIAL PRIMARY KEY,
            trade_id VARCHAR(20) NOT NULL,
            customer_name VARCHAR(100) NOT NULL,
            customer_id VARCHAR(20) NOT NULL,
            type VARCHAR(10) NOT NULL,
            asset_class VARCHAR(50) NOT NULL,
            asset_name VARCHAR(100) NOT NULL,
            amount DECIMAL(15,2) NOT NULL,
            quantity DECIMAL(18,4),
            price DECIMAL(18,4),
            status VARCHAR(20) NOT NULL,
            trade_date TIMESTAMPTZ NOT NULL,
            settlement_date TIMESTAMPTZ,
            settlement_status VARCHAR(20),
            exchange VARCHAR(50),
            settlement_location VARCHAR(50),
            created_at TIMESTAMPTZ DEFAULT now()
        )`,
	})
}

func (s *PGTradeStore) Query(ctx context.Context, f models.TradeFilter) (*models.TradePage, error) {
	start := time.Now()
	nf := normalizeTradeFilter(f)
	pageQ, pageArgs, countQ, countArgs := buildTradeQuery(nf)
	pool := s.pg.Pool()

	var total int64
	if err := pool.QueryRow(ctx, countQ, countArgs...).Scan(&total); err != nil {
		s.logError("postgres count_trades error", err)
		return nil, fmt.Errorf("count trades: %w", err)
	}

	rows, err := pool.Query(ctx, pageQ, pageArgs...)
	if err != nil {
		s.logError("postgres query_trades error", err)
		return nil, fmt.Errorf("query trades: %w", err)
	}
	trades := make([]models.Trade, 0, nf.Limit)
	for rows.Next() {
		var t models.Trade
		if err := rows.Scan(&t.TradeID, &t.TradeDate, &t.CustomerID, &t.CustomerName, &t.AssetName, &t.AssetClass, &t.Type,
			&t.Amount, &t.Quantity, &t.Price, &t.Status, &t.SettlementDate,
			&t.SettlementStatus, &t.Exchange, &t.SettlementLocation); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan trade: %w", err)
		}
		trades = append(trades, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	page := &models.TradePage{
		Trades: trades,
		Pagination: models.Pagination{
			Total:  total,
			Limit:  nf.Limit,
			Offset: nf.Offset,
			Pages:  pageCount(total, nf.Limit),
		},
	}

	err = pool.QueryRow(ctx, `
        SELECT COUNT(*),
            COUNT(*) FILTER (WHERE status = 'Completed'),
            COUNT(*) FILTER (WHERE status = 'Pending'),
            COUNT(*) FILTER (WHERE status = 'Processing'),
            COALESCE(SUM(amount), 0)
        FROM trade_data`,
	).Scan(&page.Stats.TotalTrades, &page.Stats.CompletedTrades, &page.Stats.PendingTrades,
		&page.Stats.ProcessingTrades, &page.Stats.TotalVolume)
	if err != nil {
		s.logError("postgres trade_stats error", err)
		return nil, fmt.Errorf("trade stats: %w", err)
	}

	crow, err := pool.Query(ctx, `
        SELECT asset_class, COUNT(*), COALESCE(SUM(amount), 0)
        FROM trade_data
        GROUP BY asset_class
        ORDER BY COUNT(*) DESC, asset_class ASC`)
	if err != nil {
		s.logError("postgres asset_classes error", err)
		return nil, fmt.Errorf("asset classes: %w", err)
	}
	defer crow.Close()
	for crow.Next() {
		var a models.AssetClassSummary
		if err := crow.Scan(&a.Label, &a.Count, &a.Volume); err != nil {
			return nil, fmt.Errorf("scan asset class: %w", err)
		}
		page.AssetClasses = append(page.AssetClasses, a)
	}
	if err := crow.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	if s.l != nil {
		s.l.Debug("postgres query_trades ok",
			applogger.Int("rows", len(trades)),
			applogger.Int64("total", total),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return page, nil
}

func (s *PGTradeStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.pg.Pool().QueryRow(ctx, `SELECT COUNT(*) FROM trade_data`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count trades: %w", err)
	}
	return n, nil
}

// Insert bulk loads trades with COPY.
func (s *PGTradeStore) Insert(ctx context.Context, trades []models.Trade) error {
	if len(trades) == 0 {
		return nil
	}
	cols := []string{"trade_id", "customer_name", "customer_id", "type", "asset_class", "asset_name",
		"amount", "quantity", "price", "status", "trade_date", "settlement_date",
		"settlement_status", "exchange", "settlement_location"}
	rows := make([][]any, 0, len(trades))
	for _, t := range trades {
		rows = append(rows, []any{t.TradeID, t.CustomerName, t.CustomerID, t.Type, t.AssetClass, t.AssetName,
			t.Amount.String(), t.Quantity.String(), t.Price.String(), t.Status, t.TradeDate, t.SettlementDate,
			t.SettlementStatus, t.Exchange, t.SettlementLocation})
	}
	return s.pg.InTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.CopyFrom(ctx, pgx.Identifier{"trade_data"}, cols, pgx.CopyFromRows(rows)); err != nil {
			s.logError("postgres copy_trades error", err)
			return fmt.Errorf("copy trades: %w", err)
		}
		return nil
	})
}

func (s *PGTradeStore) logError(msg string, err error) {
	if s.l != nil {
		s.l.Error(msg, applogger.String("table", "trade_data"), applogger.Error(err))
	}
}
