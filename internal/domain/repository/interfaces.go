package repository

import (
	"context"
	"errors"

	"SmartBank/internal/domain/models"
	"SmartBank/internal/services/timeseries"
)

// ErrNotFound is returned by stores when the requested row does not exist.
var ErrNotFound = errors.New("not found")

type NotificationStore interface {
	List(ctx context.Context, limit int) ([]models.Notification, error)
	Create(ctx context.Context, n *models.Notification) error
	MarkRead(ctx context.Context, id int64) error
	MarkAllRead(ctx context.Context) (int64, error)
}

type UploadStore interface {
	Create(ctx context.Context, u *models.Upload) error
	List(ctx context.Context, limit, offset int) ([]models.UploadSummary, error)
	Get(ctx context.Context, id int64) (*models.Upload, error)
	Delete(ctx context.Context, id int64) error
}

type TradeStore interface {
	Query(ctx context.Context, f models.TradeFilter) (*models.TradePage, error)
	Count(ctx context.Context) (int64, error)
	Insert(ctx context.Context, trades []models.Trade) error
}

// SchemaInitializer is implemented by stores that create their own tables.
type SchemaInitializer interface {
	Init(ctx context.Context) error
}

// HealthChecker is implemented by every backing store that can be pinged.
type HealthChecker interface {
	Name() string
	Health(ctx context.Context) error
}

// EventPublisher delivers domain events to the configured backend.
type EventPublisher interface {
	PublishUploadEvent(ctx context.Context, ev models.UploadEvent) error
	Close() error
}

// Notifier pushes notifications to live subscribers.
type Notifier interface {
	Broadcast(n models.Notification)
}

type Metrics interface {
	RecordFilter(series string, rule timeseries.RuleKind)
	RecordFallback(series string)
	RecordSourceHit(source, series string)
	RecordUpload(kind string)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
