package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"SmartBank/internal/domain/models"
	domrepo "SmartBank/internal/domain/repository"
	applogger "SmartBank/pkg/logger"
)

var ErrNotificationNotFound = errors.New("notification not found")

const defaultNotificationLimit = 50

// NotificationUseCase lists and creates notifications and pushes new ones to
// live subscribers.
type NotificationUseCase struct {
	store    domrepo.NotificationStore
	notifier domrepo.Notifier
	l        *applogger.Logger
	limit    int
}

func NewNotificationUseCase(store domrepo.NotificationStore, notifier domrepo.Notifier, l *applogger.Logger, limit int) *NotificationUseCase {
	if l == nil {
		l = applogger.Nop()
	}
	if limit <= 0 {
		limit = defaultNotificationLimit
	}
	return &NotificationUseCase{store: store, notifier: notifier, l: l, limit: limit}
}

func (uc *NotificationUseCase) List(ctx context.Context) ([]models.Notification, error) {
	return uc.store.List(ctx, uc.limit)
}

func (uc *NotificationUseCase) MarkRead(ctx context.Context, id int64) error {
	err := uc.store.MarkRead(ctx, id)
	if errors.Is(err, domrepo.ErrNotFound) {
		return fmt.Errorf("%w: %d", ErrNotificationNotFound, id)
	}
	return err
}

func (uc *NotificationUseCase) MarkAllRead(ctx context.Context) (int64, error) {
	return uc.store.MarkAllRead(ctx)
}

// Notify stores n and broadcasts it.
func (uc *NotificationUseCase) Notify(ctx context.Context, n *models.Notification) error {
	if n.Time == "" {
		n.Time = "Just now"
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	if err := uc.store.Create(ctx, n); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	if uc.notifier != nil {
		uc.notifier.Broadcast(*n)
	}
	return nil
}

// HandleUploadEvent turns a processed upload into a notification.
func (uc *NotificationUseCase) HandleUploadEvent(ctx context.Context, ev models.UploadEvent) error {
	if ev.FileName == "" {
		return fmt.Errorf("upload event %s without file name", ev.EventID)
	}
	n := &models.Notification{
		Type:     models.NotificationSuccess,
		Message:  fmt.Sprintf("File %q successfully uploaded and processed", ev.FileName),
		Category: models.CategoryDataUploads,
	}
	if ev.Series != "" {
		n.Message = fmt.Sprintf("File %q successfully uploaded and loaded into %s", ev.FileName, ev.Series)
	}
	if err := uc.Notify(ctx, n); err != nil {
		return err
	}
	uc.l.Debug("upload notification created",
		applogger.String("event_id", ev.EventID),
		applogger.Int64("notification_id", n.ID))
	return nil
}

// LocalEventPublisher delivers upload events in-process. Used when no event
// backend is configured.
type LocalEventPublisher struct {
	notifications *NotificationUseCase
}

func NewLocalEventPublisher(n *NotificationUseCase) *LocalEventPublisher {
	return &LocalEventPublisher{notifications: n}
}

func (p *LocalEventPublisher) PublishUploadEvent(ctx context.Context, ev models.UploadEvent) error {
	return p.notifications.HandleUploadEvent(ctx, ev)
}

func (p *LocalEventPublisher) Close() error { return nil }
