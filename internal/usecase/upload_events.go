package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"SmartBank/internal/domain/models"
	domrepo "SmartBank/internal/domain/repository"
	"SmartBank/pkg/queue"
)

// UploadEventHandler consumes upload events from Kafka or the Redis queue and
// creates the matching notification.
type UploadEventHandler struct {
	topic         string
	notifications *NotificationUseCase
	metrics       domrepo.Metrics
}

func NewUploadEventHandler(topic string, notifications *NotificationUseCase, metrics domrepo.Metrics) *UploadEventHandler {
	return &UploadEventHandler{topic: topic, notifications: notifications, metrics: metrics}
}

func (h *UploadEventHandler) Topic() string { return h.topic }

func (h *UploadEventHandler) Name() string { return "upload_notification" }

func (h *UploadEventHandler) Type() string { return models.EventUploadProcessed }

// Handle accepts a JSON models.UploadEvent.
func (h *UploadEventHandler) Handle(ctx context.Context, b []byte) error {
	var ev models.UploadEvent
	if err := json.Unmarshal(b, &ev); err != nil {
		h.recordError("consumer_unmarshal")
		return fmt.Errorf("decode upload event: %w", err)
	}
	if ev.Type != "" && ev.Type != models.EventUploadProcessed {
		return nil
	}
	if !ev.OccurredAt.IsZero() && h.metrics != nil {
		h.metrics.RecordLatency("upload_event_lag", time.Since(ev.OccurredAt).Seconds())
	}
	if err := h.notifications.HandleUploadEvent(ctx, ev); err != nil {
		h.recordError("consumer_notify")
		return err
	}
	return nil
}

// Job adapts the handler to the Redis queue.
func (h *UploadEventHandler) Job() queue.Job {
	return queue.JobFunc{
		JobName: h.Name(),
		MsgType: h.Type(),
		Fn: func(ctx context.Context, payload json.RawMessage) error {
			return h.Handle(ctx, payload)
		},
	}
}

func (h *UploadEventHandler) recordError(kind string) {
	if h.metrics != nil {
		h.metrics.RecordError(kind)
	}
}
