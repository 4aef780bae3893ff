package repository

import (
	"context"
	"strconv"

	"SmartBank/internal/domain/models"
	pkgkafka "SmartBank/pkg/kafka"
	"SmartBank/pkg/queue"
)

// KafkaEventPublisher publishes upload events to a Kafka topic keyed by
// upload id.
type KafkaEventPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaEventPublisher(producer *pkgkafka.Producer, topic string) *KafkaEventPublisher {
	return &KafkaEventPublisher{producer: producer, topic: topic}
}

func (p *KafkaEventPublisher) PublishUploadEvent(ctx context.Context, ev models.UploadEvent) error {
	return p.producer.PublishBatch(ctx, p.topic, []pkgkafka.Message{{
		Key:   []byte(strconv.FormatInt(ev.UploadID, 10)),
		Value: ev,
		Headers: map[string]string{
			pkgkafka.HeaderEventID: ev.EventID,
			pkgkafka.HeaderType:    ev.Type,
		},
	}})
}

func (p *KafkaEventPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// QueueEventPublisher pushes upload events onto the Redis queue.
type QueueEventPublisher struct {
	q queue.QueueService
}

func NewQueueEventPublisher(q queue.QueueService) *QueueEventPublisher {
	return &QueueEventPublisher{q: q}
}

func (p *QueueEventPublisher) PublishUploadEvent(ctx context.Context, ev models.UploadEvent) error {
	return p.q.PublishMessage(ctx, ev.Type, ev)
}

// Close is a no-op; the queue is stopped by its owner.
func (p *QueueEventPublisher) Close() error { return nil }

// NoopEventPublisher drops events. Used when no backend is configured.
type NoopEventPublisher struct{}

func (NoopEventPublisher) PublishUploadEvent(context.Context, models.UploadEvent) error { return nil }

func (NoopEventPublisher) Close() error { return nil }
