package repository

import (
	"context"

	"NoChurn/internal/domain/models"
	domrepo "NoChurn/internal/domain/repository"
	pkgkafka "NoChurn/pkg/kafka"
)

// KafkaAlertPublisher delivers alert events to the alerts topic. Messages
// are keyed by customer id so one customer's events stay ordered on a
// single partition.
type KafkaAlertPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaAlertPublisher creates the publisher.
func NewKafkaAlertPublisher(producer *pkgkafka.Producer, topic string) *KafkaAlertPublisher {
	return &KafkaAlertPublisher{producer: producer, topic: topic}
}

func (p *KafkaAlertPublisher) Publish(ctx context.Context, e *models.AlertEvent) error {
	return p.producer.Publish(ctx, p.topic, []byte(e.CustomerID), e)
}

func (p *KafkaAlertPublisher) PublishBatch(ctx context.Context, events []*models.AlertEvent) error {
	if len(events) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, 0, len(events))
	for _, e := range events {
		msgs = append(msgs, pkgkafka.Message{Key: []byte(e.CustomerID), Value: e})
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaAlertPublisher) Close() error {
	return p.producer.Close()
}

var _ domrepo.AlertPublisher = (*KafkaAlertPublisher)(nil)
