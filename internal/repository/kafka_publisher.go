package repository

import (
	"context"
	"fmt"

	"SignalBoard/internal/domain/models"
	pkgkafka "SignalBoard/pkg/kafka"
)

// KafkaPublisher announces configuration changes on a Kafka topic, keyed by
// event type so each type stays ordered within its partition.
type KafkaPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaPublisher creates a publisher for topic.
func NewKafkaPublisher(p *pkgkafka.Producer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: p, topic: topic}
}

func (p *KafkaPublisher) PublishConfigEvent(ctx context.Context, ev models.ConfigEvent) error {
	if err := p.producer.Publish(ctx, p.topic, []byte(ev.Type), ev); err != nil {
		return fmt.Errorf("publish %s: %w", ev.Type, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}

// NopPublisher drops events. It is used when Kafka is disabled.
type NopPublisher struct{}

func (NopPublisher) PublishConfigEvent(context.Context, models.ConfigEvent) error { return nil }
func (NopPublisher) Close() error                                                { return nil }
