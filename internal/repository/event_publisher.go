package repository

import (
	"context"

	"MarketLens/internal/domain/models"
	drepo "MarketLens/internal/domain/repository"
	"MarketLens/pkg/config"
	appkafka "MarketLens/pkg/kafka"
)

// KafkaPublisher fans refresh events out to the configured topic, keyed by
// event kind so downstream consumers can partition by job type.
type KafkaPublisher struct {
	producer *appkafka.Producer
	topic    string
}

func NewKafkaPublisher(cfg *config.Config) (*KafkaPublisher, error) {
	producer, err := appkafka.NewProducer(
		appkafka.WithBrokers(cfg.Kafka.Brokers),
		appkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		appkafka.WithCompression(cfg.Kafka.Compression),
		appkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, err
	}
	return &KafkaPublisher{producer: producer, topic: cfg.Kafka.Topic}, nil
}

func (p *KafkaPublisher) PublishRefresh(ctx context.Context, ev models.RefreshEvent) error {
	return p.producer.Publish(ctx, p.topic, []byte(ev.Kind), ev)
}

func (p *KafkaPublisher) Close() error { return p.producer.Close() }

// NoopPublisher stands in when Kafka is disabled.
type NoopPublisher struct{}

func (NoopPublisher) PublishRefresh(context.Context, models.RefreshEvent) error { return nil }
func (NoopPublisher) Close() error                                              { return nil }

var (
	_ drepo.EventPublisher = (*KafkaPublisher)(nil)
	_ drepo.EventPublisher = NoopPublisher{}
)
