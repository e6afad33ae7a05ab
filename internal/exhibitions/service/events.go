package service

import (
	"context"

	"galleria/pkg/kafka"
	"galleria/pkg/model"
)

const eventSchemaVersion = "1"

// kafkaEventPublisher publishes exhibition events keyed by location so all
// events for one location land on one partition in order.
type kafkaEventPublisher struct {
	producer *kafka.Producer
	source   string
}

func NewKafkaEventPublisher(producer *kafka.Producer, source string) EventPublisher {
	return &kafkaEventPublisher{
		producer: producer,
		source:   source,
	}
}

func (p *kafkaEventPublisher) PublishExhibitionEvent(ctx context.Context, eventType string, exhibition *model.Exhibition) error {
	msg := kafka.NewMessage().
		WithKey(exhibition.LocationID).
		WithValue(exhibition).
		WithEventType(eventType).
		WithSchemaVersion(eventSchemaVersion).
		WithSource(p.source).
		Build()

	return p.producer.Publish(ctx, msg)
}
