package publisher

import (
	"context"
	"encoding/json"

	"github.com/fekuna/omnipos-storefront-service/internal/model"
)

// MessageWriter is satisfied by broker.KafkaProducer.
type MessageWriter interface {
	Publish(ctx context.Context, key string, value []byte) error
}

// KafkaPublisher writes OrderCompleted events keyed by cart session.
type KafkaPublisher struct {
	writer MessageWriter
}

func NewKafkaPublisher(writer MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: writer}
}

func (p *KafkaPublisher) PublishOrderCompleted(ctx context.Context, event model.OrderCompletedEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.writer.Publish(ctx, event.Payload.CartSession, value)
}
