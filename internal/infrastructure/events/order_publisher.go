package events

import (
	"context"
	"encoding/json"

	"github.com/guruqool/gurukul/internal/domain"
	"github.com/guruqool/gurukul/internal/infrastructure/contracts"
	"github.com/guruqool/gurukul/internal/infrastructure/messaging"
)

type OrderPublisher struct {
	rabbitmq *messaging.RabbitMQ
}

func NewOrderPublisher(rabbitmq *messaging.RabbitMQ) *OrderPublisher {
	return &OrderPublisher{
		rabbitmq: rabbitmq,
	}
}

func (p *OrderPublisher) PublishOrderCreated(ctx context.Context, record domain.TransactionRecord) error {
	return p.publish(ctx, contracts.EventOrderCreated, record)
}

func (p *OrderPublisher) PublishOrderFailed(ctx context.Context, record domain.TransactionRecord) error {
	return p.publish(ctx, contracts.EventOrderFailed, record)
}

func (p *OrderPublisher) publish(ctx context.Context, routingKey string, record domain.TransactionRecord) error {
	payload := messaging.OrderEventData{
		Record: record,
	}

	orderEventJSON, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return p.rabbitmq.PublishMessage(ctx, routingKey, contracts.AmqpMessage{
		Receipt: record.Receipt,
		Data:    orderEventJSON,
	})
}
