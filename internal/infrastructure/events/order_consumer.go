package events

import (
	"context"
	"encoding/json"

	"github.com/guruqool/gurukul/internal/domain"
	"github.com/guruqool/gurukul/internal/infrastructure/contracts"
	"github.com/guruqool/gurukul/internal/infrastructure/logging"
	"github.com/guruqool/gurukul/internal/infrastructure/messaging"
	"github.com/rabbitmq/amqp091-go"
)

// OrderConsumer drains order events into the transaction audit trail so
// the HTTP request path never waits on Mongo.
type OrderConsumer struct {
	rabbitmq     *messaging.RabbitMQ
	transactions domain.TransactionRepository
	logger       logging.Logger
}

func NewOrderConsumer(rabbitmq *messaging.RabbitMQ, transactions domain.TransactionRepository, logger logging.Logger) *OrderConsumer {
	return &OrderConsumer{
		rabbitmq:     rabbitmq,
		transactions: transactions,
		logger:       logger,
	}
}

func (c *OrderConsumer) Listen() error {
	return c.rabbitmq.ConsumeMessages(messaging.OrdersQueue, func(ctx context.Context, msg amqp091.Delivery) error {
		var message contracts.AmqpMessage
		if err := json.Unmarshal(msg.Body, &message); err != nil {
			c.logger.Warnf("failed to unmarshal amqp message: %v", err)
			return err
		}

		var payload messaging.OrderEventData
		if err := json.Unmarshal(message.Data, &payload); err != nil {
			c.logger.Warnf("failed to unmarshal order event: %v", err)
			return err
		}

		if err := c.transactions.Create(ctx, &payload.Record); err != nil {
			c.logger.Error(logging.Mongo, logging.ExternalService, "failed to record transaction", map[logging.ExtraKey]any{
				"receipt":            payload.Record.Receipt,
				logging.ErrorMessage: err.Error(),
			})
			return err
		}

		return nil
	})
}
