package contracts

// AmqpMessage is the message structure for AMQP.
type AmqpMessage struct {
	Receipt string `json:"receipt"`
	Data    []byte `json:"data"`
}

// Routing keys - using consistent event/command patterns
const (
	EventOrderCreated = "order.created"
	EventOrderFailed  = "order.failed"
)
