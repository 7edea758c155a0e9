package ws

import (
	"encoding/json"

	"github.com/guruqool/gurukul/internal/infrastructure/validate"
)

// Envelope is the wire frame for outbound events.
type Envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// inboundEnvelope defers payload decoding until the event name is known.
type inboundEnvelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Payload structs
type JoinRoomPayload struct {
	ChatID string `json:"chatId"`
}

type SendMessagePayload struct {
	ChatID   string `json:"chatId"`
	SenderID string `json:"senderId"`
	Message  string `json:"message"`
}

// ChatMessage is what room members receive. It exists only for the
// duration of the relay and is never persisted.
type ChatMessage struct {
	Sender  string `json:"sender"`
	Message string `json:"message"`
	Time    string `json:"time"`
}

func (p JoinRoomPayload) Validate() error {
	return validate.Field("chatId",
		validate.Required(),
		validate.MaxLength(128),
	)(p.ChatID)
}

func (p SendMessagePayload) Validate() error {
	if err := validate.Field("chatId", validate.Required(), validate.MaxLength(128))(p.ChatID); err != nil {
		return err
	}
	if err := validate.Field("senderId", validate.Required(), validate.MaxLength(128))(p.SenderID); err != nil {
		return err
	}
	return validate.Field("message", validate.Required())(p.Message)
}

func NewReceiveMessage(sender, message, timestamp string) *Envelope {
	return &Envelope{
		Event: EventReceiveMessage,
		Data: ChatMessage{
			Sender:  sender,
			Message: message,
			Time:    timestamp,
		},
	}
}
