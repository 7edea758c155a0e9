package ws

import (
	"context"
	"encoding/json"
	"time"

	"github.com/guruqool/gurukul/internal/infrastructure/logging"
	"github.com/guruqool/gurukul/internal/infrastructure/metrics"
)

// timeLayout is the hour:minute stamp applied to relayed messages,
// rendered in the server's local time.
const timeLayout = "15:04"

type inboundEvent struct {
	client *Client
	env    inboundEnvelope
}

// Core runs the relay loop. All registry mutations happen on this loop,
// so events from a single connection are processed in the order they
// arrive and no further locking is needed in the handlers below.
type Core struct {
	registry   *Registry
	logger     logging.Logger
	register   chan *Client
	unregister chan *Client
	events     chan inboundEvent
	done       chan struct{}
}

func NewCore(registry *Registry, logger logging.Logger) *Core {
	return &Core{
		registry:   registry,
		logger:     logger,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		events:     make(chan inboundEvent, 256),
		done:       make(chan struct{}),
	}
}

func (c *Core) Run(ctx context.Context) {
	defer close(c.done)

	for {
		select {
		case <-ctx.Done():
			return

		case cl := <-c.register:
			metrics.RelayConnections.Inc()
			c.logger.Debug(logging.Relay, logging.RoomJoin, "client connected", map[logging.ExtraKey]any{
				"clientId": cl.ID,
			})

		case cl := <-c.unregister:
			c.registry.RemoveClient(cl)
			cl.closeOutbound()
			metrics.RelayConnections.Dec()

		case ev := <-c.events:
			c.dispatch(ev)
		}
	}
}

func (c *Core) dispatch(ev inboundEvent) {
	switch ev.env.Event {
	case EventJoinRoom:
		c.handleJoinRoom(ev)
	case EventSendMessage:
		c.handleSendMessage(ev)
	default:
		c.dropMalformed(ev.client, ev.env.Event, "unknown event")
	}
}

func (c *Core) handleJoinRoom(ev inboundEvent) {
	var payload JoinRoomPayload
	if err := json.Unmarshal(ev.env.Data, &payload); err != nil {
		c.dropMalformed(ev.client, ev.env.Event, err.Error())
		return
	}
	if err := payload.Validate(); err != nil {
		c.dropMalformed(ev.client, ev.env.Event, err.Error())
		return
	}

	c.registry.Join(ev.client, payload.ChatID)
}

func (c *Core) handleSendMessage(ev inboundEvent) {
	var payload SendMessagePayload
	if err := json.Unmarshal(ev.env.Data, &payload); err != nil {
		c.dropMalformed(ev.client, ev.env.Event, err.Error())
		return
	}
	if err := payload.Validate(); err != nil {
		c.dropMalformed(ev.client, ev.env.Event, err.Error())
		return
	}

	out := NewReceiveMessage(payload.SenderID, payload.Message, time.Now().Format(timeLayout))
	c.registry.Broadcast(payload.ChatID, ev.client, out)
}

// Malformed events are dropped, not propagated to room members.
func (c *Core) dropMalformed(cl *Client, event, reason string) {
	metrics.RelayEventsMalformed.Inc()
	c.logger.Warn(logging.Relay, logging.Broadcast, "dropping malformed event", map[logging.ExtraKey]any{
		"clientId": cl.ID,
		"event":    event,
		"reason":   reason,
	})
}

func (c *Core) Register() chan<- *Client {
	return c.register
}

func (c *Core) Unregister() chan<- *Client {
	return c.unregister
}

// Done is closed once the relay loop has exited.
func (c *Core) Done() <-chan struct{} {
	return c.done
}
