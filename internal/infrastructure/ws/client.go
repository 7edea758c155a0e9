package ws

import (
	"encoding/json"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"
	"github.com/guruqool/gurukul/internal/infrastructure/logging"
	"github.com/guruqool/gurukul/internal/infrastructure/metrics"
)

type Client struct {
	conn    *connWrapper
	Message chan *Envelope
	ID      string `json:"id"`
	closed  atomic.Bool
}

func NewClient(conn *websocket.Conn, id string, buffer int, maxMessageBytes int64) *Client {
	if buffer <= 0 {
		buffer = 64
	}
	if maxMessageBytes > 0 {
		conn.SetReadLimit(maxMessageBytes)
	}

	return &Client{
		conn:    newConnWrapper(conn),
		Message: make(chan *Envelope, buffer), // buffered to avoid dead-locks on slow clients
		ID:      id,
	}
}

// closeOutbound marks the client as departed and releases its write
// pump. Safe to call more than once.
func (c *Client) closeOutbound() {
	if c.closed.CompareAndSwap(false, true) {
		close(c.Message)
	}
}

func (c *Client) isClosed() bool {
	return c.closed.Load()
}

// detach hands the connection back to the relay loop for cleanup, or
// cleans up locally when the loop has already exited.
func (c *Client) detach(core *Core) {
	select {
	case core.unregister <- c:
	case <-core.done:
		c.closeOutbound()
	}
}

// ReadMessage pumps inbound frames into the relay core. Frames that are
// not valid JSON envelopes are counted and skipped.
func (c *Client) ReadMessage(core *Core) {
	defer func() {
		c.detach(core)
		_ = c.conn.Close()
	}()

	for {
		_, raw, err := c.conn.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				core.logger.Warn(logging.Relay, logging.Broadcast, "ws read error", map[logging.ExtraKey]any{
					"clientId":           c.ID,
					logging.ErrorMessage: err.Error(),
				})
			}
			break
		}

		var env inboundEnvelope
		if err := json.Unmarshal(raw, &env); err != nil {
			metrics.RelayEventsMalformed.Inc()
			continue
		}

		core.events <- inboundEvent{client: c, env: env}
	}
}

func (c *Client) WriteMessage() {
	defer func() {
		_ = c.conn.Close()
	}()

	for env := range c.Message {
		if err := c.conn.WriteJSON(env); err != nil {
			break
		}
	}
}

// connWrapper serializes writes; gorilla connections allow only one
// concurrent writer.
type connWrapper struct {
	conn  *websocket.Conn
	mutex sync.Mutex
}

func newConnWrapper(c *websocket.Conn) *connWrapper {
	return &connWrapper{conn: c}
}

func (w *connWrapper) WriteJSON(v any) error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.conn.WriteJSON(v)
}

func (w *connWrapper) Close() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.conn.Close()
}
