package ws

import (
	"sync"

	"github.com/guruqool/gurukul/internal/infrastructure/metrics"
)

// Registry owns room membership: which clients are currently joined to
// which chat identifier. Rooms are not persisted entities; one comes
// into existence on first join and disappears once its last member
// leaves. The relay core is the only writer, readers (presence) may
// query concurrently.
type Registry struct {
	rooms  map[string]map[*Client]struct{}
	byConn map[*Client]map[string]struct{}
	mu     sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{
		rooms:  make(map[string]map[*Client]struct{}),
		byConn: make(map[*Client]map[string]struct{}),
	}
}

// Join adds the client to the room's membership set. Joining a room the
// client is already in is a no-op. A departed client cannot join: its
// join event may still be queued behind the disconnect, and re-adding
// it would leave a closed channel in the room.
func (reg *Registry) Join(cl *Client, chatID string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if cl.isClosed() {
		return
	}

	room, ok := reg.rooms[chatID]
	if !ok {
		room = make(map[*Client]struct{})
		reg.rooms[chatID] = room
	}
	room[cl] = struct{}{}

	joined, ok := reg.byConn[cl]
	if !ok {
		joined = make(map[string]struct{})
		reg.byConn[cl] = joined
	}
	joined[chatID] = struct{}{}
}

func (reg *Registry) Leave(cl *Client, chatID string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	reg.leaveLocked(cl, chatID)
}

// RemoveClient clears the client from every room it joined. Called on
// disconnect; peers are not notified.
func (reg *Registry) RemoveClient(cl *Client) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	for chatID := range reg.byConn[cl] {
		reg.leaveLocked(cl, chatID)
	}
	delete(reg.byConn, cl)
}

func (reg *Registry) leaveLocked(cl *Client, chatID string) {
	room, ok := reg.rooms[chatID]
	if !ok {
		return
	}

	delete(room, cl)
	if len(room) == 0 {
		delete(reg.rooms, chatID)
	}

	if joined, ok := reg.byConn[cl]; ok {
		delete(joined, chatID)
	}
}

// Members returns the current membership count for a room.
func (reg *Registry) Members(chatID string) int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	return len(reg.rooms[chatID])
}

// Broadcast delivers the envelope to every member of the room except
// the sender. A room with no other members is a silent no-op. Slow
// clients have the message dropped rather than blocking the relay.
func (reg *Registry) Broadcast(chatID string, sender *Client, env *Envelope) int {
	reg.mu.RLock()
	room, ok := reg.rooms[chatID]
	if !ok {
		reg.mu.RUnlock()
		return 0
	}

	recipients := make([]*Client, 0, len(room))
	for cl := range room {
		if cl == sender {
			continue
		}
		recipients = append(recipients, cl)
	}
	reg.mu.RUnlock()

	delivered := 0
	for _, cl := range recipients {
		select {
		case cl.Message <- env:
			delivered++
			metrics.RelayMessagesDelivered.Inc()
		default:
			// Client is too slow, drop the message
			metrics.RelayMessagesDropped.Inc()
		}
	}

	return delivered
}
