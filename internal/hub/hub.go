package hub

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/sirupsen/logrus"

	"chatrelay/internal/common"
	"chatrelay/internal/message"
	"chatrelay/internal/metrics"
	"chatrelay/internal/presence"
	"chatrelay/internal/room"
	"chatrelay/internal/typing"
)

// Deps are the services the hub routes inbound frames to. They are bound
// after construction because the same services broadcast through the hub.
type Deps struct {
	Messages message.Service
	Rooms    room.Service
	Typing   *typing.Tracker
	Presence *presence.Tracker
}

// Hub maintains the set of active clients, indexed by room and by user, and
// fans server events out to them. It implements common.RoomBroadcaster.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]bool
	users map[string]map[*Client]bool

	deps Deps
}

func NewHub() *Hub {
	return &Hub{
		rooms: make(map[string]map[*Client]bool),
		users: make(map[string]map[*Client]bool),
	}
}

// Bind attaches the services. Must be called before the first connection.
func (h *Hub) Bind(deps Deps) {
	h.deps = deps
}

// Register adds a freshly upgraded client: it is subscribed to every room
// the user actively participates in and the presence tracker is told about
// the connection.
func (h *Hub) Register(ctx context.Context, client *Client) {
	roomIDs, err := h.deps.Rooms.RoomIDsForUser(ctx, client.userID)
	if err != nil {
		logrus.WithError(err).WithField("user_id", client.userID).Warn("hub: room lookup on register failed")
	}

	h.mu.Lock()
	if h.users[client.userID] == nil {
		h.users[client.userID] = make(map[*Client]bool)
	}
	h.users[client.userID][client] = true
	for _, roomID := range roomIDs {
		h.subscribeLocked(client, roomID)
	}
	h.mu.Unlock()

	metrics.ActiveConnections.Inc()
	h.deps.Presence.Connected(ctx, client.userID)

	logrus.WithFields(logrus.Fields{
		"user_id": client.userID,
		"rooms":   len(roomIDs),
	}).Info("hub: client registered")
}

// Unregister removes a client from every index and closes its send channel.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	if _, ok := h.users[client.userID][client]; !ok {
		h.mu.Unlock()
		return // already gone
	}
	delete(h.users[client.userID], client)
	if len(h.users[client.userID]) == 0 {
		delete(h.users, client.userID)
	}
	for roomID := range client.subscriptions {
		if clients, ok := h.rooms[roomID]; ok {
			delete(clients, client)
			if len(clients) == 0 {
				delete(h.rooms, roomID)
			}
		}
	}
	client.closeSend()
	h.mu.Unlock()

	metrics.ActiveConnections.Dec()
	h.deps.Typing.StopAllForUser(client.userID)
	h.deps.Presence.Disconnected(context.Background(), client.userID)

	logrus.WithField("user_id", client.userID).Info("hub: client unregistered")
}

// Subscribe attaches a client to a room's broadcast set.
func (h *Hub) Subscribe(client *Client, roomID string) {
	h.mu.Lock()
	h.subscribeLocked(client, roomID)
	h.mu.Unlock()
}

func (h *Hub) subscribeLocked(client *Client, roomID string) {
	if h.rooms[roomID] == nil {
		h.rooms[roomID] = make(map[*Client]bool)
	}
	h.rooms[roomID][client] = true
	client.subscriptions[roomID] = true
}

// Unsubscribe detaches a client from a room's broadcast set. Membership in
// the registry is untouched; this is socket-level only.
func (h *Hub) Unsubscribe(client *Client, roomID string) {
	h.mu.Lock()
	if clients, ok := h.rooms[roomID]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.rooms, roomID)
		}
	}
	delete(client.subscriptions, roomID)
	h.mu.Unlock()
}

// BroadcastToRoom delivers an event to every client subscribed to the room.
// Clients that cannot keep up are dropped rather than blocking the rest.
func (h *Hub) BroadcastToRoom(roomID string, event common.ServerEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		logrus.WithError(err).Warn("hub: failed to marshal event")
		return
	}

	h.mu.RLock()
	var slow []*Client
	for client := range h.rooms[roomID] {
		if !client.trySend(payload) {
			slow = append(slow, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range slow {
		metrics.DroppedClients.Inc()
		logrus.WithField("user_id", client.userID).Warn("hub: dropping slow client")
		h.drop(client)
	}
}

// SendToUser delivers an event to every connection of one user.
func (h *Hub) SendToUser(userID string, event common.ServerEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		logrus.WithError(err).Warn("hub: failed to marshal event")
		return
	}

	h.mu.RLock()
	var slow []*Client
	for client := range h.users[userID] {
		if !client.trySend(payload) {
			slow = append(slow, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range slow {
		metrics.DroppedClients.Inc()
		h.drop(client)
	}
}

// drop evicts a client that cannot keep up. The connection is closed so the
// pumps unwind instead of hanging on a dead peer.
func (h *Hub) drop(client *Client) {
	h.Unregister(client)
	if client.conn != nil {
		client.conn.Close()
	}
}

// ConnectionCount reports registered connections for a user.
func (h *Hub) ConnectionCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.users[userID])
}
