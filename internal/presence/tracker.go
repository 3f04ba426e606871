package presence

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"chatrelay/internal/common"
	"chatrelay/internal/metrics"
	"chatrelay/internal/room"
)

// Tracker observes connection lifecycle events and maintains each user's
// presence status. Disconnects are debounced so a quick reconnect does not
// flap an offline/online pair through every room the user is in.
type Tracker struct {
	store       Store
	rooms       room.Service
	broadcaster common.RoomBroadcaster
	debounce    time.Duration

	mu            sync.Mutex
	connections   map[string]int
	offlineTimers map[string]*time.Timer
	closed        bool
}

func NewTracker(store Store, rooms room.Service, broadcaster common.RoomBroadcaster, debounce time.Duration) *Tracker {
	return &Tracker{
		store:         store,
		rooms:         rooms,
		broadcaster:   broadcaster,
		debounce:      debounce,
		connections:   make(map[string]int),
		offlineTimers: make(map[string]*time.Timer),
	}
}

// Connected is called for every new client connection of a user.
func (t *Tracker) Connected(ctx context.Context, userID string) {
	t.mu.Lock()
	if timer, ok := t.offlineTimers[userID]; ok {
		// Reconnect inside the debounce window: the pending offline
		// broadcast never happens.
		timer.Stop()
		delete(t.offlineTimers, userID)
	}
	t.connections[userID]++
	first := t.connections[userID] == 1
	t.mu.Unlock()

	if !first {
		return
	}

	status, _, err := t.store.Get(ctx, userID)
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Warn("presence read failed")
	}
	if status == common.PresenceOnline {
		return // debounced reconnect, nothing changed from the outside
	}

	t.transition(ctx, userID, common.PresenceOnline, time.Now().UTC())
}

// Disconnected is called when a client connection of a user goes away.
func (t *Tracker) Disconnected(ctx context.Context, userID string) {
	t.mu.Lock()
	if t.connections[userID] > 0 {
		t.connections[userID]--
	}
	if t.connections[userID] > 0 || t.closed {
		t.mu.Unlock()
		return
	}
	delete(t.connections, userID)

	if timer, ok := t.offlineTimers[userID]; ok {
		timer.Stop()
	}
	t.offlineTimers[userID] = time.AfterFunc(t.debounce, func() {
		t.mu.Lock()
		delete(t.offlineTimers, userID)
		still := t.connections[userID] == 0
		t.mu.Unlock()
		if still {
			t.transition(context.Background(), userID, common.PresenceOffline, time.Now().UTC())
		}
	})
	t.mu.Unlock()
}

// Away marks a user away on an explicit client signal.
func (t *Tracker) Away(ctx context.Context, userID string) {
	t.transition(ctx, userID, common.PresenceAway, time.Now().UTC())
}

// Status returns the stored presence for a user.
func (t *Tracker) Status(ctx context.Context, userID string) (common.PresenceStatus, time.Time, error) {
	return t.store.Get(ctx, userID)
}

// Stop cancels all pending debounce timers.
func (t *Tracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	for userID, timer := range t.offlineTimers {
		timer.Stop()
		delete(t.offlineTimers, userID)
	}
}

func (t *Tracker) transition(ctx context.Context, userID string, status common.PresenceStatus, at time.Time) {
	applied, err := t.store.Set(ctx, userID, status, at)
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Warn("presence write failed")
		return
	}
	if !applied {
		return // a newer write already landed, ours is stale
	}

	metrics.PresenceBroadcasts.WithLabelValues(string(status)).Inc()
	t.fanOut(ctx, userID, status, at)
}

// fanOut announces the transition to every room the user participates in.
func (t *Tracker) fanOut(ctx context.Context, userID string, status common.PresenceStatus, at time.Time) {
	if t.broadcaster == nil || t.rooms == nil {
		return
	}

	roomIDs, err := t.rooms.RoomIDsForUser(ctx, userID)
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Warn("presence fan-out room lookup failed")
		return
	}

	event := common.ServerEvent{
		Event: common.EventPresenceChange,
		Data: map[string]interface{}{
			"user_id":      userID,
			"status":       status,
			"last_seen_at": at,
		},
	}
	for _, roomID := range roomIDs {
		t.broadcaster.BroadcastToRoom(roomID, event)
	}
}
