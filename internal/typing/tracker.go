package typing

import (
	"sync"
	"time"

	"chatrelay/internal/common"
)

// Tracker manages ephemeral typing indicators. Each (room, user) pair owns a
// cancellable timer: without an explicit stop the indicator self-expires
// after the configured timeout (3s by default).
type Tracker struct {
	broadcaster common.RoomBroadcaster
	timeout     time.Duration

	mu     sync.Mutex
	timers map[key]*time.Timer
	closed bool
}

type key struct {
	roomID string
	userID string
}

func NewTracker(broadcaster common.RoomBroadcaster, timeout time.Duration) *Tracker {
	return &Tracker{
		broadcaster: broadcaster,
		timeout:     timeout,
		timers:      make(map[key]*time.Timer),
	}
}

// Start begins or extends a typing indicator. Only the first Start of a
// burst is broadcast; repeated starts just re-arm the expiry timer.
func (t *Tracker) Start(roomID, userID string) {
	k := key{roomID: roomID, userID: userID}

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	if timer, ok := t.timers[k]; ok {
		timer.Reset(t.timeout)
		t.mu.Unlock()
		return
	}
	t.timers[k] = time.AfterFunc(t.timeout, func() {
		t.expire(k)
	})
	t.mu.Unlock()

	t.broadcast(common.EventTypingStart, roomID, userID)
}

// Stop cancels the indicator and broadcasts the stop immediately.
func (t *Tracker) Stop(roomID, userID string) {
	k := key{roomID: roomID, userID: userID}

	t.mu.Lock()
	timer, ok := t.timers[k]
	if ok {
		timer.Stop()
		delete(t.timers, k)
	}
	t.mu.Unlock()

	if ok {
		t.broadcast(common.EventTypingStop, roomID, userID)
	}
}

// StopAllForUser clears every indicator a disconnecting user left behind.
func (t *Tracker) StopAllForUser(userID string) {
	t.mu.Lock()
	var stopped []key
	for k, timer := range t.timers {
		if k.userID == userID {
			timer.Stop()
			delete(t.timers, k)
			stopped = append(stopped, k)
		}
	}
	t.mu.Unlock()

	for _, k := range stopped {
		t.broadcast(common.EventTypingStop, k.roomID, k.userID)
	}
}

// Shutdown cancels every timer without broadcasting.
func (t *Tracker) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	for k, timer := range t.timers {
		timer.Stop()
		delete(t.timers, k)
	}
}

func (t *Tracker) expire(k key) {
	t.mu.Lock()
	_, ok := t.timers[k]
	if ok {
		delete(t.timers, k)
	}
	t.mu.Unlock()

	if ok {
		t.broadcast(common.EventTypingStop, k.roomID, k.userID)
	}
}

func (t *Tracker) broadcast(event, roomID, userID string) {
	if t.broadcaster == nil {
		return
	}
	t.broadcaster.BroadcastToRoom(roomID, common.ServerEvent{
		Event: event,
		Data: map[string]interface{}{
			"room_id": roomID,
			"user_id": userID,
		},
	})
}
