package hub

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"chatrelay/internal/common"
	"chatrelay/internal/presence"
	roommocks "chatrelay/internal/room/mocks"
	"chatrelay/internal/typing"
)

// staticStore is a minimal presence store for hub tests.
type staticStore struct {
	mu     sync.Mutex
	status map[string]common.PresenceStatus
}

func (s *staticStore) Set(ctx context.Context, userID string, status common.PresenceStatus, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == nil {
		s.status = make(map[string]common.PresenceStatus)
	}
	s.status[userID] = status
	return true, nil
}

func (s *staticStore) Get(ctx context.Context, userID string) (common.PresenceStatus, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status[userID], time.Time{}, nil
}

func newTestHub(t *testing.T, rooms *roommocks.MockService) *Hub {
	t.Helper()

	h := NewHub()
	presenceTracker := presence.NewTracker(&staticStore{}, rooms, h, time.Hour)
	typingTracker := typing.NewTracker(h, time.Hour)
	t.Cleanup(func() {
		presenceTracker.Stop()
		typingTracker.Shutdown()
	})

	h.Bind(Deps{
		Rooms:    rooms,
		Presence: presenceTracker,
		Typing:   typingTracker,
	})
	return h
}

func receive(t *testing.T, c *Client) common.ServerEvent {
	t.Helper()
	select {
	case payload := <-c.send:
		var event common.ServerEvent
		require.NoError(t, json.Unmarshal(payload, &event))
		return event
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
		return common.ServerEvent{}
	}
}

func TestHub_RegisterSubscribesUserRooms(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	rooms := roommocks.NewMockService(ctrl)
	rooms.EXPECT().RoomIDsForUser(gomock.Any(), "user-a").
		Return([]string{"room-1", "room-2"}, nil).AnyTimes()

	h := newTestHub(t, rooms)

	client := NewClient(h, nil, "user-a")
	h.Register(context.Background(), client)

	h.BroadcastToRoom("room-1", common.ServerEvent{Event: common.EventMessageCreated})
	event := receive(t, client)
	assert.Equal(t, common.EventMessageCreated, event.Event)

	assert.Equal(t, 1, h.ConnectionCount("user-a"))
}

func TestHub_BroadcastReachesOnlySubscribers(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	rooms := roommocks.NewMockService(ctrl)
	rooms.EXPECT().RoomIDsForUser(gomock.Any(), "user-a").Return([]string{"room-1"}, nil).AnyTimes()
	rooms.EXPECT().RoomIDsForUser(gomock.Any(), "user-b").Return([]string{"room-2"}, nil).AnyTimes()

	h := newTestHub(t, rooms)

	inRoom := NewClient(h, nil, "user-a")
	elsewhere := NewClient(h, nil, "user-b")
	h.Register(context.Background(), inRoom)
	h.Register(context.Background(), elsewhere)

	h.BroadcastToRoom("room-1", common.ServerEvent{Event: common.EventTypingStart})

	event := receive(t, inRoom)
	assert.Equal(t, common.EventTypingStart, event.Event)

	select {
	case <-elsewhere.send:
		t.Fatal("client outside the room received the event")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_SendToUserHitsEveryConnection(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	rooms := roommocks.NewMockService(ctrl)
	rooms.EXPECT().RoomIDsForUser(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()

	h := newTestHub(t, rooms)

	phone := NewClient(h, nil, "user-a")
	laptop := NewClient(h, nil, "user-a")
	other := NewClient(h, nil, "user-b")
	h.Register(context.Background(), phone)
	h.Register(context.Background(), laptop)
	h.Register(context.Background(), other)

	h.SendToUser("user-a", common.ServerEvent{Event: common.EventNotification})

	assert.Equal(t, common.EventNotification, receive(t, phone).Event)
	assert.Equal(t, common.EventNotification, receive(t, laptop).Event)

	select {
	case <-other.send:
		t.Fatal("another user's connection received the event")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_SubscribeAndUnsubscribe(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	rooms := roommocks.NewMockService(ctrl)
	rooms.EXPECT().RoomIDsForUser(gomock.Any(), "user-a").Return(nil, nil).AnyTimes()

	h := newTestHub(t, rooms)

	client := NewClient(h, nil, "user-a")
	h.Register(context.Background(), client)

	h.Subscribe(client, "room-9")
	h.BroadcastToRoom("room-9", common.ServerEvent{Event: common.EventMessageCreated})
	assert.Equal(t, common.EventMessageCreated, receive(t, client).Event)

	h.Unsubscribe(client, "room-9")
	h.BroadcastToRoom("room-9", common.ServerEvent{Event: common.EventMessageCreated})
	select {
	case <-client.send:
		t.Fatal("unsubscribed client received the event")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_UnregisterClosesAndForgets(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	rooms := roommocks.NewMockService(ctrl)
	rooms.EXPECT().RoomIDsForUser(gomock.Any(), "user-a").Return([]string{"room-1"}, nil).AnyTimes()

	h := newTestHub(t, rooms)

	client := NewClient(h, nil, "user-a")
	h.Register(context.Background(), client)
	require.Equal(t, 1, h.ConnectionCount("user-a"))

	h.Unregister(client)
	assert.Equal(t, 0, h.ConnectionCount("user-a"))

	_, open := <-client.send
	assert.False(t, open, "send channel must be closed on unregister")

	// double unregister is harmless
	h.Unregister(client)
}

func TestHub_SlowClientDroppedWithoutBlockingBroadcast(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	rooms := roommocks.NewMockService(ctrl)
	rooms.EXPECT().RoomIDsForUser(gomock.Any(), gomock.Any()).Return([]string{"room-1"}, nil).AnyTimes()

	h := newTestHub(t, rooms)

	fast := NewClient(h, nil, "user-a")
	slow := NewClient(h, nil, "user-b")
	h.Register(context.Background(), fast)
	h.Register(context.Background(), slow)

	// Nobody drains the slow client, so its buffer fills up.
	for i := 0; i < sendBufferSize; i++ {
		slow.send <- []byte("{}")
	}

	h.BroadcastToRoom("room-1", common.ServerEvent{Event: common.EventMessageCreated})

	assert.Equal(t, common.EventMessageCreated, receive(t, fast).Event)
	assert.Equal(t, 0, h.ConnectionCount("user-b"), "slow client must be evicted")
	assert.Equal(t, 1, h.ConnectionCount("user-a"))

	// The next broadcast still reaches the survivors.
	h.BroadcastToRoom("room-1", common.ServerEvent{Event: common.EventTypingStart})
	assert.Equal(t, common.EventTypingStart, receive(t, fast).Event)
}

func TestHub_SendErrorAfterUnregisterDoesNotPanic(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	rooms := roommocks.NewMockService(ctrl)
	rooms.EXPECT().RoomIDsForUser(gomock.Any(), "user-a").Return([]string{"room-1"}, nil).AnyTimes()

	h := newTestHub(t, rooms)

	client := NewClient(h, nil, "user-a")
	h.Register(context.Background(), client)

	// A broadcaster may evict this client while its read side is still
	// answering a rejected operation.
	h.Unregister(client)

	assert.NotPanics(t, func() {
		client.sendError(common.EventMessageSend, "forbidden", "not a member of this room")
	})
	assert.NotPanics(t, func() {
		h.BroadcastToRoom("room-1", common.ServerEvent{Event: common.EventMessageCreated})
	})
}

func TestClient_SendErrorKeepsConnection(t *testing.T) {
	client := &Client{
		send:          make(chan []byte, 1),
		subscriptions: make(map[string]bool),
		userID:        "user-a",
	}

	client.sendError(common.EventMessageSend, "forbidden", "not a member of this room")

	select {
	case payload := <-client.send:
		var frame struct {
			Event string            `json:"event"`
			Data  map[string]string `json:"data"`
		}
		require.NoError(t, json.Unmarshal(payload, &frame))
		assert.Equal(t, common.EventError, frame.Event)
		assert.Equal(t, "forbidden", frame.Data["code"])
		assert.Equal(t, common.EventMessageSend, frame.Data["for"])
	default:
		t.Fatal("error frame was not queued")
	}
}
