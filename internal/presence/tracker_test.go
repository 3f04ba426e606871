package presence

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"chatrelay/internal/common"
	"chatrelay/internal/room/mocks"
)

// memoryStore is an in-process Store with the same last-write-wins rule the
// Redis script enforces.
type memoryStore struct {
	mu     sync.Mutex
	status map[string]common.PresenceStatus
	seenAt map[string]time.Time
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		status: make(map[string]common.PresenceStatus),
		seenAt: make(map[string]time.Time),
	}
}

func (s *memoryStore) Set(ctx context.Context, userID string, status common.PresenceStatus, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.seenAt[userID]; ok && existing.After(at) {
		return false, nil
	}
	s.status[userID] = status
	s.seenAt[userID] = at
	return true, nil
}

func (s *memoryStore) Get(ctx context.Context, userID string) (common.PresenceStatus, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	status, ok := s.status[userID]
	if !ok {
		return common.PresenceOffline, time.Time{}, nil
	}
	return status, s.seenAt[userID], nil
}

type recordingBroadcaster struct {
	mu     sync.Mutex
	rooms  []string
	events []common.ServerEvent
}

func (b *recordingBroadcaster) BroadcastToRoom(roomID string, event common.ServerEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rooms = append(b.rooms, roomID)
	b.events = append(b.events, event)
}

func (b *recordingBroadcaster) SendToUser(userID string, event common.ServerEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func (b *recordingBroadcaster) broadcastCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.events)
}

func TestTracker_FirstConnectionBroadcastsOnline(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	rooms := mocks.NewMockService(ctrl)
	rooms.EXPECT().RoomIDsForUser(gomock.Any(), "user-a").
		Return([]string{"room-1", "room-2"}, nil)

	store := newMemoryStore()
	broadcaster := &recordingBroadcaster{}
	tracker := NewTracker(store, rooms, broadcaster, time.Hour)
	defer tracker.Stop()

	tracker.Connected(context.Background(), "user-a")

	status, _, err := store.Get(context.Background(), "user-a")
	assert.NoError(t, err)
	assert.Equal(t, common.PresenceOnline, status)
	assert.Equal(t, []string{"room-1", "room-2"}, broadcaster.rooms)
}

func TestTracker_SecondConnectionIsSilent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	rooms := mocks.NewMockService(ctrl)
	rooms.EXPECT().RoomIDsForUser(gomock.Any(), "user-a").
		Return([]string{"room-1"}, nil).Times(1)

	store := newMemoryStore()
	broadcaster := &recordingBroadcaster{}
	tracker := NewTracker(store, rooms, broadcaster, time.Hour)
	defer tracker.Stop()

	tracker.Connected(context.Background(), "user-a")
	tracker.Connected(context.Background(), "user-a")

	assert.Equal(t, 1, broadcaster.broadcastCount(), "second tab must not rebroadcast online")
}

func TestTracker_DisconnectIsDebounced(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	rooms := mocks.NewMockService(ctrl)
	rooms.EXPECT().RoomIDsForUser(gomock.Any(), "user-a").
		Return([]string{"room-1"}, nil).AnyTimes()

	store := newMemoryStore()
	broadcaster := &recordingBroadcaster{}
	tracker := NewTracker(store, rooms, broadcaster, 30*time.Millisecond)
	defer tracker.Stop()

	ctx := context.Background()
	tracker.Connected(ctx, "user-a")
	tracker.Disconnected(ctx, "user-a")

	// still online inside the debounce window
	status, _, _ := store.Get(ctx, "user-a")
	assert.Equal(t, common.PresenceOnline, status)

	assert.Eventually(t, func() bool {
		status, _, _ := store.Get(ctx, "user-a")
		return status == common.PresenceOffline
	}, time.Second, 5*time.Millisecond, "offline lands once the window passes")
}

func TestTracker_ReconnectCancelsOffline(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	rooms := mocks.NewMockService(ctrl)
	rooms.EXPECT().RoomIDsForUser(gomock.Any(), "user-a").
		Return([]string{"room-1"}, nil).AnyTimes()

	store := newMemoryStore()
	broadcaster := &recordingBroadcaster{}
	tracker := NewTracker(store, rooms, broadcaster, 40*time.Millisecond)
	defer tracker.Stop()

	ctx := context.Background()
	tracker.Connected(ctx, "user-a")
	tracker.Disconnected(ctx, "user-a")
	tracker.Connected(ctx, "user-a")

	time.Sleep(100 * time.Millisecond)

	status, _, _ := store.Get(ctx, "user-a")
	assert.Equal(t, common.PresenceOnline, status, "reconnect inside the window suppresses offline")
	assert.Equal(t, 1, broadcaster.broadcastCount(), "only the original online broadcast happened")
}

func TestTracker_MultipleConnectionsOneUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	rooms := mocks.NewMockService(ctrl)
	rooms.EXPECT().RoomIDsForUser(gomock.Any(), "user-a").
		Return([]string{"room-1"}, nil).AnyTimes()

	store := newMemoryStore()
	tracker := NewTracker(store, rooms, &recordingBroadcaster{}, 20*time.Millisecond)
	defer tracker.Stop()

	ctx := context.Background()
	tracker.Connected(ctx, "user-a")
	tracker.Connected(ctx, "user-a")
	tracker.Disconnected(ctx, "user-a")

	// one connection is still open, offline must never fire
	time.Sleep(80 * time.Millisecond)
	status, _, _ := store.Get(ctx, "user-a")
	assert.Equal(t, common.PresenceOnline, status)
}

func TestTracker_Away(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	rooms := mocks.NewMockService(ctrl)
	rooms.EXPECT().RoomIDsForUser(gomock.Any(), "user-a").
		Return([]string{"room-1"}, nil).AnyTimes()

	store := newMemoryStore()
	tracker := NewTracker(store, rooms, &recordingBroadcaster{}, time.Hour)
	defer tracker.Stop()

	ctx := context.Background()
	tracker.Connected(ctx, "user-a")
	tracker.Away(ctx, "user-a")

	status, _, _ := store.Get(ctx, "user-a")
	assert.Equal(t, common.PresenceAway, status)
}

func TestMemoryStore_StaleWriteDropped(t *testing.T) {
	store := newMemoryStore()
	ctx := context.Background()

	now := time.Now().UTC()
	applied, err := store.Set(ctx, "user-a", common.PresenceOnline, now)
	assert.NoError(t, err)
	assert.True(t, applied)

	// an older write loses
	applied, err = store.Set(ctx, "user-a", common.PresenceOffline, now.Add(-time.Second))
	assert.NoError(t, err)
	assert.False(t, applied)

	status, _, _ := store.Get(ctx, "user-a")
	assert.Equal(t, common.PresenceOnline, status)
}
