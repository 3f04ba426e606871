package notif

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"chatrelay/internal/common"
	"chatrelay/internal/dbmysql"
	"chatrelay/internal/notif/mocks"
)

func TestDatabaseObserver_ImmediateEventStoredAsSent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockNotificationRepository(ctrl)
	repo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, n *dbmysql.Notification) error {
			assert.Equal(t, common.StatusSent, n.Status)
			assert.NotNil(t, n.SentAt)
			assert.Nil(t, n.ScheduledAt)
			return nil
		})

	observer := NewDatabaseNotificationObserver(repo, nil)
	err := observer.Update(common.NotificationEvent{
		Type:    common.NotifMessageType,
		UserID:  "user-a",
		Header:  "New message",
		Content: "hello",
	})
	assert.NoError(t, err)
}

func TestDatabaseObserver_PastScheduleStoredAsSent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	past := time.Now().UTC().Add(-time.Hour)

	repo := mocks.NewMockNotificationRepository(ctrl)
	repo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, n *dbmysql.Notification) error {
			// a schedule in the past means "deliver now"
			assert.Equal(t, common.StatusSent, n.Status)
			return nil
		})

	observer := NewDatabaseNotificationObserver(repo, nil)
	err := observer.Update(common.NotificationEvent{
		Type:        common.NotifSystemType,
		UserID:      "user-a",
		Header:      "Reminder",
		Content:     "overdue",
		ScheduledAt: &past,
	})
	assert.NoError(t, err)
}

func TestDatabaseObserver_FutureScheduleStoredAsScheduled(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	future := time.Now().UTC().Add(time.Hour)

	repo := mocks.NewMockNotificationRepository(ctrl)
	repo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, n *dbmysql.Notification) error {
			assert.Equal(t, common.StatusScheduled, n.Status)
			assert.Nil(t, n.SentAt)
			assert.Equal(t, future, *n.ScheduledAt)
			return nil
		})

	// nil scheduler: the row is still stored as scheduled, enqueueing is skipped
	observer := NewDatabaseNotificationObserver(repo, nil)
	err := observer.Update(common.NotificationEvent{
		Type:        common.NotifSystemType,
		UserID:      "user-a",
		Header:      "Reminder",
		Content:     "later",
		ScheduledAt: &future,
	})
	assert.NoError(t, err)
}

func TestDatabaseObserver_CreateFailurePropagates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockNotificationRepository(ctrl)
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(assert.AnError)

	observer := NewDatabaseNotificationObserver(repo, nil)
	err := observer.Update(common.NotificationEvent{
		Type:    common.NotifMessageType,
		UserID:  "user-a",
		Header:  "h",
		Content: "c",
	})
	assert.Error(t, err)
}

// countingObserver counts deliveries for manager tests.
type countingObserver struct {
	ch chan common.NotificationEvent
}

func (c *countingObserver) Name() string { return "counting_observer" }

func (c *countingObserver) Update(event common.NotificationEvent) error {
	c.ch <- event
	return nil
}

func TestNotificationManager_AsyncDelivery(t *testing.T) {
	manager := NewNotificationManager(2, 8)
	defer manager.Shutdown()

	observer := &countingObserver{ch: make(chan common.NotificationEvent, 8)}
	manager.Subscribe(observer)

	manager.NotifyAsync(common.NotificationEvent{Type: common.NotifMessageType, UserID: "user-a"})

	select {
	case event := <-observer.ch:
		assert.Equal(t, "user-a", event.UserID)
	case <-time.After(time.Second):
		t.Fatal("worker never delivered the event")
	}
}

func TestNotificationManager_Unsubscribe(t *testing.T) {
	manager := NewNotificationManager(1, 8)
	defer manager.Shutdown()

	observer := &countingObserver{ch: make(chan common.NotificationEvent, 8)}
	manager.Subscribe(observer)
	manager.Unsubscribe(observer)

	manager.Notify(common.NotificationEvent{Type: common.NotifMessageType, UserID: "user-a"})

	select {
	case <-observer.ch:
		t.Fatal("unsubscribed observer still received the event")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestNotificationManager_DropsWhenFull(t *testing.T) {
	// zero workers and a tiny buffer: the second async event must be dropped
	// instead of blocking the caller
	manager := NewNotificationManager(0, 1)
	defer manager.Shutdown()

	done := make(chan struct{})
	go func() {
		manager.NotifyAsync(common.NotificationEvent{UserID: "1"})
		manager.NotifyAsync(common.NotificationEvent{UserID: "2"})
		manager.NotifyAsync(common.NotificationEvent{UserID: "3"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("NotifyAsync blocked on a full channel")
	}
}
