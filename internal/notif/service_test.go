package notif

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"chatrelay/internal/common"
	"chatrelay/internal/config"
	"chatrelay/internal/dbmysql"
	"chatrelay/internal/notif/mocks"
)

func testConfig() *config.Config {
	return &config.Config{
		Notification: config.NotificationConfig{
			Workers:           2,
			ChannelBufferSize: 16,
		},
	}
}

func TestNotificationService_Send(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockNotificationRepository(ctrl)
	repo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, n *dbmysql.Notification) error {
			assert.NotEmpty(t, n.ID)
			assert.Equal(t, "user-a", n.UserID)
			assert.Equal(t, common.StatusSent, n.Status)
			assert.NotNil(t, n.SentAt)
			return nil
		})

	service := NewNotificationService(testConfig(), repo, nil, nil)
	defer service.Shutdown()

	err := service.Send(context.Background(), common.NotificationEvent{
		Type:    common.NotifMessageType,
		UserID:  "user-a",
		Header:  "New message",
		Content: "hello",
	})
	assert.NoError(t, err)
}

func TestNotificationService_Validation(t *testing.T) {
	tests := []struct {
		name  string
		event common.NotificationEvent
	}{
		{
			name:  "missing user id",
			event: common.NotificationEvent{Type: common.NotifMessageType, Header: "h", Content: "c"},
		},
		{
			name:  "missing header",
			event: common.NotificationEvent{Type: common.NotifMessageType, UserID: "u", Content: "c"},
		},
		{
			name:  "missing content",
			event: common.NotificationEvent{Type: common.NotifMessageType, UserID: "u", Header: "h"},
		},
		{
			name:  "missing type",
			event: common.NotificationEvent{UserID: "u", Header: "h", Content: "c"},
		},
	}

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// no Create expectations: invalid events never reach the observers
	repo := mocks.NewMockNotificationRepository(ctrl)
	service := NewNotificationService(testConfig(), repo, nil, nil)
	defer service.Shutdown()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := service.Send(context.Background(), tt.event)
			assert.ErrorIs(t, err, common.ErrValidation)

			err = service.SendAsync(tt.event)
			assert.ErrorIs(t, err, common.ErrValidation)
		})
	}
}

func TestNotificationService_SendAsync(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	created := make(chan *dbmysql.Notification, 1)
	repo := mocks.NewMockNotificationRepository(ctrl)
	repo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, n *dbmysql.Notification) error {
			created <- n
			return nil
		})

	service := NewNotificationService(testConfig(), repo, nil, nil)
	defer service.Shutdown()

	err := service.SendAsync(common.NotificationEvent{
		Type:    common.NotifMemberAddedType,
		UserID:  "user-a",
		Header:  "Added to a room",
		Content: "You were added to a conversation",
	})
	assert.NoError(t, err)

	select {
	case n := <-created:
		assert.Equal(t, common.NotifMemberAddedType, n.Type)
	case <-time.After(time.Second):
		t.Fatal("worker pool never persisted the event")
	}
}

func TestNotificationService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	now := time.Now().UTC()
	stored := []*dbmysql.Notification{
		{ID: "n1", UserID: "user-a", Type: common.NotifMessageType, Header: "h", Content: "c", Status: common.StatusSent, CreatedAt: now},
	}

	repo := mocks.NewMockNotificationRepository(ctrl)
	// out-of-range limit falls back to the default page size
	repo.EXPECT().ByUserID(gomock.Any(), "user-a", 20, 0).Return(stored, int64(1), nil)

	service := NewNotificationService(testConfig(), repo, nil, nil)
	defer service.Shutdown()

	responses, total, err := service.List(context.Background(), "user-a", 5000, 0)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, responses, 1)
	assert.Equal(t, "n1", responses[0].ID)
}
