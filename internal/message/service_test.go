package message

import (
	"context"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"chatrelay/internal/common"
	"chatrelay/internal/dbmysql"
	"chatrelay/internal/message/mocks"
	"chatrelay/internal/room"
	roommocks "chatrelay/internal/room/mocks"
)

type recordingBroadcaster struct {
	mu     sync.Mutex
	events []common.ServerEvent
}

func (b *recordingBroadcaster) BroadcastToRoom(roomID string, event common.ServerEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func (b *recordingBroadcaster) SendToUser(userID string, event common.ServerEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func (b *recordingBroadcaster) eventNames() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	names := make([]string, 0, len(b.events))
	for _, e := range b.events {
		names = append(names, e.Event)
	}
	return names
}

func TestMessageService_Send(t *testing.T) {
	replyToID := "parent-1"

	tests := []struct {
		name        string
		input       SendInput
		mockSetup   func(repo *mocks.MockRepository, rooms *roommocks.MockService)
		expectErr   error
		expectEvent bool
	}{
		{
			name:  "member sends a message",
			input: SendInput{RoomID: "room-1", SenderID: "user-a", Content: "  hello  "},
			mockSetup: func(repo *mocks.MockRepository, rooms *roommocks.MockService) {
				rooms.EXPECT().Room(gomock.Any(), "user-a", "room-1").
					Return(&dbmysql.Room{ID: "room-1"}, nil)
				repo.EXPECT().
					Save(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, msg *dbmysql.Message) error {
						assert.NotEmpty(t, msg.ID)
						assert.Equal(t, "hello", msg.Content)
						assert.Equal(t, dbmysql.MessageTypeText, msg.Type)
						return nil
					})
			},
			expectEvent: true,
		},
		{
			name:  "non-member rejected",
			input: SendInput{RoomID: "room-1", SenderID: "stranger", Content: "hi"},
			mockSetup: func(repo *mocks.MockRepository, rooms *roommocks.MockService) {
				rooms.EXPECT().Room(gomock.Any(), "stranger", "room-1").
					Return(nil, common.ErrForbidden)
			},
			expectErr: common.ErrForbidden,
		},
		{
			name:  "unknown room is not found, not forbidden",
			input: SendInput{RoomID: "room-gone", SenderID: "user-a", Content: "hi"},
			mockSetup: func(repo *mocks.MockRepository, rooms *roommocks.MockService) {
				rooms.EXPECT().Room(gomock.Any(), "user-a", "room-gone").
					Return(nil, common.ErrNotFound)
			},
			expectErr: common.ErrNotFound,
		},
		{
			name:      "empty content rejected",
			input:     SendInput{RoomID: "room-1", SenderID: "user-a", Content: "   "},
			mockSetup: func(repo *mocks.MockRepository, rooms *roommocks.MockService) {},
			expectErr: common.ErrValidation,
		},
		{
			name:      "oversized content rejected",
			input:     SendInput{RoomID: "room-1", SenderID: "user-a", Content: strings.Repeat("x", maxContentLength+1)},
			mockSetup: func(repo *mocks.MockRepository, rooms *roommocks.MockService) {},
			expectErr: common.ErrValidation,
		},
		{
			name:  "reply target must be in the same room",
			input: SendInput{RoomID: "room-1", SenderID: "user-a", Content: "hi", ReplyToID: &replyToID},
			mockSetup: func(repo *mocks.MockRepository, rooms *roommocks.MockService) {
				rooms.EXPECT().Room(gomock.Any(), "user-a", "room-1").
					Return(&dbmysql.Room{ID: "room-1"}, nil)
				repo.EXPECT().ByID(gomock.Any(), "parent-1").
					Return(&dbmysql.Message{ID: "parent-1", RoomID: "room-other"}, nil)
			},
			expectErr: common.ErrValidation,
		},
		{
			name:  "missing reply target rejected",
			input: SendInput{RoomID: "room-1", SenderID: "user-a", Content: "hi", ReplyToID: &replyToID},
			mockSetup: func(repo *mocks.MockRepository, rooms *roommocks.MockService) {
				rooms.EXPECT().Room(gomock.Any(), "user-a", "room-1").
					Return(&dbmysql.Room{ID: "room-1"}, nil)
				repo.EXPECT().ByID(gomock.Any(), "parent-1").Return(nil, common.ErrNotFound)
			},
			expectErr: common.ErrNotFound,
		},
		{
			name:  "failed persist means no fan-out",
			input: SendInput{RoomID: "room-1", SenderID: "user-a", Content: "hi"},
			mockSetup: func(repo *mocks.MockRepository, rooms *roommocks.MockService) {
				rooms.EXPECT().Room(gomock.Any(), "user-a", "room-1").
					Return(&dbmysql.Room{ID: "room-1"}, nil)
				repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(assert.AnError)
			},
			expectErr: assert.AnError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := mocks.NewMockRepository(ctrl)
			rooms := roommocks.NewMockService(ctrl)
			tt.mockSetup(repo, rooms)

			broadcaster := &recordingBroadcaster{}
			service := NewService(repo, rooms, room.NewLocks(), broadcaster, nil)

			msg, err := service.Send(context.Background(), tt.input)
			if tt.expectErr != nil {
				assert.ErrorIs(t, err, tt.expectErr)
				assert.Nil(t, msg)
				assert.Empty(t, broadcaster.eventNames(), "nothing may be fanned out on failure")
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, []string{common.EventMessageCreated}, broadcaster.eventNames())
		})
	}
}

func TestMessageService_History(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockRepository(ctrl)
	rooms := roommocks.NewMockService(ctrl)

	rooms.EXPECT().Room(gomock.Any(), "user-a", "room-1").
		Return(&dbmysql.Room{ID: "room-1"}, nil).Times(3)

	// no limit falls back to the default page size, oversized limits are
	// clamped to the maximum
	repo.EXPECT().History(gomock.Any(), "room-1", defaultHistoryLimit, 0).
		Return([]*dbmysql.Message{{ID: "m1"}}, int64(1), nil)
	repo.EXPECT().History(gomock.Any(), "room-1", maxHistoryLimit, 0).
		Return(nil, int64(0), nil)
	repo.EXPECT().History(gomock.Any(), "room-1", 25, 10).
		Return(nil, int64(0), nil)

	service := NewService(repo, rooms, room.NewLocks(), nil, nil)

	msgs, total, err := service.History(context.Background(), "user-a", "room-1", 0, 0)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, msgs, 1)

	_, _, err = service.History(context.Background(), "user-a", "room-1", maxHistoryLimit+1, 0)
	assert.NoError(t, err)

	_, _, err = service.History(context.Background(), "user-a", "room-1", 25, 10)
	assert.NoError(t, err)
}

func TestMessageService_History_NonMember(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockRepository(ctrl)
	rooms := roommocks.NewMockService(ctrl)
	rooms.EXPECT().Room(gomock.Any(), "stranger", "room-1").Return(nil, common.ErrForbidden)

	service := NewService(repo, rooms, room.NewLocks(), nil, nil)
	_, _, err := service.History(context.Background(), "stranger", "room-1", 50, 0)
	assert.ErrorIs(t, err, common.ErrForbidden)
}

func TestPreview_TruncatesOnRuneBoundary(t *testing.T) {
	// The 120-byte cut lands inside a multi-byte rune; the preview must back
	// off to the previous boundary instead of emitting invalid UTF-8.
	content := strings.Repeat("x", previewLength-1) + "éllo"
	msg := &dbmysql.Message{Type: dbmysql.MessageTypeText, Content: content}

	got := preview(msg)
	assert.True(t, utf8.ValidString(got))
	assert.LessOrEqual(t, len(got), previewLength)
	assert.Equal(t, strings.Repeat("x", previewLength-1), got)

	short := &dbmysql.Message{Type: dbmysql.MessageTypeText, Content: "hé"}
	assert.Equal(t, "hé", preview(short))

	attachment := &dbmysql.Message{Type: dbmysql.MessageTypeImage, Content: "ignored"}
	assert.Equal(t, string(dbmysql.MessageTypeImage), preview(attachment))
}

func TestMessageService_Edit(t *testing.T) {
	tests := []struct {
		name      string
		callerID  string
		content   string
		stored    *dbmysql.Message
		mockSetup func(repo *mocks.MockRepository, stored *dbmysql.Message)
		expectErr error
	}{
		{
			name:     "sender edits their message",
			callerID: "user-a",
			content:  "updated",
			stored:   &dbmysql.Message{ID: "m1", RoomID: "room-1", SenderID: "user-a", Content: "original"},
			mockSetup: func(repo *mocks.MockRepository, stored *dbmysql.Message) {
				repo.EXPECT().ByID(gomock.Any(), "m1").Return(stored, nil)
				repo.EXPECT().
					Update(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, msg *dbmysql.Message) error {
						assert.Equal(t, "updated", msg.Content)
						assert.True(t, msg.IsEdited)
						return nil
					})
			},
		},
		{
			name:     "non-sender cannot edit",
			callerID: "user-b",
			content:  "updated",
			stored:   &dbmysql.Message{ID: "m1", RoomID: "room-1", SenderID: "user-a"},
			mockSetup: func(repo *mocks.MockRepository, stored *dbmysql.Message) {
				repo.EXPECT().ByID(gomock.Any(), "m1").Return(stored, nil)
			},
			expectErr: common.ErrForbidden,
		},
		{
			name:     "deleted message cannot be edited",
			callerID: "user-a",
			content:  "updated",
			stored:   &dbmysql.Message{ID: "m1", RoomID: "room-1", SenderID: "user-a", IsDeleted: true},
			mockSetup: func(repo *mocks.MockRepository, stored *dbmysql.Message) {
				repo.EXPECT().ByID(gomock.Any(), "m1").Return(stored, nil)
			},
			expectErr: common.ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := mocks.NewMockRepository(ctrl)
			rooms := roommocks.NewMockService(ctrl)
			tt.mockSetup(repo, tt.stored)

			service := NewService(repo, rooms, room.NewLocks(), nil, nil)
			msg, err := service.Edit(context.Background(), tt.callerID, "m1", tt.content)

			if tt.expectErr != nil {
				assert.ErrorIs(t, err, tt.expectErr)
				return
			}
			assert.NoError(t, err)
			assert.True(t, msg.IsEdited)
		})
	}
}

func TestMessageService_Delete(t *testing.T) {
	t.Run("tombstones and broadcasts", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := mocks.NewMockRepository(ctrl)
		repo.EXPECT().ByID(gomock.Any(), "m1").
			Return(&dbmysql.Message{ID: "m1", RoomID: "room-1", SenderID: "user-a", Content: "secret"}, nil)
		repo.EXPECT().
			Update(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, msg *dbmysql.Message) error {
				assert.Empty(t, msg.Content, "tombstone keeps the row but drops the content")
				assert.True(t, msg.IsDeleted)
				return nil
			})

		broadcaster := &recordingBroadcaster{}
		service := NewService(repo, roommocks.NewMockService(ctrl), room.NewLocks(), broadcaster, nil)

		msg, err := service.Delete(context.Background(), "user-a", "m1")
		assert.NoError(t, err)
		assert.True(t, msg.IsDeleted)
		assert.Equal(t, []string{common.EventMessageDeleted}, broadcaster.eventNames())
	})

	t.Run("double delete is a no-op", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := mocks.NewMockRepository(ctrl)
		repo.EXPECT().ByID(gomock.Any(), "m1").
			Return(&dbmysql.Message{ID: "m1", RoomID: "room-1", SenderID: "user-a", IsDeleted: true}, nil)

		broadcaster := &recordingBroadcaster{}
		service := NewService(repo, roommocks.NewMockService(ctrl), room.NewLocks(), broadcaster, nil)

		msg, err := service.Delete(context.Background(), "user-a", "m1")
		assert.NoError(t, err)
		assert.True(t, msg.IsDeleted)
		assert.Empty(t, broadcaster.eventNames())
	})

	t.Run("non-sender cannot delete", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := mocks.NewMockRepository(ctrl)
		repo.EXPECT().ByID(gomock.Any(), "m1").
			Return(&dbmysql.Message{ID: "m1", RoomID: "room-1", SenderID: "user-a"}, nil)

		service := NewService(repo, roommocks.NewMockService(ctrl), room.NewLocks(), nil, nil)
		_, err := service.Delete(context.Background(), "user-b", "m1")
		assert.ErrorIs(t, err, common.ErrForbidden)
	})
}
