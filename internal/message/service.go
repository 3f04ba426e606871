package message

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"chatrelay/internal/common"
	"chatrelay/internal/dbmysql"
	"chatrelay/internal/events"
	"chatrelay/internal/metrics"
	"chatrelay/internal/room"
)

const (
	maxContentLength = 4000

	defaultHistoryLimit = 50
	maxHistoryLimit     = 500

	previewLength = 120
)

// SendInput carries everything needed to route one inbound message.
type SendInput struct {
	RoomID       string
	SenderID     string
	Content      string
	Type         dbmysql.MessageType
	ReplyToID    *string
	AttachmentID *string
}

// Service is the Message Router: membership-checked sends, logical
// edit/delete, history reads. Persistence is acknowledged before fan-out.
type Service interface {
	Send(ctx context.Context, in SendInput) (*dbmysql.Message, error)
	History(ctx context.Context, callerID, roomID string, limit, offset int) ([]*dbmysql.Message, int64, error)
	Edit(ctx context.Context, callerID, messageID, content string) (*dbmysql.Message, error)
	Delete(ctx context.Context, callerID, messageID string) (*dbmysql.Message, error)
}

type messageService struct {
	repo        Repository
	rooms       room.Service
	locks       *room.Locks
	broadcaster common.RoomBroadcaster
	publisher   events.Publisher
}

func NewService(
	repo Repository,
	rooms room.Service,
	locks *room.Locks,
	broadcaster common.RoomBroadcaster,
	publisher events.Publisher,
) Service {
	return &messageService{
		repo:        repo,
		rooms:       rooms,
		locks:       locks,
		broadcaster: broadcaster,
		publisher:   publisher,
	}
}

func (s *messageService) Send(ctx context.Context, in SendInput) (*dbmysql.Message, error) {
	if in.RoomID == "" || in.SenderID == "" {
		return nil, fmt.Errorf("%w: room id and sender id are required", common.ErrValidation)
	}
	if in.Type == "" {
		in.Type = dbmysql.MessageTypeText
	}
	content := strings.TrimSpace(in.Content)
	if content == "" && in.AttachmentID == nil {
		return nil, fmt.Errorf("%w: message content cannot be empty", common.ErrValidation)
	}
	if len(content) > maxContentLength {
		return nil, fmt.Errorf("%w: message content too long", common.ErrValidation)
	}

	// Read lock: sends may run concurrently with each other but never with a
	// membership change, so the broadcast set below is never stale.
	s.locks.RLock(in.RoomID)
	defer s.locks.RUnlock(in.RoomID)

	// Room does the existence check first, so a send into an unknown room
	// comes back not-found rather than forbidden.
	if _, err := s.rooms.Room(ctx, in.SenderID, in.RoomID); err != nil {
		return nil, err
	}

	if in.ReplyToID != nil {
		parent, err := s.repo.ByID(ctx, *in.ReplyToID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return nil, fmt.Errorf("%w: reply target not found", common.ErrNotFound)
			}
			return nil, err
		}
		if parent.RoomID != in.RoomID {
			return nil, fmt.Errorf("%w: reply target is in another room", common.ErrValidation)
		}
	}

	msg := &dbmysql.Message{
		ID:           uuid.NewString(),
		RoomID:       in.RoomID,
		SenderID:     in.SenderID,
		Content:      content,
		Type:         in.Type,
		ReplyToID:    in.ReplyToID,
		AttachmentID: in.AttachmentID,
		SentAt:       time.Now().UTC(),
	}

	// Durability first: the write must be acknowledged before anyone hears
	// about the message.
	if err := s.repo.Save(ctx, msg); err != nil {
		return nil, err
	}

	metrics.MessagesSent.Inc()
	s.broadcast(msg.RoomID, common.ServerEvent{Event: common.EventMessageCreated, Data: msg})
	s.publish(ctx, events.ChatEvent{
		Type:      events.TypeMessageCreated,
		RoomID:    msg.RoomID,
		ActorID:   msg.SenderID,
		MessageID: msg.ID,
		Payload: map[string]interface{}{
			"preview": preview(msg),
			"type":    string(msg.Type),
		},
		OccurredAt: msg.SentAt,
	})

	return msg, nil
}

func (s *messageService) History(ctx context.Context, callerID, roomID string, limit, offset int) ([]*dbmysql.Message, int64, error) {
	if roomID == "" {
		return nil, 0, fmt.Errorf("%w: room id is required", common.ErrValidation)
	}

	if _, err := s.rooms.Room(ctx, callerID, roomID); err != nil {
		return nil, 0, err
	}

	switch {
	case limit <= 0:
		limit = defaultHistoryLimit
	case limit > maxHistoryLimit:
		limit = maxHistoryLimit
	}
	return s.repo.History(ctx, roomID, limit, offset)
}

// Edit rewrites a message's content. Only the original sender may edit, and
// tombstoned messages stay untouchable.
func (s *messageService) Edit(ctx context.Context, callerID, messageID, content string) (*dbmysql.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: message content cannot be empty", common.ErrValidation)
	}
	if len(content) > maxContentLength {
		return nil, fmt.Errorf("%w: message content too long", common.ErrValidation)
	}

	msg, err := s.repo.ByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if msg.SenderID != callerID {
		return nil, fmt.Errorf("%w: only the sender can edit a message", common.ErrForbidden)
	}
	if msg.IsDeleted {
		return nil, fmt.Errorf("%w: message was deleted", common.ErrConflict)
	}

	msg.Content = content
	msg.IsEdited = true
	if err := s.repo.Update(ctx, msg); err != nil {
		return nil, err
	}

	s.broadcast(msg.RoomID, common.ServerEvent{Event: common.EventMessageEdited, Data: msg})
	return msg, nil
}

// Delete tombstones a message: the row (and its id) survives so concurrent
// readers keep a stable ordering, but content is gone.
func (s *messageService) Delete(ctx context.Context, callerID, messageID string) (*dbmysql.Message, error) {
	msg, err := s.repo.ByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if msg.SenderID != callerID {
		return nil, fmt.Errorf("%w: only the sender can delete a message", common.ErrForbidden)
	}
	if msg.IsDeleted {
		return msg, nil // already a tombstone, deleting again is a no-op
	}

	msg.Content = ""
	msg.IsDeleted = true
	if err := s.repo.Update(ctx, msg); err != nil {
		return nil, err
	}

	s.broadcast(msg.RoomID, common.ServerEvent{
		Event: common.EventMessageDeleted,
		Data: map[string]interface{}{
			"id":      msg.ID,
			"room_id": msg.RoomID,
		},
	})
	return msg, nil
}

func (s *messageService) broadcast(roomID string, event common.ServerEvent) {
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToRoom(roomID, event)
	}
}

func (s *messageService) publish(ctx context.Context, event events.ChatEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		logrus.WithError(err).WithField("room_id", event.RoomID).Warn("failed to publish message event")
	}
}

func preview(msg *dbmysql.Message) string {
	if msg.Type != dbmysql.MessageTypeText {
		return string(msg.Type)
	}
	if len(msg.Content) <= previewLength {
		return msg.Content
	}
	// Back off to a rune boundary so the cut never produces invalid UTF-8.
	cut := previewLength
	for cut > 0 && !utf8.RuneStart(msg.Content[cut]) {
		cut--
	}
	return msg.Content[:cut]
}
