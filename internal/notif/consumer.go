package notif

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"chatrelay/internal/common"
	"chatrelay/internal/events"
	"chatrelay/internal/room"
)

// ChatEventHandler turns chat bus events into notifications for the
// affected users.
type ChatEventHandler struct {
	service *NotificationService
	rooms   room.Repository
}

func NewChatEventHandler(service *NotificationService, rooms room.Repository) *ChatEventHandler {
	return &ChatEventHandler{service: service, rooms: rooms}
}

// Handle implements events.Handler.
func (h *ChatEventHandler) Handle(ctx context.Context, event events.ChatEvent) error {
	switch event.Type {
	case events.TypeMessageCreated:
		return h.handleMessageCreated(ctx, event)
	case events.TypeMemberAdded:
		return h.handleMemberAdded(event)
	case events.TypeRoomCreated:
		return nil // room creation itself produces no notification
	default:
		logrus.WithField("type", event.Type).Debug("ignoring unknown chat event")
		return nil
	}
}

// handleMessageCreated notifies every active participant except the sender.
func (h *ChatEventHandler) handleMessageCreated(ctx context.Context, event events.ChatEvent) error {
	participants, err := h.rooms.ActiveParticipants(ctx, event.RoomID)
	if err != nil {
		return fmt.Errorf("failed to resolve recipients: %w", err)
	}

	preview, _ := event.Payload["preview"].(string)
	roomID := event.RoomID
	actorID := event.ActorID

	for _, p := range participants {
		if p.UserID == event.ActorID {
			continue
		}
		err := h.service.SendAsync(common.NotificationEvent{
			Type:          common.NotifMessageType,
			UserID:        p.UserID,
			TriggerUserID: &actorID,
			RoomID:        &roomID,
			Header:        "New message",
			Content:       preview,
			Priority:      2,
			Metadata: common.NotificationMetadata{
				"message_id": event.MessageID,
			},
		})
		if err != nil {
			logrus.WithError(err).WithField("user_id", p.UserID).Warn("failed to queue message notification")
		}
	}
	return nil
}

func (h *ChatEventHandler) handleMemberAdded(event events.ChatEvent) error {
	if event.UserID == "" {
		return nil
	}
	roomID := event.RoomID
	actorID := event.ActorID
	return h.service.SendAsync(common.NotificationEvent{
		Type:          common.NotifMemberAddedType,
		UserID:        event.UserID,
		TriggerUserID: &actorID,
		RoomID:        &roomID,
		Header:        "Added to a room",
		Content:       "You were added to a conversation",
		Priority:      2,
	})
}
