package hub

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"chatrelay/internal/common"
	"chatrelay/internal/dbmysql"
	"chatrelay/internal/message"
)

const routeTimeout = 10 * time.Second

// route dispatches one inbound frame to the owning service. Every rejection
// is answered with an error event; the connection stays up.
func (h *Hub) route(c *Client, f frame) {
	ctx, cancel := context.WithTimeout(context.Background(), routeTimeout)
	defer cancel()

	switch f.Event {
	case common.EventMessageSend:
		h.handleSend(ctx, c, f)
	case common.EventMessageEdit:
		h.handleEdit(ctx, c, f)
	case common.EventMessageDelete:
		h.handleDelete(ctx, c, f)
	case common.EventRoomJoin:
		h.handleJoin(ctx, c, f)
	case common.EventRoomLeave:
		h.handleLeave(c, f)
	case common.EventReadMark:
		h.handleMarkRead(ctx, c, f)
	case common.EventTypingStart, common.EventTypingStop:
		h.handleTyping(ctx, c, f)
	case common.EventPresenceAway:
		h.deps.Presence.Away(ctx, c.userID)
	default:
		c.sendError(f.Event, "invalid", "unknown event")
	}
}

type sendPayload struct {
	RoomID       string  `json:"room_id"`
	Content      string  `json:"content"`
	Type         string  `json:"type"`
	ReplyToID    *string `json:"reply_to_id"`
	AttachmentID *string `json:"attachment_id"`
}

func (h *Hub) handleSend(ctx context.Context, c *Client, f frame) {
	var p sendPayload
	if err := json.Unmarshal(f.Data, &p); err != nil {
		c.sendError(f.Event, "invalid", "malformed payload")
		return
	}

	_, err := h.deps.Messages.Send(ctx, message.SendInput{
		RoomID:       p.RoomID,
		SenderID:     c.userID,
		Content:      p.Content,
		Type:         dbmysql.MessageType(p.Type),
		ReplyToID:    p.ReplyToID,
		AttachmentID: p.AttachmentID,
	})
	if err != nil {
		h.reject(c, f.Event, err)
	}
}

type editPayload struct {
	MessageID string `json:"message_id"`
	Content   string `json:"content"`
}

func (h *Hub) handleEdit(ctx context.Context, c *Client, f frame) {
	var p editPayload
	if err := json.Unmarshal(f.Data, &p); err != nil {
		c.sendError(f.Event, "invalid", "malformed payload")
		return
	}
	if _, err := h.deps.Messages.Edit(ctx, c.userID, p.MessageID, p.Content); err != nil {
		h.reject(c, f.Event, err)
	}
}

type deletePayload struct {
	MessageID string `json:"message_id"`
}

func (h *Hub) handleDelete(ctx context.Context, c *Client, f frame) {
	var p deletePayload
	if err := json.Unmarshal(f.Data, &p); err != nil {
		c.sendError(f.Event, "invalid", "malformed payload")
		return
	}
	if _, err := h.deps.Messages.Delete(ctx, c.userID, p.MessageID); err != nil {
		h.reject(c, f.Event, err)
	}
}

type roomPayload struct {
	RoomID string `json:"room_id"`
}

func (h *Hub) handleJoin(ctx context.Context, c *Client, f frame) {
	var p roomPayload
	if err := json.Unmarshal(f.Data, &p); err != nil || p.RoomID == "" {
		c.sendError(f.Event, "invalid", "malformed payload")
		return
	}

	member, err := h.deps.Rooms.IsMember(ctx, p.RoomID, c.userID)
	if err != nil {
		h.reject(c, f.Event, err)
		return
	}
	if !member {
		c.sendError(f.Event, "forbidden", "not a member of this room")
		return
	}
	h.Subscribe(c, p.RoomID)
}

func (h *Hub) handleLeave(c *Client, f frame) {
	var p roomPayload
	if err := json.Unmarshal(f.Data, &p); err != nil || p.RoomID == "" {
		c.sendError(f.Event, "invalid", "malformed payload")
		return
	}
	h.Unsubscribe(c, p.RoomID)
}

type markReadPayload struct {
	RoomID    string `json:"room_id"`
	MessageID string `json:"message_id"`
}

func (h *Hub) handleMarkRead(ctx context.Context, c *Client, f frame) {
	var p markReadPayload
	if err := json.Unmarshal(f.Data, &p); err != nil {
		c.sendError(f.Event, "invalid", "malformed payload")
		return
	}
	if err := h.deps.Rooms.MarkRead(ctx, c.userID, p.RoomID, p.MessageID); err != nil {
		h.reject(c, f.Event, err)
	}
}

func (h *Hub) handleTyping(ctx context.Context, c *Client, f frame) {
	var p roomPayload
	if err := json.Unmarshal(f.Data, &p); err != nil || p.RoomID == "" {
		c.sendError(f.Event, "invalid", "malformed payload")
		return
	}

	member, err := h.deps.Rooms.IsMember(ctx, p.RoomID, c.userID)
	if err != nil {
		h.reject(c, f.Event, err)
		return
	}
	if !member {
		c.sendError(f.Event, "forbidden", "not a member of this room")
		return
	}

	if f.Event == common.EventTypingStart {
		h.deps.Typing.Start(p.RoomID, c.userID)
	} else {
		h.deps.Typing.Stop(p.RoomID, c.userID)
	}
}

// reject maps service errors onto error events.
func (h *Hub) reject(c *Client, event string, err error) {
	switch {
	case errors.Is(err, common.ErrNotFound):
		c.sendError(event, "not_found", err.Error())
	case errors.Is(err, common.ErrForbidden):
		c.sendError(event, "forbidden", err.Error())
	case errors.Is(err, common.ErrValidation):
		c.sendError(event, "invalid", err.Error())
	case errors.Is(err, common.ErrConflict):
		c.sendError(event, "conflict", err.Error())
	default:
		logrus.WithError(err).WithField("event", event).Error("hub: internal error")
		c.sendError(event, "internal", "internal error")
	}
}
