package common

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// PresenceStatus is a user's connectivity status.
type PresenceStatus string

const (
	PresenceOnline  PresenceStatus = "online"
	PresenceAway    PresenceStatus = "away"
	PresenceOffline PresenceStatus = "offline"
)

func (s PresenceStatus) IsValid() bool {
	return s == PresenceOnline || s == PresenceAway || s == PresenceOffline
}

// Real-time event names shared between the hub and its consumers. Inbound
// and outbound frames both use the {event, data} shape.
const (
	EventMessageSend    = "message.send"
	EventMessageCreated = "message.created"
	EventMessageEdit    = "message.edit"
	EventMessageEdited  = "message.edited"
	EventMessageDelete  = "message.delete"
	EventMessageDeleted = "message.deleted"
	EventRoomJoin       = "room.join"
	EventRoomLeave      = "room.leave"
	EventMemberAdded    = "room.member_added"
	EventMemberRemoved  = "room.member_removed"
	EventReadMark       = "read.mark"
	EventReadMarked     = "read.marked"
	EventTypingStart    = "typing.start"
	EventTypingStop     = "typing.stop"
	EventPresenceAway   = "presence.away"
	EventPresenceChange = "presence.changed"
	EventNotification   = "notification.created"
	EventError          = "error"
)

// ServerEvent is an outbound WebSocket frame.
type ServerEvent struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// RoomBroadcaster fans server events out to connected clients. Implemented
// by the hub; consumed by the message router, presence tracker, typing
// tracker and the notification realtime observer.
type RoomBroadcaster interface {
	BroadcastToRoom(roomID string, event ServerEvent)
	SendToUser(userID string, event ServerEvent)
}

type NotificationType string

const (
	NotifMessageType     NotificationType = "message"
	NotifMemberAddedType NotificationType = "member_added"
	NotifSystemType      NotificationType = "system"
)

type NotificationStatus string

const (
	StatusPending   NotificationStatus = "pending"
	StatusScheduled NotificationStatus = "scheduled"
	StatusSent      NotificationStatus = "sent"
	StatusFailed    NotificationStatus = "failed"
	StatusRead      NotificationStatus = "read"
)

type NotificationMetadata map[string]interface{}

// Value implements driver.Valuer so GORM can store metadata as JSON.
func (m NotificationMetadata) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner for reading the JSON column back.
func (m *NotificationMetadata) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("cannot scan %T into NotificationMetadata", value)
	}
}

// NotificationEvent is the unit of work flowing through the notification
// manager to its observers.
type NotificationEvent struct {
	Type          NotificationType
	UserID        string
	TriggerUserID *string
	RoomID        *string
	Header        string
	Content       string
	ScheduledAt   *time.Time
	Priority      int
	Metadata      NotificationMetadata
}

// NotificationResponse is the REST representation of a stored notification.
type NotificationResponse struct {
	ID        string               `json:"id"`
	Type      string               `json:"type"`
	Header    string               `json:"header"`
	Content   string               `json:"content"`
	Status    string               `json:"status"`
	Priority  int                  `json:"priority"`
	RoomID    *string              `json:"room_id,omitempty"`
	Metadata  NotificationMetadata `json:"metadata,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
	ReadAt    *time.Time           `json:"read_at,omitempty"`
}
