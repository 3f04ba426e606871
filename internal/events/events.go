package events

import (
	"encoding/json"
	"time"
)

// Event types carried on the chat event topic.
const (
	TypeMessageCreated = "message.created"
	TypeMemberAdded    = "room.member_added"
	TypeRoomCreated    = "room.created"
)

// ChatEvent is the envelope published by chat-svc and consumed by
// notifs-svc. UserID is the affected user, ActorID the user who caused the
// event.
type ChatEvent struct {
	Type       string                 `json:"type"`
	RoomID     string                 `json:"room_id"`
	ActorID    string                 `json:"actor_id"`
	UserID     string                 `json:"user_id,omitempty"`
	MessageID  string                 `json:"message_id,omitempty"`
	Payload    map[string]interface{} `json:"payload,omitempty"`
	OccurredAt time.Time              `json:"occurred_at"`
}

func (e ChatEvent) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

func UnmarshalChatEvent(data []byte) (ChatEvent, error) {
	var event ChatEvent
	err := json.Unmarshal(data, &event)
	return event, err
}
