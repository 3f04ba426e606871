package dbmysql

import (
	"time"
)

type MessageType string

const (
	MessageTypeText   MessageType = "text"
	MessageTypeImage  MessageType = "image"
	MessageTypeFile   MessageType = "file"
	MessageTypeSystem MessageType = "system"
)

// Message is append-only: edits rewrite content and set IsEdited, deletion
// tombstones the row. The id never changes and rows are never removed, so
// concurrent readers keep a stable ordering.
type Message struct {
	ID           string      `gorm:"primaryKey;size:36" json:"id"`
	RoomID       string      `gorm:"not null;index;size:36" json:"room_id"`
	SenderID     string      `gorm:"not null;index;size:36" json:"sender_id"`
	Content      string      `gorm:"type:text" json:"content"`
	Type         MessageType `gorm:"not null;size:10;default:'text'" json:"type"`
	ReplyToID    *string     `gorm:"size:36" json:"reply_to_id,omitempty"`
	AttachmentID *string     `gorm:"size:36" json:"attachment_id,omitempty"`
	IsEdited     bool        `gorm:"default:false" json:"is_edited"`
	IsDeleted    bool        `gorm:"default:false" json:"is_deleted"`
	SentAt       time.Time   `gorm:"index" json:"sent_at"`
	CreatedAt    time.Time   `gorm:"autoCreateTime" json:"-"`
	UpdatedAt    time.Time   `gorm:"autoUpdateTime" json:"-"`
}
