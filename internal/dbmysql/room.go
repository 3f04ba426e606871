package dbmysql

import (
	"time"
)

type RoomType string

const (
	RoomTypeDirect RoomType = "direct"
	RoomTypeGroup  RoomType = "group"
)

// Room is a conversation container, direct (2-party) or group.
type Room struct {
	ID   string   `gorm:"primaryKey;size:36" json:"id"`
	Type RoomType `gorm:"not null;size:10;index" json:"type"`
	Name string   `gorm:"size:100" json:"name,omitempty"`

	// DirectKey is the canonical unordered user pair "a:b" (lexicographic).
	// It is set only for direct rooms and makes get-or-create idempotent.
	DirectKey *string `gorm:"uniqueIndex;size:80" json:"-"`

	CreatedBy     string  `gorm:"not null;size:36" json:"created_by"`
	LastMessageID *string `gorm:"size:36" json:"last_message_id,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Participants []Participant `gorm:"foreignKey:RoomID" json:"participants,omitempty"`
}

// DirectKeyFor builds the canonical pair key for a direct room.
func DirectKeyFor(userA, userB string) string {
	if userA > userB {
		userA, userB = userB, userA
	}
	return userA + ":" + userB
}
