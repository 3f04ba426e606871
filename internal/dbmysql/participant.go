package dbmysql

import (
	"time"
)

type ParticipantRole string

const (
	RoleAdmin  ParticipantRole = "admin"
	RoleMember ParticipantRole = "member"
)

// Participant is a user's membership in a room. A (room_id, user_id) pair is
// unique while left_at is NULL; leaving sets left_at instead of deleting the
// row, so history queries keep working.
type Participant struct {
	ID         uint64          `gorm:"primaryKey;autoIncrement" json:"id"`
	RoomID     string          `gorm:"not null;size:36;index:idx_room_user" json:"room_id"`
	UserID     string          `gorm:"not null;size:36;index:idx_room_user;index" json:"user_id"`
	Role       ParticipantRole `gorm:"not null;size:10;default:'member'" json:"role"`
	JoinedAt   time.Time       `gorm:"autoCreateTime" json:"joined_at"`
	LeftAt     *time.Time      `json:"left_at,omitempty"`
	LastReadAt *time.Time      `json:"last_read_at,omitempty"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime" json:"-"`
}

// Active reports whether this membership row is current.
func (p *Participant) Active() bool {
	return p.LeftAt == nil
}

func (p *Participant) IsAdmin() bool {
	return p.Role == RoleAdmin
}
