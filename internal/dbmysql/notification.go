package dbmysql

import (
	"chatrelay/internal/common"
	"time"
)

// Notification is an in-app notification record for one user.
type Notification struct {
	ID            string                    `gorm:"primaryKey;size:36"`
	UserID        string                    `gorm:"not null;index;size:36"`
	Header        string                    `gorm:"not null;size:255"`
	Content       string                    `gorm:"not null;type:text"`
	Type          common.NotificationType   `gorm:"not null;size:50"`
	Status        common.NotificationStatus `gorm:"default:'pending';size:50;index"`
	Priority      int                       `gorm:"default:1"`
	TriggerUserID *string                   `gorm:"size:36"`
	RoomID        *string                   `gorm:"size:36;index"`
	ScheduledAt   *time.Time
	SentAt        *time.Time
	ReadAt        *time.Time
	Metadata      common.NotificationMetadata `gorm:"type:json"`
	RetryCount    int                         `gorm:"default:0"`
	CreatedAt     time.Time                   `gorm:"autoCreateTime;index"`
	UpdatedAt     time.Time                   `gorm:"autoUpdateTime"`
}

// ToResponse converts the row into its REST representation.
func (n *Notification) ToResponse() common.NotificationResponse {
	return common.NotificationResponse{
		ID:        n.ID,
		Type:      string(n.Type),
		Header:    n.Header,
		Content:   n.Content,
		Status:    string(n.Status),
		Priority:  n.Priority,
		RoomID:    n.RoomID,
		Metadata:  n.Metadata,
		CreatedAt: n.CreatedAt,
		ReadAt:    n.ReadAt,
	}
}
