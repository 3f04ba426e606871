package room

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"chatrelay/internal/common"
	"chatrelay/internal/dbmysql"
)

// Repository is the Room Registry's storage port.
type Repository interface {
	CreateRoom(ctx context.Context, room *dbmysql.Room, participants []*dbmysql.Participant) error
	RoomByID(ctx context.Context, roomID string) (*dbmysql.Room, error)
	RoomByDirectKey(ctx context.Context, directKey string) (*dbmysql.Room, error)
	RoomsByUser(ctx context.Context, userID string) ([]*dbmysql.Room, error)
	RoomIDsByUser(ctx context.Context, userID string) ([]string, error)

	ActiveParticipant(ctx context.Context, roomID, userID string) (*dbmysql.Participant, error)
	ActiveParticipants(ctx context.Context, roomID string) ([]*dbmysql.Participant, error)
	AddParticipant(ctx context.Context, roomID, userID string, role dbmysql.ParticipantRole) error
	RemoveParticipant(ctx context.Context, roomID, userID string) error
	SetLastRead(ctx context.Context, roomID, userID string, readAt time.Time) error

	MessageInRoom(ctx context.Context, roomID, messageID string) (bool, error)
}

type roomRepo struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &roomRepo{db: db}
}

func (r *roomRepo) CreateRoom(ctx context.Context, room *dbmysql.Room, participants []*dbmysql.Participant) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(room).Error; err != nil {
			return fmt.Errorf("failed to create room: %w", err)
		}
		for _, p := range participants {
			p.RoomID = room.ID
			if err := tx.Create(p).Error; err != nil {
				return fmt.Errorf("failed to create participant: %w", err)
			}
		}
		return nil
	})
}

func (r *roomRepo) RoomByID(ctx context.Context, roomID string) (*dbmysql.Room, error) {
	var room dbmysql.Room
	if err := r.db.WithContext(ctx).Where("id = ?", roomID).First(&room).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	return &room, nil
}

func (r *roomRepo) RoomByDirectKey(ctx context.Context, directKey string) (*dbmysql.Room, error) {
	var room dbmysql.Room
	if err := r.db.WithContext(ctx).Where("direct_key = ?", directKey).First(&room).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get direct room: %w", err)
	}
	return &room, nil
}

func (r *roomRepo) RoomsByUser(ctx context.Context, userID string) ([]*dbmysql.Room, error) {
	var rooms []*dbmysql.Room
	err := r.db.WithContext(ctx).
		Joins("JOIN participants ON participants.room_id = rooms.id").
		Where("participants.user_id = ? AND participants.left_at IS NULL", userID).
		Order("rooms.updated_at DESC").
		Find(&rooms).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return rooms, nil
}

func (r *roomRepo) RoomIDsByUser(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&dbmysql.Participant{}).
		Where("user_id = ? AND left_at IS NULL", userID).
		Pluck("room_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list room ids: %w", err)
	}
	return ids, nil
}

func (r *roomRepo) ActiveParticipant(ctx context.Context, roomID, userID string) (*dbmysql.Participant, error) {
	var participant dbmysql.Participant
	err := r.db.WithContext(ctx).
		Where("room_id = ? AND user_id = ? AND left_at IS NULL", roomID, userID).
		First(&participant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}
	return &participant, nil
}

func (r *roomRepo) ActiveParticipants(ctx context.Context, roomID string) ([]*dbmysql.Participant, error) {
	var participants []*dbmysql.Participant
	err := r.db.WithContext(ctx).
		Where("room_id = ? AND left_at IS NULL", roomID).
		Find(&participants).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	return participants, nil
}

// AddParticipant reactivates a previous membership row when one exists,
// otherwise inserts a new one.
func (r *roomRepo) AddParticipant(ctx context.Context, roomID, userID string, role dbmysql.ParticipantRole) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing dbmysql.Participant
		err := tx.Where("room_id = ? AND user_id = ?", roomID, userID).First(&existing).Error
		switch {
		case err == nil:
			if existing.LeftAt == nil {
				return common.ErrConflict
			}
			now := time.Now().UTC()
			return tx.Model(&existing).Updates(map[string]interface{}{
				"left_at":   nil,
				"joined_at": now,
				"role":      role,
			}).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			participant := &dbmysql.Participant{
				RoomID: roomID,
				UserID: userID,
				Role:   role,
			}
			return tx.Create(participant).Error
		default:
			return fmt.Errorf("failed to check participant: %w", err)
		}
	})
}

func (r *roomRepo) RemoveParticipant(ctx context.Context, roomID, userID string) error {
	now := time.Now().UTC()
	result := r.db.WithContext(ctx).Model(&dbmysql.Participant{}).
		Where("room_id = ? AND user_id = ? AND left_at IS NULL", roomID, userID).
		Update("left_at", now)
	if result.Error != nil {
		return fmt.Errorf("failed to remove participant: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *roomRepo) SetLastRead(ctx context.Context, roomID, userID string, readAt time.Time) error {
	result := r.db.WithContext(ctx).Model(&dbmysql.Participant{}).
		Where("room_id = ? AND user_id = ? AND left_at IS NULL", roomID, userID).
		Update("last_read_at", readAt)
	if result.Error != nil {
		return fmt.Errorf("failed to set last read: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *roomRepo) MessageInRoom(ctx context.Context, roomID, messageID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&dbmysql.Message{}).
		Where("id = ? AND room_id = ?", messageID, roomID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check message: %w", err)
	}
	return count > 0, nil
}
