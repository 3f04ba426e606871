package message

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"chatrelay/internal/common"
	"chatrelay/internal/dbmysql"
)

// Repository is the Message Router's storage port.
type Repository interface {
	// Save persists the message and moves the room's last-message pointer
	// in the same transaction.
	Save(ctx context.Context, msg *dbmysql.Message) error
	ByID(ctx context.Context, id string) (*dbmysql.Message, error)
	History(ctx context.Context, roomID string, limit, offset int) ([]*dbmysql.Message, int64, error)
	Update(ctx context.Context, msg *dbmysql.Message) error
}

type messageRepo struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &messageRepo{db: db}
}

func (r *messageRepo) Save(ctx context.Context, msg *dbmysql.Message) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return fmt.Errorf("failed to save message: %w", err)
		}
		err := tx.Model(&dbmysql.Room{}).
			Where("id = ?", msg.RoomID).
			Update("last_message_id", msg.ID).Error
		if err != nil {
			return fmt.Errorf("failed to update last message pointer: %w", err)
		}
		return nil
	})
}

func (r *messageRepo) ByID(ctx context.Context, id string) (*dbmysql.Message, error) {
	var msg dbmysql.Message
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&msg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get message: %w", err)
	}
	return &msg, nil
}

func (r *messageRepo) History(ctx context.Context, roomID string, limit, offset int) ([]*dbmysql.Message, int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&dbmysql.Message{}).
		Where("room_id = ?", roomID).
		Count(&total).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count messages: %w", err)
	}

	var messages []*dbmysql.Message
	query := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("sent_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&messages).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch history: %w", err)
	}
	return messages, total, nil
}

func (r *messageRepo) Update(ctx context.Context, msg *dbmysql.Message) error {
	// Select the mutable columns explicitly so a tombstone can clear content.
	err := r.db.WithContext(ctx).Model(msg).
		Select("content", "is_edited", "is_deleted").
		Updates(msg).Error
	if err != nil {
		return fmt.Errorf("failed to update message: %w", err)
	}
	return nil
}
