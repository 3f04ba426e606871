package notif

import (
	"context"
	"fmt"

	"chatrelay/internal/common"
	"chatrelay/internal/config"
	"chatrelay/internal/dbmysql"
)

// NotificationService validates events, feeds them to the manager's
// observers and answers the REST queries over stored notifications.
type NotificationService struct {
	manager *NotificationManager
	repo    dbmysql.NotificationRepository
}

func NewNotificationService(
	cfg *config.Config,
	repo dbmysql.NotificationRepository,
	scheduler *Scheduler,
	pusher *RedisPusher,
) *NotificationService {
	manager := NewNotificationManager(cfg.Notification.Workers, cfg.Notification.ChannelBufferSize)
	manager.Subscribe(NewDatabaseNotificationObserver(repo, scheduler))
	if pusher != nil {
		manager.Subscribe(NewRealtimeNotificationObserver(pusher))
	}

	return &NotificationService{
		manager: manager,
		repo:    repo,
	}
}

// Send validates and dispatches an event synchronously, so the caller knows
// the record is durable when the call returns.
func (s *NotificationService) Send(ctx context.Context, event common.NotificationEvent) error {
	if err := s.validateEvent(event); err != nil {
		return err
	}
	s.manager.Notify(event)
	return nil
}

// SendAsync queues the event for the worker pool. Used on the hot paths
// (chat event consumption) where callers must not block.
func (s *NotificationService) SendAsync(event common.NotificationEvent) error {
	if err := s.validateEvent(event); err != nil {
		return err
	}
	s.manager.NotifyAsync(event)
	return nil
}

func (s *NotificationService) validateEvent(event common.NotificationEvent) error {
	if event.UserID == "" {
		return fmt.Errorf("%w: user id is required", common.ErrValidation)
	}
	if event.Header == "" {
		return fmt.Errorf("%w: header is required", common.ErrValidation)
	}
	if event.Content == "" {
		return fmt.Errorf("%w: content is required", common.ErrValidation)
	}
	if event.Type == "" {
		return fmt.Errorf("%w: type is required", common.ErrValidation)
	}
	return nil
}

func (s *NotificationService) List(ctx context.Context, userID string, limit, offset int) ([]common.NotificationResponse, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	notifications, total, err := s.repo.ByUserID(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]common.NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		responses = append(responses, n.ToResponse())
	}
	return responses, total, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return s.repo.UnreadCount(ctx, userID)
}

func (s *NotificationService) MarkAsRead(ctx context.Context, id, userID string) error {
	return s.repo.MarkAsRead(ctx, id, userID)
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID string) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

func (s *NotificationService) Delete(ctx context.Context, id, userID string) error {
	return s.repo.Delete(ctx, id, userID)
}

func (s *NotificationService) Shutdown() {
	s.manager.Shutdown()
}
