package notif

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"chatrelay/internal/common"
	"chatrelay/internal/dbmysql"
	"chatrelay/internal/metrics"
)

// DatabaseNotificationObserver persists every event as a notification row.
// Future-scheduled events are stored as scheduled and handed to the
// scheduler; everything else is stored as sent.
type DatabaseNotificationObserver struct {
	repo      dbmysql.NotificationRepository
	scheduler *Scheduler
}

func NewDatabaseNotificationObserver(repo dbmysql.NotificationRepository, scheduler *Scheduler) *DatabaseNotificationObserver {
	return &DatabaseNotificationObserver{repo: repo, scheduler: scheduler}
}

func (d *DatabaseNotificationObserver) Name() string {
	return "database_observer"
}

func (d *DatabaseNotificationObserver) Update(event common.NotificationEvent) error {
	now := time.Now().UTC()
	scheduled := event.ScheduledAt != nil && event.ScheduledAt.After(now)

	notification := &dbmysql.Notification{
		ID:            uuid.NewString(),
		UserID:        event.UserID,
		Header:        event.Header,
		Content:       event.Content,
		Type:          event.Type,
		Priority:      event.Priority,
		TriggerUserID: event.TriggerUserID,
		RoomID:        event.RoomID,
		ScheduledAt:   event.ScheduledAt,
		Metadata:      event.Metadata,
	}
	if scheduled {
		notification.Status = common.StatusScheduled
	} else {
		notification.Status = common.StatusSent
		notification.SentAt = &now
	}

	if err := d.repo.Create(context.Background(), notification); err != nil {
		return fmt.Errorf("failed to store notification: %w", err)
	}
	metrics.NotificationsStored.Inc()

	if scheduled && d.scheduler != nil {
		if err := d.scheduler.EnqueueAt(*event.ScheduledAt, notification.ID); err != nil {
			return fmt.Errorf("failed to schedule notification: %w", err)
		}
	}
	return nil
}

// RealtimeNotificationObserver pushes immediate notifications to connected
// clients through the redis bridge. Scheduled ones are pushed by the worker
// when they come due.
type RealtimeNotificationObserver struct {
	pusher *RedisPusher
}

func NewRealtimeNotificationObserver(pusher *RedisPusher) *RealtimeNotificationObserver {
	return &RealtimeNotificationObserver{pusher: pusher}
}

func (r *RealtimeNotificationObserver) Name() string {
	return "realtime_observer"
}

func (r *RealtimeNotificationObserver) Update(event common.NotificationEvent) error {
	if event.ScheduledAt != nil && event.ScheduledAt.After(time.Now()) {
		logrus.WithField("scheduled_at", event.ScheduledAt).Debug("skipping realtime push for scheduled notification")
		return nil
	}

	return r.pusher.Push(context.Background(), event.UserID, common.NotificationResponse{
		Type:      string(event.Type),
		Header:    event.Header,
		Content:   event.Content,
		Status:    string(common.StatusSent),
		Priority:  event.Priority,
		RoomID:    event.RoomID,
		Metadata:  event.Metadata,
		CreatedAt: time.Now().UTC(),
	})
}
