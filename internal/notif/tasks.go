package notif

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

// TypeNotificationDeliver is the asynq task type for due scheduled
// notifications.
const TypeNotificationDeliver = "notification:deliver"

type deliverPayload struct {
	NotificationID string `json:"notification_id"`
}

// NewDeliverTask builds the delivery task for one stored notification.
func NewDeliverTask(notificationID string) (*asynq.Task, error) {
	payload, err := json.Marshal(deliverPayload{NotificationID: notificationID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal deliver payload: %w", err)
	}
	return asynq.NewTask(TypeNotificationDeliver, payload), nil
}

// Scheduler enqueues delivery tasks to run at a notification's due time.
type Scheduler struct {
	client *asynq.Client
}

func NewScheduler(client *asynq.Client) *Scheduler {
	return &Scheduler{client: client}
}

func (s *Scheduler) EnqueueAt(at time.Time, notificationID string) error {
	task, err := NewDeliverTask(notificationID)
	if err != nil {
		return err
	}
	if _, err := s.client.Enqueue(task, asynq.ProcessAt(at), asynq.MaxRetry(3)); err != nil {
		return fmt.Errorf("failed to enqueue deliver task: %w", err)
	}
	return nil
}

func (s *Scheduler) Close() error {
	return s.client.Close()
}
