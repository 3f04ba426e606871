package notif

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"chatrelay/internal/common"
	"chatrelay/internal/dbmysql"
)

// DeliverHandler processes due scheduled notifications: mark sent, push to
// live connections.
type DeliverHandler struct {
	repo   dbmysql.NotificationRepository
	pusher *RedisPusher
}

func NewDeliverHandler(repo dbmysql.NotificationRepository, pusher *RedisPusher) *DeliverHandler {
	return &DeliverHandler{repo: repo, pusher: pusher}
}

func (h *DeliverHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload deliverPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("malformed deliver payload: %v: %w", err, asynq.SkipRetry)
	}

	notification, err := h.repo.ByID(ctx, payload.NotificationID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			// Deleted before it came due; nothing to deliver.
			return nil
		}
		return err
	}
	if notification.Status != common.StatusScheduled {
		return nil // already delivered or cancelled
	}

	if err := h.repo.UpdateStatus(ctx, notification.ID, common.StatusSent); err != nil {
		return err
	}

	if err := h.pusher.Push(ctx, notification.UserID, notification.ToResponse()); err != nil {
		// The row is already marked sent; the client will pick it up on
		// the next list call.
		logrus.WithError(err).WithField("notification_id", notification.ID).Warn("realtime push failed")
	}
	return nil
}

// NewWorkerServer builds the asynq server processing delivery tasks.
func NewWorkerServer(redisAddr, redisPassword string, db int, concurrency int) *asynq.Server {
	return asynq.NewServer(
		asynq.RedisClientOpt{Addr: redisAddr, Password: redisPassword, DB: db},
		asynq.Config{
			Concurrency: concurrency,
			Logger:      logrus.StandardLogger(),
		},
	)
}

// NewWorkerMux wires task types to their handlers.
func NewWorkerMux(handler *DeliverHandler) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.Handle(TypeNotificationDeliver, handler)
	return mux
}
