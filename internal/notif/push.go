package notif

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"chatrelay/internal/common"
)

// notifChannelPrefix is the redis pub/sub namespace bridging notifs-svc to
// the WebSocket hub running in chat-svc.
const notifChannelPrefix = "notifications:user:"

// RedisPusher publishes notification payloads onto the per-user channel.
type RedisPusher struct {
	client *redis.Client
}

func NewRedisPusher(client *redis.Client) *RedisPusher {
	return &RedisPusher{client: client}
}

func (p *RedisPusher) Push(ctx context.Context, userID string, resp common.NotificationResponse) error {
	payload, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}
	if err := p.client.Publish(ctx, notifChannelPrefix+userID, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}
	return nil
}

// Subscriber runs inside chat-svc: it forwards published notifications to
// the user's live connections.
type Subscriber struct {
	client      *redis.Client
	broadcaster common.RoomBroadcaster
}

func NewSubscriber(client *redis.Client, broadcaster common.RoomBroadcaster) *Subscriber {
	return &Subscriber{client: client, broadcaster: broadcaster}
}

// Run blocks until ctx is cancelled.
func (s *Subscriber) Run(ctx context.Context) {
	pubsub := s.client.PSubscribe(ctx, notifChannelPrefix+"*")
	defer pubsub.Close()

	logrus.Info("notification subscriber started")

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			logrus.Info("notification subscriber shutting down")
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			userID := strings.TrimPrefix(msg.Channel, notifChannelPrefix)

			var resp common.NotificationResponse
			if err := json.Unmarshal([]byte(msg.Payload), &resp); err != nil {
				logrus.WithError(err).Warn("dropping undecodable notification payload")
				continue
			}
			s.broadcaster.SendToUser(userID, common.ServerEvent{
				Event: common.EventNotification,
				Data:  resp,
			})
		}
	}
}
