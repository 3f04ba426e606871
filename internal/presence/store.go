package presence

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"chatrelay/internal/common"
)

// Store persists per-user presence. One record per user, last-write-wins by
// timestamp: a write carrying an older timestamp than the stored one is
// silently dropped.
type Store interface {
	Set(ctx context.Context, userID string, status common.PresenceStatus, at time.Time) (bool, error)
	Get(ctx context.Context, userID string) (common.PresenceStatus, time.Time, error)
}

type redisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) Store {
	return &redisStore{client: client}
}

// setIfNewer compares the stored last_seen_at with the incoming one inside
// Redis, so concurrent writers from several chat-svc instances still agree.
var setIfNewer = redis.NewScript(`
local ts = tonumber(redis.call('HGET', KEYS[1], 'last_seen_at') or '0')
if tonumber(ARGV[2]) < ts then
  return 0
end
redis.call('HSET', KEYS[1], 'status', ARGV[1], 'last_seen_at', ARGV[2])
return 1
`)

func presenceKey(userID string) string {
	return "presence:" + userID
}

func (s *redisStore) Set(ctx context.Context, userID string, status common.PresenceStatus, at time.Time) (bool, error) {
	res, err := setIfNewer.Run(ctx, s.client,
		[]string{presenceKey(userID)},
		string(status), at.UnixMilli(),
	).Int()
	if err != nil {
		return false, fmt.Errorf("failed to set presence: %w", err)
	}
	return res == 1, nil
}

func (s *redisStore) Get(ctx context.Context, userID string) (common.PresenceStatus, time.Time, error) {
	vals, err := s.client.HGetAll(ctx, presenceKey(userID)).Result()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to get presence: %w", err)
	}
	if len(vals) == 0 {
		return common.PresenceOffline, time.Time{}, nil
	}

	status := common.PresenceStatus(vals["status"])
	if !status.IsValid() {
		status = common.PresenceOffline
	}
	ms, _ := strconv.ParseInt(vals["last_seen_at"], 10, 64)
	return status, time.UnixMilli(ms), nil
}
