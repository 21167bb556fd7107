package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"auction-marketplace/internal/models"

	"github.com/redis/go-redis/v9"
)

// RedisConfig holds connection parameters for the Redis notification transport
type RedisConfig struct {
	Addr          string
	Password      string
	DB            int
	ChannelPrefix string
	InboxLength   int64
}

// NewRedisClient creates a go-redis client and pings it to verify connectivity
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return rdb, nil
}

// RedisNotifier publishes each notification on the addressee's channel and keeps
// the most recent ones in a capped per-user inbox list.
type RedisNotifier struct {
	rdb      *redis.Client
	prefix   string
	inboxLen int64
}

// NewRedisNotifier creates a RedisNotifier on an existing client
func NewRedisNotifier(rdb *redis.Client, prefix string, inboxLen int64) *RedisNotifier {
	if prefix == "" {
		prefix = "auction"
	}
	if inboxLen <= 0 {
		inboxLen = 100
	}
	return &RedisNotifier{rdb: rdb, prefix: prefix, inboxLen: inboxLen}
}

// Channel returns the pub/sub channel carrying userID's notifications
func (r *RedisNotifier) Channel(userID string) string {
	return fmt.Sprintf("%s:notifications:%s", r.prefix, userID)
}

func (r *RedisNotifier) inboxKey(userID string) string {
	return fmt.Sprintf("%s:inbox:%s", r.prefix, userID)
}

// Emit stores n in the user's inbox and publishes it, in one MULTI/EXEC round trip
func (r *RedisNotifier) Emit(ctx context.Context, n models.Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("redis: encode notification %s: %w", n.NotificationID, err)
	}

	key := r.inboxKey(n.UserID)
	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, key, payload)
		pipe.LTrim(ctx, key, 0, r.inboxLen-1)
		pipe.Publish(ctx, r.Channel(n.UserID), payload)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis: emit notification %s to %s: %w", n.NotificationID, n.UserID, err)
	}
	return nil
}

// Inbox returns up to limit of userID's most recent notifications, newest first
func (r *RedisNotifier) Inbox(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	if limit <= 0 || int64(limit) > r.inboxLen {
		limit = int(r.inboxLen)
	}

	raw, err := r.rdb.LRange(ctx, r.inboxKey(userID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: read inbox %s: %w", userID, err)
	}
	return decodeAll(raw)
}

// Subscribe streams userID's notifications until ctx is cancelled
func (r *RedisNotifier) Subscribe(ctx context.Context, userID string) (<-chan models.Notification, error) {
	pubsub := r.rdb.Subscribe(ctx, r.Channel(userID))
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("redis: subscribe %s: %w", userID, err)
	}

	out := make(chan models.Notification, 16)
	go func() {
		defer close(out)
		defer pubsub.Close()

		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var n models.Notification
				if err := json.Unmarshal([]byte(msg.Payload), &n); err != nil {
					continue
				}
				select {
				case out <- n:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func decodeAll(raw []string) ([]models.Notification, error) {
	out := make([]models.Notification, 0, len(raw))
	for _, item := range raw {
		var n models.Notification
		if err := json.Unmarshal([]byte(item), &n); err != nil {
			return nil, fmt.Errorf("redis: decode notification: %w", err)
		}
		out = append(out, n)
	}
	return out, nil
}
