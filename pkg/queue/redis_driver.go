package queue

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisDriver stores pending jobs in a Redis list so they survive process
// restarts and can be drained by multiple workers.
type RedisDriver struct {
	client *redis.Client
	key    string
}

// NewRedisDriver wraps client, keeping jobs under key (defaults to
// "savannah:queue:jobs" when empty).
func NewRedisDriver(client *redis.Client, key string) *RedisDriver {
	if key == "" {
		key = "savannah:queue:jobs"
	}
	return &RedisDriver{client: client, key: key}
}

func (d *RedisDriver) Push(payload []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return d.client.LPush(ctx, d.key, payload).Err()
}

// Pop blocks up to two seconds per call so the popper loop can observe
// context cancellation between attempts.
func (d *RedisDriver) Pop(ctx context.Context) ([]byte, error) {
	res, err := d.client.BRPop(ctx, 2*time.Second, d.key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	// BRPop returns [key, value].
	if len(res) != 2 {
		return nil, nil
	}
	return []byte(res[1]), nil
}
