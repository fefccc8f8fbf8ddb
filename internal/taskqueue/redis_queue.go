package taskqueue

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisQueue implements the Queue interface using Redis.
//
// It uses a single Redis list with key:
//
//	<prefix>tasks
//
// Values are gob-encoded Task structs.
type RedisQueue struct {
	client *redis.Client
	key    string
	logger *zap.Logger
}

// NewRedisQueue constructs a Redis-backed Queue.
// prefix is optional but recommended (e.g. "parwork:").
func NewRedisQueue(client *redis.Client, prefix string, logger *zap.Logger) *RedisQueue {
	if prefix == "" {
		prefix = "parwork:"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisQueue{
		client: client,
		key:    prefix + "tasks",
		logger: logger,
	}
}

// Ensure RedisQueue implements Queue.
var _ Queue = (*RedisQueue)(nil)

// Enqueue pushes a task onto the Redis list (LPUSH).
func (q *RedisQueue) Enqueue(ctx context.Context, t Task) error {
	data, err := EncodeTask(t)
	if err != nil {
		return err
	}
	return q.client.LPush(ctx, q.key, data).Err()
}

// Dequeue blocks on BRPOP until a task is available or ctx is cancelled.
func (q *RedisQueue) Dequeue(ctx context.Context) (*Task, error) {
	// BRPop returns [key, value]
	res, err := q.client.BRPop(ctx, 0, q.key).Result()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	}
	if len(res) != 2 {
		return nil, fmt.Errorf("redis queue: unexpected BRPOP reply of length %d", len(res))
	}
	t, err := DecodeTask([]byte(res[1]))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptTask, err)
	}
	return t, nil
}

// Len returns the approximate number of tasks queued (LLEN).
func (q *RedisQueue) Len() int {
	n, err := q.client.LLen(context.Background(), q.key).Result()
	if err != nil {
		// For a Len() helper, it's better to log and return 0 than panic.
		q.logger.Warn("redis queue: LLEN failed", zap.Error(err))
		return 0
	}
	return int(n)
}
