package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jpcaldeira/travel-desk/backend/internal/domain"
)

// RedisQueue is a Redis-list-backed Queue. Events are LPUSHed as JSON and
// consumed with a blocking BRPOP, so multiple worker processes can share one
// queue and events survive a process restart.
type RedisQueue struct {
	client        *redis.Client
	key           string
	deadLetterKey string
	pollTimeout   time.Duration
}

// NewRedisQueue builds a RedisQueue on the given list key. Dead-lettered
// events land on "<key>:deadletter".
func NewRedisQueue(client *redis.Client, key string) *RedisQueue {
	return &RedisQueue{
		client:        client,
		key:           key,
		deadLetterKey: key + ":deadletter",
		pollTimeout:   2 * time.Second,
	}
}

// Enqueue pushes the event onto the list.
func (q *RedisQueue) Enqueue(ctx context.Context, ev domain.StatusChange) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("notify.RedisQueue.Enqueue: encode: %w", err)
	}
	if err := q.client.LPush(ctx, q.key, payload).Err(); err != nil {
		return fmt.Errorf("notify.RedisQueue.Enqueue: %w", err)
	}
	return nil
}

// Next blocks up to the poll timeout waiting for an event.
func (q *RedisQueue) Next(ctx context.Context) (domain.StatusChange, bool, error) {
	res, err := q.client.BRPop(ctx, q.pollTimeout, q.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) || ctx.Err() != nil {
			return domain.StatusChange{}, false, nil
		}
		return domain.StatusChange{}, false, fmt.Errorf("notify.RedisQueue.Next: %w", err)
	}

	// BRPop returns [key, value].
	var ev domain.StatusChange
	if err := json.Unmarshal([]byte(res[1]), &ev); err != nil {
		return domain.StatusChange{}, false, fmt.Errorf("notify.RedisQueue.Next: decode: %w", err)
	}
	return ev, true, nil
}

// DeadLetter parks the event on the dead-letter list for later inspection.
func (q *RedisQueue) DeadLetter(ctx context.Context, ev domain.StatusChange) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("notify.RedisQueue.DeadLetter: encode: %w", err)
	}
	if err := q.client.LPush(ctx, q.deadLetterKey, payload).Err(); err != nil {
		return fmt.Errorf("notify.RedisQueue.DeadLetter: %w", err)
	}
	return nil
}
