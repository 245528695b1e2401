package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Outbox is the enqueue side of the delivery pipeline. The consuming worker
// is a separate process; this module never blocks on delivery.
type Outbox interface {
	Enqueue(ctx context.Context, msg Message) error
}

const defaultOutboxKey = "notification:outbox"

// RedisOutbox pushes JSON-encoded messages onto a Redis list. The delivery
// worker pops with BRPOP, so the list behaves as a FIFO queue.
type RedisOutbox struct {
	rdb *redis.Client
	key string
}

func NewRedisOutbox(rdb *redis.Client) *RedisOutbox {
	return &RedisOutbox{rdb: rdb, key: defaultOutboxKey}
}

func (o *RedisOutbox) Enqueue(ctx context.Context, msg Message) error {
	if o.rdb == nil {
		return fmt.Errorf("redis client is nil")
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}
	if err := o.rdb.LPush(ctx, o.key, payload).Err(); err != nil {
		return fmt.Errorf("enqueue message: %w", err)
	}
	return nil
}
