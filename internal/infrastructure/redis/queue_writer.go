package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/apperror"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/entity"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/queue"
)

// QueueWriter pushes change messages onto the head of a list; consumers pop
// from the tail.
type QueueWriter struct {
	rdb *goredis.Client
	key string
}

func NewQueueWriter(rdb *goredis.Client, key string) *QueueWriter {
	return &QueueWriter{rdb: rdb, key: key}
}

func (w *QueueWriter) Write(ctx context.Context, u *entity.User, op queue.Operation) error {
	b, err := json.Marshal(queue.NewMessage(u, op))
	if err != nil {
		return fmt.Errorf("%w: encode: %v", apperror.ErrQueueWrite, err)
	}
	if err := w.rdb.LPush(ctx, w.key, b).Err(); err != nil {
		return fmt.Errorf("%w: redis lpush %s: %v", apperror.ErrQueueWrite, w.key, err)
	}
	return nil
}

// Pop blocks up to timeout for the oldest message. It returns false when the
// wait timed out.
func Pop(ctx context.Context, rdb *goredis.Client, key string, timeout time.Duration) (queue.Message, bool, error) {
	res, err := rdb.BRPop(ctx, timeout, key).Result()
	if errors.Is(err, goredis.Nil) {
		return queue.Message{}, false, nil
	}
	if err != nil {
		return queue.Message{}, false, err
	}
	var m queue.Message
	if err := json.Unmarshal([]byte(res[1]), &m); err != nil {
		return queue.Message{}, false, fmt.Errorf("decode queue message: %w", err)
	}
	return m, true, nil
}
