package redis

import (
	"context"
	"encoding/json"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/apperror"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/event"
)

// EventPublisher broadcasts events on a pub/sub channel.
type EventPublisher struct {
	rdb     *goredis.Client
	channel string
}

func NewEventPublisher(rdb *goredis.Client, channel string) *EventPublisher {
	return &EventPublisher{rdb: rdb, channel: channel}
}

func (p *EventPublisher) Publish(ctx context.Context, e event.Event) error {
	b, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", apperror.ErrEventPublication, e.DetailType, err)
	}
	if err := p.rdb.Publish(ctx, p.channel, b).Err(); err != nil {
		return fmt.Errorf("%w: redis publish %s: %v", apperror.ErrEventPublication, p.channel, err)
	}
	return nil
}

// Subscribe relays decoded events from the channel to fn until ctx ends.
// Payloads that do not decode are passed to onBad and skipped.
func Subscribe(ctx context.Context, rdb *goredis.Client, channel string, fn func(event.Event), onBad func(payload string, err error)) error {
	sub := rdb.Subscribe(ctx, channel)
	defer func() { _ = sub.Close() }()
	if _, err := sub.Receive(ctx); err != nil {
		return err
	}
	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var e event.Event
			if err := json.Unmarshal([]byte(msg.Payload), &e); err != nil {
				if onBad != nil {
					onBad(msg.Payload, err)
				}
				continue
			}
			fn(e)
		}
	}
}
