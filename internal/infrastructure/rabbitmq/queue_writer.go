// Package rabbitmq carries downstream change messages and email jobs over
// durable AMQP queues.
package rabbitmq

import (
	"context"
	"fmt"

	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/apperror"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/entity"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/queue"
)

// JSONPublisher is satisfied by helpers.RabbitPublisher.
type JSONPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

type QueueWriter struct {
	pub JSONPublisher
}

func NewQueueWriter(pub JSONPublisher) *QueueWriter {
	return &QueueWriter{pub: pub}
}

func (w *QueueWriter) Write(ctx context.Context, u *entity.User, op queue.Operation) error {
	if err := w.pub.PublishJSON(ctx, queue.NewMessage(u, op)); err != nil {
		return fmt.Errorf("%w: amqp publish %s: %v", apperror.ErrQueueWrite, op, err)
	}
	return nil
}
