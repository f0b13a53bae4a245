// Package console provides collaborators that only write to the log. They
// stand in for real transports in local runs.
package console

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/entity"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/event"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/queue"
)

type EventPublisher struct {
	Logger *logrus.Logger
}

func (p EventPublisher) Publish(_ context.Context, e event.Event) error {
	p.Logger.WithFields(logrus.Fields{
		"source":          e.Source,
		"detail_type":     e.DetailType,
		"idempotency_key": e.Detail.Metadata.IdempotencyKey,
		"data":            e.Detail.Data,
	}).Info("event published")
	return nil
}

type QueueWriter struct {
	Logger *logrus.Logger
}

func (w QueueWriter) Write(_ context.Context, u *entity.User, op queue.Operation) error {
	m := queue.NewMessage(u, op)
	w.Logger.WithFields(logrus.Fields{"command": m.Command, "data": m.Data}).Info("queue message written")
	return nil
}

type Notifier struct {
	Logger *logrus.Logger
}

func (n Notifier) Send(_ context.Context, msg entity.Notification) error {
	n.Logger.WithFields(logrus.Fields{
		"id":         msg.ID,
		"kind":       msg.Kind,
		"recipients": msg.Recipients,
		"subject":    msg.Subject,
		"link":       msg.Link,
	}).Info("notification sent")
	return nil
}
