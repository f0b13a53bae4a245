package rabbitmq

import (
	"context"
	"fmt"

	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/apperror"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/entity"
	"github.com/oksasatya/go-ddd-user-mediator/pkg/mailer"
)

// TemplateData builds the template payload for one notification.
type TemplateData func(n entity.Notification, recipient string) map[string]any

// EmailSender queues one email job per recipient for the email worker.
type EmailSender struct {
	pub  JSONPublisher
	data TemplateData
}

func NewEmailSender(pub JSONPublisher, data TemplateData) *EmailSender {
	return &EmailSender{pub: pub, data: data}
}

func (s *EmailSender) Send(ctx context.Context, n entity.Notification) error {
	for _, to := range n.Recipients {
		job := mailer.EmailJob{
			To:       to,
			Subject:  n.Subject,
			Text:     n.Body,
			Template: string(n.Kind),
		}
		if s.data != nil {
			job.Data = s.data(n, to)
		}
		if err := s.pub.PublishJSON(ctx, job); err != nil {
			return fmt.Errorf("%w: queue email %s to %s: %v", apperror.ErrNotification, n.ID, to, err)
		}
	}
	return nil
}
