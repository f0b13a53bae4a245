package query

import (
	"context"
	"fmt"

	"github.com/oksasatya/go-ddd-user-mediator/internal/application/port"
	"github.com/oksasatya/go-ddd-user-mediator/internal/application/uow"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/entity"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/event"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/repository"
	"github.com/oksasatya/go-ddd-user-mediator/pkg/helpers"
)

// RequestPasswordResetHandler mails a reset link. Nothing is stored; the
// link's token is what ResetPassword later consumes.
type RequestPasswordResetHandler struct {
	uow.Factory
	Cache    repository.UserCache
	Events   event.Publisher
	Notifier port.Notifier
	Tokens   port.TokenIssuer
	ResetURL string
}

func (h *RequestPasswordResetHandler) Handle(ctx context.Context, q RequestPasswordReset) (struct{}, error) {
	unit := h.Unit(uow.ReadOnly(), uow.WithCache(h.Cache), uow.WithPublisher(h.Events), uow.WithNotifier(h.Notifier))

	err := unit.Do(ctx, func(ctx context.Context) error {
		user, err := unit.Cache.Get(ctx, q.ID)
		if err != nil {
			return err
		}
		token, err := h.Tokens.Issue(user.ID)
		if err != nil {
			return fmt.Errorf("issue reset token: %w", err)
		}
		link := helpers.LinkWithToken(h.ResetURL, token)
		n := entity.Notification{
			ID:         helpers.NewID(entity.NotificationIDPrefix),
			Kind:       entity.PasswordReset,
			Recipients: []string{user.Email},
			Subject:    "Password Reset",
			Body:       "Please reset your password. Click the link below.\n" + link,
			Name:       user.Name,
			Link:       link,
		}
		if err := unit.Publish(ctx, event.New(event.PasswordResetRequested, q.Key(), user.Snapshot())); err != nil {
			return err
		}
		return unit.Notify(ctx, n)
	})
	return struct{}{}, err
}
