package command

import (
	"context"
	"fmt"

	"github.com/oksasatya/go-ddd-user-mediator/internal/application/port"
	"github.com/oksasatya/go-ddd-user-mediator/internal/application/uow"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/entity"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/event"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/queue"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/repository"
	"github.com/oksasatya/go-ddd-user-mediator/pkg/helpers"
)

// CreateUserHandler registers an inactive account. When Notifier and
// Activation are both set it also mails an activation link.
type CreateUserHandler struct {
	uow.Factory
	Users  repository.UserRepository
	Events event.Publisher
	Queue  queue.Writer
	Hasher port.PasswordHasher

	Notifier      port.Notifier
	Activation    port.TokenIssuer
	ActivationURL string
}

func (h *CreateUserHandler) Handle(ctx context.Context, cmd CreateUser) (*entity.User, error) {
	hash, err := h.Hasher.Hash(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	now := h.Clock()
	draft := &entity.User{
		ID:        helpers.NewID(entity.UserIDPrefix),
		Name:      cmd.Name,
		Email:     cmd.Email,
		Password:  hash,
		CreatedAt: now,
		UpdatedAt: now,
	}

	opts := []uow.Option{uow.WithRepository(h.Users), uow.WithPublisher(h.Events), uow.WithQueue(h.Queue)}
	if h.Notifier != nil && h.Activation != nil {
		opts = append(opts, uow.WithNotifier(h.Notifier))
	}
	unit := h.Unit(opts...)

	var created *entity.User
	err = unit.Do(ctx, func(ctx context.Context) error {
		var err error
		if created, err = unit.Users.Create(ctx, draft); err != nil {
			return err
		}
		if err := unit.Publish(ctx, event.New(event.UserCreated, cmd.Key(), created.Snapshot())); err != nil {
			return err
		}
		if err := unit.Enqueue(ctx, created, queue.OpCreate); err != nil {
			return err
		}
		if unit.Notifier == nil {
			return nil
		}
		n, err := h.activationNotice(created)
		if err != nil {
			return err
		}
		return unit.Notify(ctx, n)
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (h *CreateUserHandler) activationNotice(u *entity.User) (entity.Notification, error) {
	token, err := h.Activation.Issue(u.ID)
	if err != nil {
		return entity.Notification{}, fmt.Errorf("issue activation token: %w", err)
	}
	link := helpers.LinkWithToken(h.ActivationURL, token)
	return entity.Notification{
		ID:         helpers.NewID(entity.NotificationIDPrefix),
		Kind:       entity.AccountActivation,
		Recipients: []string{u.Email},
		Subject:    "Account Activation",
		Body:       "Please activate your account. Click the link below.\n" + link,
		Name:       u.Name,
		Link:       link,
	}, nil
}
