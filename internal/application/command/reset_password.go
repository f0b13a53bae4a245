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
)

// ResetPasswordHandler confirms a reset requested through the query side.
type ResetPasswordHandler struct {
	uow.Factory
	Cache  repository.UserCache
	Events event.Publisher
	Queue  queue.Writer
	Hasher port.PasswordHasher
	Tokens port.TokenDecoder
}

func (h *ResetPasswordHandler) Handle(ctx context.Context, cmd ResetPassword) (*entity.User, error) {
	id, err := h.Tokens.Decode(cmd.Token)
	if err != nil {
		return nil, err
	}
	hash, err := h.Hasher.Hash(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	unit := h.Unit(uow.WithCache(h.Cache), uow.WithPublisher(h.Events), uow.WithQueue(h.Queue))

	var user *entity.User
	err = unit.Do(ctx, func(ctx context.Context) error {
		repo := unit.Cache.Repository()
		current, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		current.Password = hash
		current.UpdatedAt = h.Clock()
		if user, err = repo.Update(ctx, current); err != nil {
			return err
		}
		if _, err := unit.Cache.Delete(ctx, id); err != nil {
			return err
		}
		data := map[string]any{"id": user.ID, "updated_at": user.Snapshot()["updated_at"]}
		if err := unit.Publish(ctx, event.New(event.PasswordResetConfirmed, cmd.Key(), data)); err != nil {
			return err
		}
		return unit.Enqueue(ctx, user, queue.OpUpdate)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}
