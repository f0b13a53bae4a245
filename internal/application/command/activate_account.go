package command

import (
	"context"

	"github.com/oksasatya/go-ddd-user-mediator/internal/application/port"
	"github.com/oksasatya/go-ddd-user-mediator/internal/application/uow"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/entity"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/event"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/queue"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/repository"
)

type ActivateUserAccountHandler struct {
	uow.Factory
	Cache  repository.UserCache
	Events event.Publisher
	Queue  queue.Writer
	Tokens port.TokenDecoder
}

func (h *ActivateUserAccountHandler) Handle(ctx context.Context, cmd ActivateUserAccount) (*entity.User, error) {
	id, err := h.Tokens.Decode(cmd.Token)
	if err != nil {
		return nil, err
	}
	unit := h.Unit(uow.WithCache(h.Cache), uow.WithPublisher(h.Events), uow.WithQueue(h.Queue))

	var user *entity.User
	err = unit.Do(ctx, func(ctx context.Context) error {
		repo := unit.Cache.Repository()
		current, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		current.IsActive = true
		current.UpdatedAt = h.Clock()
		if user, err = repo.Update(ctx, current); err != nil {
			return err
		}
		if _, err := unit.Cache.Delete(ctx, id); err != nil {
			return err
		}
		data := map[string]any{"id": user.ID, "is_active": user.IsActive}
		if err := unit.Publish(ctx, event.New(event.UserAccountActivated, cmd.Key(), data)); err != nil {
			return err
		}
		return unit.Enqueue(ctx, user, queue.OpUpdate)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}
