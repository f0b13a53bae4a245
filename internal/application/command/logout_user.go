package command

import (
	"context"

	"github.com/oksasatya/go-ddd-user-mediator/internal/application/uow"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/entity"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/event"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/queue"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/repository"
)

type LogoutUserHandler struct {
	uow.Factory
	Cache  repository.UserCache
	Events event.Publisher
	Queue  queue.Writer
}

// Handle is a no-op for a user who is not logged in.
func (h *LogoutUserHandler) Handle(ctx context.Context, cmd LogoutUser) (*entity.User, error) {
	unit := h.Unit(uow.WithCache(h.Cache), uow.WithPublisher(h.Events), uow.WithQueue(h.Queue))

	var user *entity.User
	err := unit.Do(ctx, func(ctx context.Context) error {
		current, err := unit.Cache.Get(ctx, cmd.ID)
		if err != nil {
			return err
		}
		user = current
		if !current.IsLoggedIn {
			return nil
		}
		current.IsLoggedIn = false
		current.UpdatedAt = h.Clock()
		if _, err := unit.Cache.Delete(ctx, cmd.ID); err != nil {
			return err
		}
		if user, err = unit.Cache.Repository().Update(ctx, current); err != nil {
			return err
		}
		data := map[string]any{"id": user.ID, "is_logged_in": user.IsLoggedIn}
		if err := unit.Publish(ctx, event.New(event.UserLoggedOut, cmd.Key(), data)); err != nil {
			return err
		}
		return unit.Enqueue(ctx, user, queue.OpUpdate)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}
