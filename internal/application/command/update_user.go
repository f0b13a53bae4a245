package command

import (
	"context"

	"github.com/oksasatya/go-ddd-user-mediator/internal/application/uow"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/entity"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/event"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/queue"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/repository"
)

type UpdateUserHandler struct {
	uow.Factory
	Cache  repository.UserCache
	Events event.Publisher
	Queue  queue.Writer
}

// Handle applies the set fields of cmd. The store is written and an event is
// published only when a field actually changed; the downstream update is
// written either way. The cache is evicted before publishing and refilled
// only once every step succeeded, so a compensated update never leaves the
// new value cached.
func (h *UpdateUserHandler) Handle(ctx context.Context, cmd UpdateUser) (*entity.User, error) {
	unit := h.Unit(uow.WithCache(h.Cache), uow.WithPublisher(h.Events), uow.WithQueue(h.Queue))

	var user *entity.User
	err := unit.Do(ctx, func(ctx context.Context) error {
		repo := unit.Cache.Repository()
		current, err := repo.Get(ctx, cmd.ID)
		if err != nil {
			return err
		}
		user = current

		changed := map[string]any{}
		if cmd.Email != nil && *cmd.Email != "" && *cmd.Email != user.Email {
			user.Email = *cmd.Email
			changed["email"] = user.Email
		}
		if cmd.Name != nil && *cmd.Name != "" && *cmd.Name != user.Name {
			user.Name = *cmd.Name
			changed["name"] = user.Name
		}

		if len(changed) > 0 {
			user.UpdatedAt = h.Clock()
			if user, err = repo.Update(ctx, user); err != nil {
				return err
			}
			if _, err := unit.Cache.Delete(ctx, user.ID); err != nil {
				return err
			}
			changed["id"] = user.ID
			if err := unit.Publish(ctx, event.New(event.UserUpdated, cmd.Key(), changed)); err != nil {
				return err
			}
		}
		if err := unit.Enqueue(ctx, user, queue.OpUpdate); err != nil {
			return err
		}
		if len(changed) > 0 {
			return unit.Cache.Set(ctx, user.ID, user)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}
