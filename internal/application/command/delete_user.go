package command

import (
	"context"

	"github.com/oksasatya/go-ddd-user-mediator/internal/application/uow"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/entity"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/event"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/queue"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/repository"
)

type DeleteUserHandler struct {
	uow.Factory
	Cache  repository.UserCache
	Events event.Publisher
	Queue  queue.Writer
}

// Handle evicts the cache entry, removes the stored record and reports the
// removed snapshot.
func (h *DeleteUserHandler) Handle(ctx context.Context, cmd DeleteUser) (*entity.User, error) {
	unit := h.Unit(uow.WithCache(h.Cache), uow.WithPublisher(h.Events), uow.WithQueue(h.Queue))

	var removed *entity.User
	err := unit.Do(ctx, func(ctx context.Context) error {
		if _, err := unit.Cache.Delete(ctx, cmd.ID); err != nil {
			return err
		}
		var err error
		if removed, err = unit.Cache.Repository().Delete(ctx, cmd.ID); err != nil {
			return err
		}
		if err := unit.Publish(ctx, event.New(event.UserDeleted, cmd.Key(), removed.Snapshot())); err != nil {
			return err
		}
		return unit.Enqueue(ctx, removed, queue.OpDelete)
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}
