package query

import (
	"context"

	"github.com/oksasatya/go-ddd-user-mediator/internal/application/uow"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/entity"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/event"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/repository"
)

type GetUserHandler struct {
	uow.Factory
	Cache  repository.UserCache
	Events event.Publisher
}

func (h *GetUserHandler) Handle(ctx context.Context, q GetUser) (*entity.User, error) {
	unit := h.Unit(uow.ReadOnly(), uow.WithCache(h.Cache), uow.WithPublisher(h.Events))

	var user *entity.User
	err := unit.Do(ctx, func(ctx context.Context) error {
		var err error
		if user, err = unit.Cache.Get(ctx, q.ID); err != nil {
			return err
		}
		return unit.Publish(ctx, event.New(event.UserFetched, q.Key(), user.Snapshot()))
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}
