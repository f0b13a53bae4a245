package query

import (
	"context"

	"github.com/oksasatya/go-ddd-user-mediator/internal/application/port"
	"github.com/oksasatya/go-ddd-user-mediator/internal/application/uow"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/entity"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/event"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/repository"
)

type GetUserFromTokenHandler struct {
	uow.Factory
	Cache  repository.UserCache
	Events event.Publisher
	Tokens port.TokenDecoder
}

func (h *GetUserFromTokenHandler) Handle(ctx context.Context, q GetUserFromToken) (*entity.User, error) {
	id, err := h.Tokens.Decode(q.Token)
	if err != nil {
		return nil, err
	}
	unit := h.Unit(uow.ReadOnly(), uow.WithCache(h.Cache), uow.WithPublisher(h.Events))

	var user *entity.User
	err = unit.Do(ctx, func(ctx context.Context) error {
		var err error
		if user, err = unit.Cache.Get(ctx, id); err != nil {
			return err
		}
		return unit.Publish(ctx, event.New(event.TokenDecoded, q.Key(), user.Snapshot()))
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}
