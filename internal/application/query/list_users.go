package query

import (
	"context"

	"github.com/oksasatya/go-ddd-user-mediator/internal/application/uow"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/entity"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/event"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/repository"
)

type ListUsersHandler struct {
	uow.Factory
	Users  repository.UserRepository
	Events event.Publisher
}

func (h *ListUsersHandler) Handle(ctx context.Context, q ListUsers) ([]*entity.User, error) {
	sort := q.Sort
	if sort != repository.SortDesc {
		sort = repository.SortAsc
	}
	unit := h.Unit(uow.ReadOnly(), uow.WithRepository(h.Users), uow.WithPublisher(h.Events))

	var users []*entity.User
	err := unit.Do(ctx, func(ctx context.Context) error {
		var err error
		users, err = unit.Users.List(ctx, repository.Pagination{Skip: q.Skip, Limit: q.Limit}, sort)
		if err != nil {
			return err
		}
		snaps := make([]map[string]any, 0, len(users))
		for _, u := range users {
			snaps = append(snaps, u.Snapshot())
		}
		return unit.Publish(ctx, event.New(event.UsersListed, q.Key(), map[string]any{"users": snaps}))
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}
