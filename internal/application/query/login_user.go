package query

import (
	"context"
	"errors"
	"fmt"

	"github.com/oksasatya/go-ddd-user-mediator/internal/application/port"
	"github.com/oksasatya/go-ddd-user-mediator/internal/application/uow"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/apperror"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/entity"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/event"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/repository"
)

// TokenType is reported alongside every access token.
const TokenType = "bearer"

type LoginUserHandler struct {
	uow.Factory
	Cache  repository.UserCache
	Events event.Publisher
	Hasher port.PasswordHasher
	Tokens port.TokenIssuer
}

// Handle checks the credential and activation state before any write, marks
// the user logged in and issues an access token.
func (h *LoginUserHandler) Handle(ctx context.Context, q LoginUser) (*entity.Token, error) {
	unit := h.Unit(uow.WithCache(h.Cache), uow.WithPublisher(h.Events))

	var token *entity.Token
	err := unit.Do(ctx, func(ctx context.Context) error {
		repo := unit.Cache.Repository()
		user, err := repo.GetByEmail(ctx, q.Email)
		if errors.Is(err, apperror.ErrUserNotFound) {
			return apperror.ErrInvalidCredentials
		}
		if err != nil {
			return err
		}
		if !h.Hasher.Verify(q.Password, user.Password) {
			return apperror.ErrInvalidCredentials
		}
		if !user.IsActive {
			return apperror.ErrAccountNotActive
		}

		user.IsLoggedIn = true
		user.UpdatedAt = h.Clock()
		if user, err = repo.Update(ctx, user); err != nil {
			return err
		}
		if _, err := unit.Cache.Delete(ctx, user.ID); err != nil {
			return err
		}
		access, err := h.Tokens.Issue(user.ID)
		if err != nil {
			return fmt.Errorf("issue access token: %w", err)
		}
		token = &entity.Token{AccessToken: access, TokenType: TokenType}
		return unit.Publish(ctx, event.New(event.UserLoggedIn, q.Key(), user.Snapshot()))
	})
	if err != nil {
		return nil, err
	}
	return token, nil
}
