package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-user-mediator/internal/application/command"
	"github.com/oksasatya/go-ddd-user-mediator/internal/application/mediator"
	"github.com/oksasatya/go-ddd-user-mediator/internal/application/query"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/apperror"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/entity"
)

// UserSearcher looks users up in the read-side projection.
type UserSearcher interface {
	Search(ctx context.Context, q string, size int) ([]map[string]any, error)
}

// Service is the entry point for transports. Every use case goes through the
// mediator; search reads the projection directly.
type Service struct {
	Mediator *mediator.Mediator
	Search   UserSearcher
	Logger   *logrus.Logger
}

func NewService(m *mediator.Mediator, search UserSearcher, logger *logrus.Logger) *Service {
	return &Service{Mediator: m, Search: search, Logger: logger}
}

func (s *Service) Register(ctx context.Context, cmd command.CreateUser) (*entity.User, error) {
	return send[*entity.User](ctx, s, cmd)
}

func (s *Service) Update(ctx context.Context, cmd command.UpdateUser) (*entity.User, error) {
	return send[*entity.User](ctx, s, cmd)
}

func (s *Service) Delete(ctx context.Context, cmd command.DeleteUser) (*entity.User, error) {
	return send[*entity.User](ctx, s, cmd)
}

func (s *Service) Activate(ctx context.Context, cmd command.ActivateUserAccount) (*entity.User, error) {
	return send[*entity.User](ctx, s, cmd)
}

func (s *Service) Logout(ctx context.Context, cmd command.LogoutUser) (*entity.User, error) {
	return send[*entity.User](ctx, s, cmd)
}

func (s *Service) ResetPassword(ctx context.Context, cmd command.ResetPassword) (*entity.User, error) {
	return send[*entity.User](ctx, s, cmd)
}

func (s *Service) Get(ctx context.Context, q query.GetUser) (*entity.User, error) {
	return send[*entity.User](ctx, s, q)
}

func (s *Service) List(ctx context.Context, q query.ListUsers) ([]*entity.User, error) {
	return send[[]*entity.User](ctx, s, q)
}

func (s *Service) Login(ctx context.Context, q query.LoginUser) (*entity.Token, error) {
	return send[*entity.Token](ctx, s, q)
}

func (s *Service) Me(ctx context.Context, q query.GetUserFromToken) (*entity.User, error) {
	return send[*entity.User](ctx, s, q)
}

func (s *Service) RequestPasswordReset(ctx context.Context, q query.RequestPasswordReset) error {
	_, err := send[struct{}](ctx, s, q)
	return err
}

// SearchUsers performs a simple multi_match search on email and name.
// Without a configured projection it returns no results.
func (s *Service) SearchUsers(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.Search == nil {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	out, err := s.Search.Search(ctx, q, size)
	if err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("q", q).Warn("user search failed")
	}
	return out, err
}

func send[R any](ctx context.Context, s *Service, req any) (R, error) {
	res, err := mediator.Send[R](ctx, s.Mediator, req)
	if err != nil && s.Logger != nil && apperror.KindOf(err) != apperror.KindValidation {
		s.Logger.WithError(err).WithField("kind", apperror.KindOf(err).String()).Error("user operation failed")
	}
	return res, err
}
