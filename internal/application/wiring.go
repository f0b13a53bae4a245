package application

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-user-mediator/internal/application/command"
	"github.com/oksasatya/go-ddd-user-mediator/internal/application/mediator"
	"github.com/oksasatya/go-ddd-user-mediator/internal/application/port"
	"github.com/oksasatya/go-ddd-user-mediator/internal/application/query"
	"github.com/oksasatya/go-ddd-user-mediator/internal/application/uow"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/entity"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/event"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/queue"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/repository"
)

// Recorder is the metrics sink shared by the mediator and units of work.
type Recorder interface {
	mediator.Recorder
	uow.Recorder
}

// Dependencies are the collaborators handed out to handlers. Each handler
// receives only the ones its use case touches. Notifier is required by the
// password-reset request; registration mails an activation link only when
// both Notifier and ActivationTokens are set.
type Dependencies struct {
	Logger   *logrus.Logger
	Recorder Recorder
	Now      func() time.Time

	Users    repository.UserRepository
	Cache    repository.UserCache
	Events   event.Publisher
	Queue    queue.Writer
	Notifier port.Notifier
	Hasher   port.PasswordHasher

	AccessTokens     port.TokenCodec
	ActivationTokens port.TokenCodec
	ResetTokens      port.TokenCodec

	ActivationURL string
	ResetURL      string
}

// NewMediator registers a handler for every command and query kind.
func NewMediator(d Dependencies) *mediator.Mediator {
	m := mediator.New(d.Logger, d.Recorder)
	f := uow.Factory{Logger: d.Logger, Recorder: d.Recorder, Now: d.Now}

	create := &command.CreateUserHandler{
		Factory: f, Users: d.Users, Events: d.Events, Queue: d.Queue, Hasher: d.Hasher,
		ActivationURL: d.ActivationURL,
	}
	if d.Notifier != nil && d.ActivationTokens != nil {
		create.Notifier = d.Notifier
		create.Activation = d.ActivationTokens
	}
	mediator.RegisterCommand[command.CreateUser, *entity.User](m, create)
	mediator.RegisterCommand[command.UpdateUser, *entity.User](m, &command.UpdateUserHandler{
		Factory: f, Cache: d.Cache, Events: d.Events, Queue: d.Queue,
	})
	mediator.RegisterCommand[command.DeleteUser, *entity.User](m, &command.DeleteUserHandler{
		Factory: f, Cache: d.Cache, Events: d.Events, Queue: d.Queue,
	})
	mediator.RegisterCommand[command.ActivateUserAccount, *entity.User](m, &command.ActivateUserAccountHandler{
		Factory: f, Cache: d.Cache, Events: d.Events, Queue: d.Queue, Tokens: d.ActivationTokens,
	})
	mediator.RegisterCommand[command.LogoutUser, *entity.User](m, &command.LogoutUserHandler{
		Factory: f, Cache: d.Cache, Events: d.Events, Queue: d.Queue,
	})
	mediator.RegisterCommand[command.ResetPassword, *entity.User](m, &command.ResetPasswordHandler{
		Factory: f, Cache: d.Cache, Events: d.Events, Queue: d.Queue, Hasher: d.Hasher, Tokens: d.ResetTokens,
	})

	mediator.RegisterQuery[query.GetUser, *entity.User](m, &query.GetUserHandler{
		Factory: f, Cache: d.Cache, Events: d.Events,
	})
	mediator.RegisterQuery[query.ListUsers, []*entity.User](m, &query.ListUsersHandler{
		Factory: f, Users: d.Users, Events: d.Events,
	})
	mediator.RegisterQuery[query.LoginUser, *entity.Token](m, &query.LoginUserHandler{
		Factory: f, Cache: d.Cache, Events: d.Events, Hasher: d.Hasher, Tokens: d.AccessTokens,
	})
	mediator.RegisterQuery[query.GetUserFromToken, *entity.User](m, &query.GetUserFromTokenHandler{
		Factory: f, Cache: d.Cache, Events: d.Events, Tokens: d.AccessTokens,
	})
	mediator.RegisterQuery[query.RequestPasswordReset, struct{}](m, &query.RequestPasswordResetHandler{
		Factory: f, Cache: d.Cache, Events: d.Events, Notifier: d.Notifier, Tokens: d.ResetTokens,
		ResetURL: d.ResetURL,
	})
	return m
}

// VerifyMediator fails when any known kind lacks a handler.
func VerifyMediator(m *mediator.Mediator) error {
	return m.Verify(command.Kinds, query.Kinds)
}
