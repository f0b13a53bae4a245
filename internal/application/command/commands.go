// Package command holds the state-changing use cases and their handlers.
package command

import "github.com/oksasatya/go-ddd-user-mediator/internal/application/mediator"

const (
	KindCreateUser          mediator.CommandKind = "CreateUser"
	KindUpdateUser          mediator.CommandKind = "UpdateUser"
	KindDeleteUser          mediator.CommandKind = "DeleteUser"
	KindActivateUserAccount mediator.CommandKind = "ActivateUserAccount"
	KindLogoutUser          mediator.CommandKind = "LogoutUser"
	KindResetPassword       mediator.CommandKind = "ResetPassword"
)

// Kinds lists every command the service handles.
var Kinds = []mediator.CommandKind{
	KindCreateUser,
	KindUpdateUser,
	KindDeleteUser,
	KindActivateUserAccount,
	KindLogoutUser,
	KindResetPassword,
}

type CreateUser struct {
	mediator.Envelope
	Name     string
	Email    string
	Password string
}

func (CreateUser) CommandKind() mediator.CommandKind { return KindCreateUser }

// UpdateUser changes only the fields that are set. A nil or empty field is
// left as stored.
type UpdateUser struct {
	mediator.Envelope
	ID    string
	Name  *string
	Email *string
}

func (UpdateUser) CommandKind() mediator.CommandKind { return KindUpdateUser }

type DeleteUser struct {
	mediator.Envelope
	ID string
}

func (DeleteUser) CommandKind() mediator.CommandKind { return KindDeleteUser }

// ActivateUserAccount carries the token from the activation email.
type ActivateUserAccount struct {
	mediator.Envelope
	Token string
}

func (ActivateUserAccount) CommandKind() mediator.CommandKind { return KindActivateUserAccount }

type LogoutUser struct {
	mediator.Envelope
	ID string
}

func (LogoutUser) CommandKind() mediator.CommandKind { return KindLogoutUser }

// ResetPassword carries the token from the reset email and the new password.
type ResetPassword struct {
	mediator.Envelope
	Token    string
	Password string
}

func (ResetPassword) CommandKind() mediator.CommandKind { return KindResetPassword }
