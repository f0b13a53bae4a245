// Package query holds the read-side use cases. Login lives here as well: it
// answers with a token even though it flips the logged-in flag.
package query

import (
	"github.com/oksasatya/go-ddd-user-mediator/internal/application/mediator"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/repository"
)

const (
	KindGetUser              mediator.QueryKind = "GetUser"
	KindListUsers            mediator.QueryKind = "ListUsers"
	KindLoginUser            mediator.QueryKind = "LoginUser"
	KindGetUserFromToken     mediator.QueryKind = "GetUserFromToken"
	KindRequestPasswordReset mediator.QueryKind = "RequestPasswordReset"
)

var Kinds = []mediator.QueryKind{
	KindGetUser,
	KindListUsers,
	KindLoginUser,
	KindGetUserFromToken,
	KindRequestPasswordReset,
}

type GetUser struct {
	mediator.Envelope
	ID string
}

func (GetUser) QueryKind() mediator.QueryKind { return KindGetUser }

type ListUsers struct {
	mediator.Envelope
	Skip  int
	Limit int
	Sort  repository.SortOrder
}

func (ListUsers) QueryKind() mediator.QueryKind { return KindListUsers }

type LoginUser struct {
	mediator.Envelope
	Email    string
	Password string
}

func (LoginUser) QueryKind() mediator.QueryKind { return KindLoginUser }

// GetUserFromToken resolves the owner of an access token.
type GetUserFromToken struct {
	mediator.Envelope
	Token string
}

func (GetUserFromToken) QueryKind() mediator.QueryKind { return KindGetUserFromToken }

type RequestPasswordReset struct {
	mediator.Envelope
	ID string
}

func (RequestPasswordReset) QueryKind() mediator.QueryKind { return KindRequestPasswordReset }
