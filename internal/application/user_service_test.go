package application

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/oksasatya/go-ddd-user-mediator/internal/application/command"
	"github.com/oksasatya/go-ddd-user-mediator/internal/application/query"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/apperror"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/entity"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/event"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/queue"
	"github.com/oksasatya/go-ddd-user-mediator/internal/infrastructure/memory"
)

type recordingPublisher struct{ types []event.DetailType }

func (p *recordingPublisher) Publish(_ context.Context, e event.Event) error {
	p.types = append(p.types, e.DetailType)
	return nil
}

type recordingQueue struct{ ops []queue.Operation }

func (q *recordingQueue) Write(_ context.Context, _ *entity.User, op queue.Operation) error {
	q.ops = append(q.ops, op)
	return nil
}

type inbox struct{ sent []entity.Notification }

func (n *inbox) Send(_ context.Context, msg entity.Notification) error {
	n.sent = append(n.sent, msg)
	return nil
}

type plainHasher struct{}

func (plainHasher) Hash(p string) (string, error) { return "hashed:" + p, nil }
func (plainHasher) Verify(p, h string) bool       { return h == "hashed:"+p }

type prefixCodec string

func (c prefixCodec) Issue(id string) (string, error) { return string(c) + "." + id, nil }

func (c prefixCodec) Decode(tok string) (string, error) {
	id, ok := strings.CutPrefix(tok, string(c)+".")
	if !ok {
		return "", apperror.ErrInvalidToken
	}
	return id, nil
}

func newTestService(t *testing.T) (*Service, *recordingPublisher, *recordingQueue, *inbox) {
	t.Helper()
	repo := memory.NewUserRepository()
	pub := &recordingPublisher{}
	q := &recordingQueue{}
	mail := &inbox{}
	m := NewMediator(Dependencies{
		Users:            repo,
		Cache:            memory.NewUserCache(repo),
		Events:           pub,
		Queue:            q,
		Notifier:         mail,
		Hasher:           plainHasher{},
		AccessTokens:     prefixCodec("access"),
		ActivationTokens: prefixCodec("activation"),
		ResetTokens:      prefixCodec("reset"),
	})
	if err := VerifyMediator(m); err != nil {
		t.Fatalf("verify: %v", err)
	}
	return NewService(m, nil, nil), pub, q, mail
}

func TestService_AccountLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, pub, q, mail := newTestService(t)

	u, err := svc.Register(ctx, command.CreateUser{Name: "Ann", Email: "ann@x.com", Password: "pw"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Login(ctx, query.LoginUser{Email: "ann@x.com", Password: "pw"}); !errors.Is(err, apperror.ErrAccountNotActive) {
		t.Fatalf("login before activation: %v", err)
	}
	if len(mail.sent) != 1 || mail.sent[0].Kind != entity.AccountActivation {
		t.Fatalf("activation mail: %+v", mail.sent)
	}
	if _, err := svc.Activate(ctx, command.ActivateUserAccount{Token: "activation." + u.ID}); err != nil {
		t.Fatalf("activate: %v", err)
	}
	tok, err := svc.Login(ctx, query.LoginUser{Email: "ann@x.com", Password: "pw"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	me, err := svc.Me(ctx, query.GetUserFromToken{Token: tok.AccessToken})
	if err != nil || !me.IsLoggedIn {
		t.Fatalf("me = %+v, %v", me, err)
	}
	if _, err := svc.Logout(ctx, command.LogoutUser{ID: u.ID}); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if err := svc.RequestPasswordReset(ctx, query.RequestPasswordReset{ID: u.ID}); err != nil {
		t.Fatalf("reset request: %v", err)
	}
	if _, err := svc.ResetPassword(ctx, command.ResetPassword{Token: "reset." + u.ID, Password: "pw2"}); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if _, err := svc.Login(ctx, query.LoginUser{Email: "ann@x.com", Password: "pw"}); !errors.Is(err, apperror.ErrInvalidCredentials) {
		t.Fatalf("old password still works: %v", err)
	}
	if _, err := svc.Delete(ctx, command.DeleteUser{ID: u.ID}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, query.GetUser{ID: u.ID}); !errors.Is(err, apperror.ErrUserNotFound) {
		t.Fatalf("get after delete: %v", err)
	}

	wantEvents := []event.DetailType{
		event.UserCreated, event.UserAccountActivated, event.UserLoggedIn, event.TokenDecoded,
		event.UserLoggedOut, event.PasswordResetRequested, event.PasswordResetConfirmed, event.UserDeleted,
	}
	if len(pub.types) != len(wantEvents) {
		t.Fatalf("events = %v", pub.types)
	}
	for i := range wantEvents {
		if pub.types[i] != wantEvents[i] {
			t.Fatalf("events = %v, want %v", pub.types, wantEvents)
		}
	}
	wantOps := []queue.Operation{queue.OpCreate, queue.OpUpdate, queue.OpUpdate, queue.OpUpdate, queue.OpDelete}
	if len(q.ops) != len(wantOps) {
		t.Fatalf("queue ops = %v, want %v", q.ops, wantOps)
	}
}

func TestService_ListPassesPagination(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newTestService(t)
	for _, e := range []string{"a@x.com", "b@x.com", "c@x.com"} {
		if _, err := svc.Register(ctx, command.CreateUser{Name: e, Email: e, Password: "pw"}); err != nil {
			t.Fatal(err)
		}
	}
	users, err := svc.List(ctx, query.ListUsers{Skip: 1, Limit: 5})
	if err != nil || len(users) != 2 {
		t.Fatalf("list = %d users, %v", len(users), err)
	}
}

func TestService_SearchWithoutProjection(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	out, err := svc.SearchUsers(context.Background(), "ann", 0)
	if err != nil || len(out) != 0 {
		t.Fatalf("search = %v, %v", out, err)
	}
}
