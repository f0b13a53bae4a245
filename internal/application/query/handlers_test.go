package query

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/apperror"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/entity"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/event"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/repository"
)

func TestGetUser_PublishesFetchEvent(t *testing.T) {
	f := newFixture(t, activeUser("US-1", "a@x.com", 0))
	h := &GetUserHandler{Cache: f.cache, Events: f.pub}

	u, err := h.Handle(context.Background(), GetUser{ID: "US-1"})
	if err != nil || u.Email != "a@x.com" {
		t.Fatalf("Handle = %+v, %v", u, err)
	}
	if f.pub.events[0].DetailType != event.UserFetched {
		t.Errorf("detail type = %s", f.pub.events[0].DetailType)
	}
	if _, ok := f.cache.Peek("US-1"); !ok {
		t.Error("read did not populate the cache")
	}
}

func TestGetUser_PublishFailureDoesNotRollBack(t *testing.T) {
	f := newFixture(t, activeUser("US-1", "a@x.com", 0))
	f.pub.err = errors.New("down")
	h := &GetUserHandler{Cache: f.cache, Events: f.pub}

	if _, err := h.Handle(context.Background(), GetUser{ID: "US-1"}); !errors.Is(err, apperror.ErrEventPublication) {
		t.Fatalf("expected ErrEventPublication, got %v", err)
	}
	if f.repo.rollbacks != 0 {
		t.Error("read-only unit rolled back")
	}
}

func TestListUsers(t *testing.T) {
	f := newFixture(t,
		activeUser("US-1", "a@x.com", 0),
		activeUser("US-2", "b@x.com", time.Minute),
		activeUser("US-3", "c@x.com", 2*time.Minute),
	)
	h := &ListUsersHandler{Users: f.repo, Events: f.pub}

	users, err := h.Handle(context.Background(), ListUsers{Limit: 2, Sort: repository.SortDesc})
	if err != nil {
		t.Fatal(err)
	}
	if len(users) != 2 || users[0].ID != "US-3" || users[1].ID != "US-2" {
		t.Fatalf("unexpected page %+v", users)
	}
	e := f.pub.events[0]
	snaps, ok := e.Detail.Data["users"].([]map[string]any)
	if e.DetailType != event.UsersListed || !ok || len(snaps) != 2 {
		t.Errorf("unexpected event %+v", e)
	}
}

func newLoginHandler(f *fixture) *LoginUserHandler {
	return &LoginUserHandler{Cache: f.cache, Events: f.pub, Hasher: plainHasher{}, Tokens: prefixCodec("access")}
}

func TestLoginUser(t *testing.T) {
	f := newFixture(t, activeUser("US-1", "a@x.com", 0))
	ctx := context.Background()
	_, _ = f.cache.Get(ctx, "US-1")

	tok, err := newLoginHandler(f).Handle(ctx, LoginUser{Email: "a@x.com", Password: "pw"})
	if err != nil {
		t.Fatal(err)
	}
	if tok.AccessToken != "access:US-1" || tok.TokenType != TokenType {
		t.Errorf("token = %+v", tok)
	}
	stored, _ := f.repo.Get(ctx, "US-1")
	if !stored.IsLoggedIn {
		t.Error("not marked logged in")
	}
	cached, _ := f.cache.Get(ctx, "US-1")
	if !cached.IsLoggedIn {
		t.Error("cache still serves the pre-login value")
	}
	e := f.pub.events[0]
	if e.DetailType != event.UserLoggedIn {
		t.Errorf("detail type = %s", e.DetailType)
	}
	if _, ok := e.Detail.Data["password"]; ok {
		t.Error("UserLoggedIn carries the credential")
	}
}

func TestLoginUser_Rejections(t *testing.T) {
	inactive := activeUser("US-2", "b@x.com", 0)
	inactive.IsActive = false

	tests := []struct {
		name     string
		email    string
		password string
		want     error
	}{
		{"wrong password", "a@x.com", "nope", apperror.ErrInvalidCredentials},
		{"unknown email", "z@x.com", "pw", apperror.ErrInvalidCredentials},
		{"inactive", "b@x.com", "pw", apperror.ErrAccountNotActive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, activeUser("US-1", "a@x.com", 0), inactive.Clone())

			_, err := newLoginHandler(f).Handle(context.Background(), LoginUser{Email: tt.email, Password: tt.password})
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if len(f.pub.events) != 0 || f.repo.writes != 0 || f.repo.rollbacks != 0 {
				t.Errorf("side effects: events=%d writes=%d rollbacks=%d", len(f.pub.events), f.repo.writes, f.repo.rollbacks)
			}
		})
	}
}

func TestLoginUser_PublishFailureRevertsLogin(t *testing.T) {
	f := newFixture(t, activeUser("US-1", "a@x.com", 0))
	f.pub.err = errors.New("down")

	if _, err := newLoginHandler(f).Handle(context.Background(), LoginUser{Email: "a@x.com", Password: "pw"}); !errors.Is(err, apperror.ErrEventPublication) {
		t.Fatalf("expected ErrEventPublication, got %v", err)
	}
	stored, _ := f.repo.Get(context.Background(), "US-1")
	if stored.IsLoggedIn {
		t.Error("login not rolled back")
	}
}

func TestGetUserFromToken(t *testing.T) {
	f := newFixture(t, activeUser("US-1", "a@x.com", 0))
	h := &GetUserFromTokenHandler{Cache: f.cache, Events: f.pub, Tokens: prefixCodec("access")}

	u, err := h.Handle(context.Background(), GetUserFromToken{Token: "access:US-1"})
	if err != nil || u.ID != "US-1" {
		t.Fatalf("Handle = %+v, %v", u, err)
	}
	if f.pub.events[0].DetailType != event.TokenDecoded {
		t.Errorf("detail type = %s", f.pub.events[0].DetailType)
	}

	if _, err := h.Handle(context.Background(), GetUserFromToken{Token: "garbage"}); !errors.Is(err, apperror.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestRequestPasswordReset(t *testing.T) {
	f := newFixture(t, activeUser("US-1", "a@x.com", 0))
	n := &spyNotifier{}
	h := &RequestPasswordResetHandler{
		Cache: f.cache, Events: f.pub, Notifier: n,
		Tokens: prefixCodec("reset"), ResetURL: "http://localhost/reset",
	}

	if _, err := h.Handle(context.Background(), RequestPasswordReset{ID: "US-1"}); err != nil {
		t.Fatal(err)
	}
	if f.repo.writes != 0 {
		t.Error("reset request wrote to the store")
	}
	e := f.pub.events[0]
	if e.DetailType != event.PasswordResetRequested {
		t.Errorf("detail type = %s", e.DetailType)
	}
	if _, ok := e.Detail.Data["password"]; ok {
		t.Error("PasswordResetRequested carries the credential")
	}
	if len(n.sent) != 1 || n.sent[0].Kind != entity.PasswordReset || n.sent[0].Link != "http://localhost/reset?token=reset%3AUS-1" {
		t.Errorf("unexpected notification %+v", n.sent)
	}
}

func TestRequestPasswordReset_NotifierFailure(t *testing.T) {
	f := newFixture(t, activeUser("US-1", "a@x.com", 0))
	h := &RequestPasswordResetHandler{
		Cache: f.cache, Events: f.pub, Notifier: &spyNotifier{err: errors.New("smtp")},
		Tokens: prefixCodec("reset"),
	}

	if _, err := h.Handle(context.Background(), RequestPasswordReset{ID: "US-1"}); !errors.Is(err, apperror.ErrNotification) {
		t.Fatalf("expected ErrNotification, got %v", err)
	}
}
