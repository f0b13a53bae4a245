package query

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/apperror"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/entity"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/event"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/repository"
	"github.com/oksasatya/go-ddd-user-mediator/internal/infrastructure/memory"
)

type spyPublisher struct {
	events []event.Event
	err    error
}

func (p *spyPublisher) Publish(_ context.Context, e event.Event) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, e)
	return nil
}

type spyNotifier struct {
	sent []entity.Notification
	err  error
}

func (n *spyNotifier) Send(_ context.Context, msg entity.Notification) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, msg)
	return nil
}

type countingRepo struct {
	repository.UserRepository
	writes, rollbacks int
}

func (r *countingRepo) Update(ctx context.Context, u *entity.User) (*entity.User, error) {
	out, err := r.UserRepository.Update(ctx, u)
	if err == nil {
		r.writes++
	}
	return out, err
}

func (r *countingRepo) Rollback(ctx context.Context) error {
	r.rollbacks++
	return r.UserRepository.Rollback(ctx)
}

type plainHasher struct{}

func (plainHasher) Hash(p string) (string, error) { return "hashed:" + p, nil }
func (plainHasher) Verify(p, h string) bool       { return h == "hashed:"+p }

type prefixCodec string

func (c prefixCodec) Issue(id string) (string, error) { return string(c) + ":" + id, nil }

func (c prefixCodec) Decode(tok string) (string, error) {
	id, ok := strings.CutPrefix(tok, string(c)+":")
	if !ok || id == "" {
		return "", apperror.ErrInvalidToken
	}
	return id, nil
}

type fixture struct {
	repo  *countingRepo
	cache *memory.UserCache
	pub   *spyPublisher
}

func newFixture(t *testing.T, users ...*entity.User) *fixture {
	t.Helper()
	repo := &countingRepo{UserRepository: memory.NewUserRepository()}
	for _, u := range users {
		if _, err := repo.Create(context.Background(), u); err != nil {
			t.Fatal(err)
		}
	}
	return &fixture{repo: repo, cache: memory.NewUserCache(repo), pub: &spyPublisher{}}
}

var base = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func activeUser(id, email string, offset time.Duration) *entity.User {
	return &entity.User{
		ID: id, Name: id, Email: email, Password: "hashed:pw",
		IsActive: true, CreatedAt: base.Add(offset), UpdatedAt: base.Add(offset),
	}
}
