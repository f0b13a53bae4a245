package command

import (
	"context"
	"strings"
	"sync"

	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/apperror"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/entity"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/event"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/queue"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/repository"
)

type spyPublisher struct {
	mu     sync.Mutex
	events []event.Event
	err    error
}

func (p *spyPublisher) Publish(_ context.Context, e event.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, e)
	return nil
}

type spyQueue struct {
	messages []queue.Message
	err      error
}

func (q *spyQueue) Write(_ context.Context, u *entity.User, op queue.Operation) error {
	if q.err != nil {
		return q.err
	}
	q.messages = append(q.messages, queue.NewMessage(u, op))
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

// countingRepo counts writes and rollbacks that reach the wrapped store.
type countingRepo struct {
	repository.UserRepository
	writes, rollbacks int
}

func (r *countingRepo) Create(ctx context.Context, u *entity.User) (*entity.User, error) {
	out, err := r.UserRepository.Create(ctx, u)
	if err == nil {
		r.writes++
	}
	return out, err
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

// prefixCodec encodes an identity as "<purpose>:<id>".
type prefixCodec string

func (c prefixCodec) Issue(id string) (string, error) { return string(c) + ":" + id, nil }

func (c prefixCodec) Decode(tok string) (string, error) {
	id, ok := strings.CutPrefix(tok, string(c)+":")
	if !ok || id == "" {
		return "", apperror.ErrInvalidToken
	}
	return id, nil
}

func strPtr(s string) *string { return &s }

func hasCredential(data map[string]any) bool {
	_, ok := data["password"]
	return ok
}
