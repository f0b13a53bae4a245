// Package memory holds process-local implementations of the user store and
// cache, used for local runs, the seeder and handler tests.
package memory

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/apperror"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/entity"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/repository"
)

type UserRepository struct {
	mu      sync.RWMutex
	byID    map[string]*entity.User
	journal repository.Journal
}

func NewUserRepository() *UserRepository {
	return &UserRepository{byID: make(map[string]*entity.User)}
}

func (r *UserRepository) Create(_ context.Context, u *entity.User) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[u.ID]; ok {
		return nil, fmt.Errorf("memory: user %s already stored", u.ID)
	}
	if r.emailTaken(u.Email, "") {
		return nil, apperror.ErrDuplicateEmail
	}
	stored := u.Clone()
	r.byID[u.ID] = stored
	r.journal.Record(repository.WriteCreate, nil, stored)
	return stored.Clone(), nil
}

func (r *UserRepository) Get(_ context.Context, id string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, apperror.ErrUserNotFound
	}
	return u.Clone(), nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.byID {
		if u.Email == email {
			return u.Clone(), nil
		}
	}
	return nil, apperror.ErrUserNotFound
}

func (r *UserRepository) Update(_ context.Context, u *entity.User) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	before, ok := r.byID[u.ID]
	if !ok {
		return nil, apperror.ErrUserNotFound
	}
	if r.emailTaken(u.Email, u.ID) {
		return nil, apperror.ErrDuplicateEmail
	}
	stored := u.Clone()
	r.byID[u.ID] = stored
	r.journal.Record(repository.WriteUpdate, before, stored)
	return stored.Clone(), nil
}

func (r *UserRepository) Delete(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, apperror.ErrUserNotFound
	}
	delete(r.byID, id)
	r.journal.Record(repository.WriteDelete, u, nil)
	return u.Clone(), nil
}

// List orders by creation time, breaking ties by identity.
func (r *UserRepository) List(_ context.Context, page repository.Pagination, sort repository.SortOrder) ([]*entity.User, error) {
	page = page.Normalize()
	r.mu.RLock()
	all := make([]*entity.User, 0, len(r.byID))
	for _, u := range r.byID {
		all = append(all, u.Clone())
	}
	r.mu.RUnlock()

	slices.SortFunc(all, func(a, b *entity.User) int {
		c := a.CreatedAt.Compare(b.CreatedAt)
		if c == 0 {
			c = cmp.Compare(a.ID, b.ID)
		}
		if sort == repository.SortDesc {
			return -c
		}
		return c
	})
	if page.Skip >= len(all) {
		return []*entity.User{}, nil
	}
	end := min(page.Skip+page.Limit, len(all))
	return all[page.Skip:end], nil
}

var errNothingToRollback = errors.New("memory: nothing to roll back")

// Rollback reverts the last write. Calling it with no write recorded is an error.
func (r *UserRepository) Rollback(_ context.Context) error {
	w := r.journal.Take()
	if w == nil {
		return errNothingToRollback
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	switch w.Kind {
	case repository.WriteCreate:
		delete(r.byID, w.After.ID)
	case repository.WriteUpdate, repository.WriteDelete:
		r.byID[w.Before.ID] = w.Before
	}
	return nil
}

// Len reports how many users are stored.
func (r *UserRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

func (r *UserRepository) emailTaken(email, exceptID string) bool {
	for id, u := range r.byID {
		if id != exceptID && u.Email == email {
			return true
		}
	}
	return false
}
