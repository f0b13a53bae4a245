package memory

import (
	"context"
	"sync"

	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/entity"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/repository"
)

// UserCache is a map-backed read-through cache over a repository.
type UserCache struct {
	mu    sync.RWMutex
	items map[string]*entity.User
	repo  repository.UserRepository
}

func NewUserCache(repo repository.UserRepository) *UserCache {
	return &UserCache{items: make(map[string]*entity.User), repo: repo}
}

func (c *UserCache) Get(ctx context.Context, id string) (*entity.User, error) {
	c.mu.RLock()
	u, ok := c.items[id]
	c.mu.RUnlock()
	if ok {
		return u.Clone(), nil
	}
	u, err := c.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.items[id] = u.Clone()
	c.mu.Unlock()
	return u, nil
}

func (c *UserCache) Set(_ context.Context, id string, u *entity.User) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[id] = u.Clone()
	return nil
}

func (c *UserCache) Delete(_ context.Context, id string) (*entity.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	u, ok := c.items[id]
	if !ok {
		return nil, nil
	}
	delete(c.items, id)
	return u, nil
}

func (c *UserCache) Repository() repository.UserRepository { return c.repo }

// Peek returns the cached value without reading through.
func (c *UserCache) Peek(id string) (*entity.User, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	u, ok := c.items[id]
	return u.Clone(), ok
}
