// Package redis backs the user cache, the event channel and the downstream
// change queue with a Redis server.
package redis

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/entity"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/repository"
	"github.com/oksasatya/go-ddd-user-mediator/pkg/helpers"
)

const cacheKeyPrefix = "user:cache:"

// cachedUser mirrors entity.User but keeps the credential, which the entity's
// JSON form drops.
type cachedUser struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Password   string    `json:"password_hash"`
	IsActive   bool      `json:"is_active"`
	IsLoggedIn bool      `json:"is_logged_in"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func toCached(u *entity.User) cachedUser {
	return cachedUser{
		ID: u.ID, Name: u.Name, Email: u.Email, Password: u.Password,
		IsActive: u.IsActive, IsLoggedIn: u.IsLoggedIn, CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt,
	}
}

func (c cachedUser) entity() *entity.User {
	return &entity.User{
		ID: c.ID, Name: c.Name, Email: c.Email, Password: c.Password,
		IsActive: c.IsActive, IsLoggedIn: c.IsLoggedIn, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt,
	}
}

type UserCache struct {
	rdb  *goredis.Client
	repo repository.UserRepository
	ttl  time.Duration
}

// NewUserCache binds a cache to repo. A zero ttl keeps entries until evicted.
func NewUserCache(rdb *goredis.Client, repo repository.UserRepository, ttl time.Duration) *UserCache {
	return &UserCache{rdb: rdb, repo: repo, ttl: ttl}
}

func cacheKey(id string) string { return cacheKeyPrefix + id }

func (c *UserCache) Get(ctx context.Context, id string) (*entity.User, error) {
	var cu cachedUser
	ok, err := helpers.RedisGetJSON(ctx, c.rdb, cacheKey(id), &cu)
	if err != nil {
		return nil, err
	}
	if ok {
		return cu.entity(), nil
	}
	u, err := c.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.Set(ctx, id, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (c *UserCache) Set(ctx context.Context, id string, u *entity.User) error {
	return helpers.RedisSetJSON(ctx, c.rdb, cacheKey(id), toCached(u), c.ttl)
}

// Delete evicts id atomically and returns what was cached.
func (c *UserCache) Delete(ctx context.Context, id string) (*entity.User, error) {
	var cu cachedUser
	ok, err := helpers.RedisGetDelJSON(ctx, c.rdb, cacheKey(id), &cu)
	if err != nil || !ok {
		return nil, err
	}
	return cu.entity(), nil
}

func (c *UserCache) Repository() repository.UserRepository { return c.repo }

var _ repository.UserCache = (*UserCache)(nil)
