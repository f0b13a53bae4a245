package repository

import (
	"context"

	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/entity"
)

// UserCache is a read-through working copy of users keyed by identity.
// It owns a reference to the repository it shadows.
type UserCache interface {
	// Get returns the cached user, pulling it from the repository on a miss.
	Get(ctx context.Context, id string) (*entity.User, error)
	Set(ctx context.Context, id string, u *entity.User) error
	// Delete evicts id and returns the evicted value, or nil when absent.
	Delete(ctx context.Context, id string) (*entity.User, error)
	Repository() UserRepository
}
