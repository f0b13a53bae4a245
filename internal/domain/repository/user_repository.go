package repository

import (
	"context"

	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/entity"
)

// SortOrder orders listings by creation time.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// DefaultLimit applies when a listing asks for a non-positive page size.
const DefaultLimit = 10

// Pagination is an offset/limit window over a listing.
type Pagination struct {
	Skip  int
	Limit int
}

// Normalize clamps negative offsets and substitutes DefaultLimit for an empty page size.
func (p Pagination) Normalize() Pagination {
	if p.Skip < 0 {
		p.Skip = 0
	}
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	return p
}

// UserRepository defines the interface for user-related storage operations.
// Create rejects a taken email with apperror.ErrDuplicateEmail; lookups and
// deletes of a missing identity return apperror.ErrUserNotFound.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) (*entity.User, error)
	Get(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) (*entity.User, error)
	Delete(ctx context.Context, id string) (*entity.User, error)
	List(ctx context.Context, page Pagination, sort SortOrder) ([]*entity.User, error)

	// Rollback undoes the most recent write made through this repository.
	// It is a compensating action used by the unit of work, not a general undo.
	Rollback(ctx context.Context) error
}
