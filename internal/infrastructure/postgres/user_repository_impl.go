package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/apperror"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/entity"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/repository"
)

const uniqueViolation = "23505"

const userColumns = `id, name, email, password_hash, is_active, is_logged_in, created_at, updated_at`

type UserRepository struct {
	pool    *pgxpool.Pool
	journal repository.Journal
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) (*entity.User, error) {
	out, err := r.insert(ctx, u)
	if err != nil {
		return nil, err
	}
	r.journal.Record(repository.WriteCreate, nil, out)
	return out, nil
}

func (r *UserRepository) Get(ctx context.Context, id string) (*entity.User, error) {
	return r.queryOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.queryOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) (*entity.User, error) {
	before, err := r.Get(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	out, err := r.overwrite(ctx, u)
	if err != nil {
		return nil, err
	}
	r.journal.Record(repository.WriteUpdate, before, out)
	return out, nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) (*entity.User, error) {
	out, err := r.queryOne(ctx, `DELETE FROM users WHERE id = $1 RETURNING `+userColumns, id)
	if err != nil {
		return nil, err
	}
	r.journal.Record(repository.WriteDelete, out, nil)
	return out, nil
}

func (r *UserRepository) List(ctx context.Context, page repository.Pagination, sort repository.SortOrder) ([]*entity.User, error) {
	page = page.Normalize()
	order := "ASC"
	if sort == repository.SortDesc {
		order = "DESC"
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		ORDER BY created_at `+order+`, id `+order+`
		OFFSET $1 LIMIT $2
	`, page.Skip, page.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*entity.User, 0, page.Limit)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Rollback applies the inverse of the last write made through r.
func (r *UserRepository) Rollback(ctx context.Context) error {
	w := r.journal.Take()
	if w == nil {
		return errors.New("postgres: nothing to roll back")
	}
	var err error
	switch w.Kind {
	case repository.WriteCreate:
		_, err = r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, w.After.ID)
	case repository.WriteUpdate:
		_, err = r.overwrite(ctx, w.Before)
	case repository.WriteDelete:
		_, err = r.insert(ctx, w.Before)
	}
	if err != nil {
		return fmt.Errorf("postgres rollback: %w", err)
	}
	return nil
}

func (r *UserRepository) insert(ctx context.Context, u *entity.User) (*entity.User, error) {
	return r.queryOne(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+userColumns,
		u.ID, u.Name, u.Email, u.Password, u.IsActive, u.IsLoggedIn, u.CreatedAt, u.UpdatedAt)
}

func (r *UserRepository) overwrite(ctx context.Context, u *entity.User) (*entity.User, error) {
	return r.queryOne(ctx, `
		UPDATE users
		SET name = $2, email = $3, password_hash = $4, is_active = $5, is_logged_in = $6, updated_at = $7
		WHERE id = $1
		RETURNING `+userColumns,
		u.ID, u.Name, u.Email, u.Password, u.IsActive, u.IsLoggedIn, u.UpdatedAt)
}

func (r *UserRepository) queryOne(ctx context.Context, sql string, args ...any) (*entity.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, translate(err)
	}
	return u, nil
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.IsActive, &u.IsLoggedIn,
		&u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()
	return u, nil
}

func translate(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperror.ErrUserNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return apperror.ErrDuplicateEmail
	}
	return err
}

var _ repository.UserRepository = (*UserRepository)(nil)
