package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/apperror"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/entity"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/repository"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func seedUser(id, email string, offset time.Duration) *entity.User {
	return &entity.User{ID: id, Name: id, Email: email, Password: "hash", CreatedAt: t0.Add(offset), UpdatedAt: t0.Add(offset)}
}

func TestUserRepository_CreateRejectsDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	r := NewUserRepository()
	if _, err := r.Create(ctx, seedUser("US-1", "ann@x.com", 0)); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := r.Create(ctx, seedUser("US-2", "ann@x.com", 0))
	if !errors.Is(err, apperror.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
	if r.Len() != 1 {
		t.Errorf("len = %d, want 1", r.Len())
	}
}

func TestUserRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	r := NewUserRepository()
	_, _ = r.Create(ctx, seedUser("US-1", "ann@x.com", 0))

	got, _ := r.Get(ctx, "US-1")
	got.Name = "mutated"

	again, _ := r.Get(ctx, "US-1")
	if again.Name != "US-1" {
		t.Errorf("stored user mutated through returned pointer: %q", again.Name)
	}
}

func TestUserRepository_GetMissing(t *testing.T) {
	r := NewUserRepository()
	if _, err := r.Get(context.Background(), "nope"); !errors.Is(err, apperror.ErrUserNotFound) {
		t.Fatalf("Get: %v", err)
	}
	if _, err := r.GetByEmail(context.Background(), "nope@x.com"); !errors.Is(err, apperror.ErrUserNotFound) {
		t.Fatalf("GetByEmail: %v", err)
	}
	if _, err := r.Delete(context.Background(), "nope"); !errors.Is(err, apperror.ErrUserNotFound) {
		t.Fatalf("Delete: %v", err)
	}
}

func TestUserRepository_RollbackRevertsLastWrite(t *testing.T) {
	ctx := context.Background()

	t.Run("create", func(t *testing.T) {
		r := NewUserRepository()
		_, _ = r.Create(ctx, seedUser("US-1", "ann@x.com", 0))
		if err := r.Rollback(ctx); err != nil {
			t.Fatal(err)
		}
		if r.Len() != 0 {
			t.Errorf("len = %d after rollback", r.Len())
		}
	})

	t.Run("update", func(t *testing.T) {
		r := NewUserRepository()
		u, _ := r.Create(ctx, seedUser("US-1", "ann@x.com", 0))
		u.Name = "Changed"
		_, _ = r.Update(ctx, u)
		_ = r.Rollback(ctx)
		got, _ := r.Get(ctx, "US-1")
		if got.Name != "US-1" {
			t.Errorf("name = %q, want original", got.Name)
		}
	})

	t.Run("delete", func(t *testing.T) {
		r := NewUserRepository()
		_, _ = r.Create(ctx, seedUser("US-1", "ann@x.com", 0))
		_, _ = r.Delete(ctx, "US-1")
		_ = r.Rollback(ctx)
		if _, err := r.Get(ctx, "US-1"); err != nil {
			t.Errorf("user not restored: %v", err)
		}
	})

	t.Run("empty slot", func(t *testing.T) {
		r := NewUserRepository()
		if err := r.Rollback(ctx); err == nil {
			t.Fatal("expected error with nothing recorded")
		}
	})
}

func TestUserRepository_ListPaginatesAndSorts(t *testing.T) {
	ctx := context.Background()
	r := NewUserRepository()
	for i, id := range []string{"US-c", "US-a", "US-b"} {
		_, _ = r.Create(ctx, seedUser(id, id+"@x.com", time.Duration(i)*time.Minute))
	}

	tests := []struct {
		name string
		page repository.Pagination
		sort repository.SortOrder
		want []string
	}{
		{"asc all", repository.Pagination{}, repository.SortAsc, []string{"US-c", "US-a", "US-b"}},
		{"desc all", repository.Pagination{}, repository.SortDesc, []string{"US-b", "US-a", "US-c"}},
		{"skip and limit", repository.Pagination{Skip: 1, Limit: 1}, repository.SortAsc, []string{"US-a"}},
		{"skip past end", repository.Pagination{Skip: 10}, repository.SortAsc, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.List(ctx, tt.page, tt.sort)
			if err != nil {
				t.Fatal(err)
			}
			ids := make([]string, len(got))
			for i, u := range got {
				ids[i] = u.ID
			}
			if len(ids) != len(tt.want) {
				t.Fatalf("got %v, want %v", ids, tt.want)
			}
			for i := range ids {
				if ids[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", ids, tt.want)
				}
			}
		})
	}
}
