package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/apperror"
)

func TestUserCache_ReadsThroughOnMiss(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()
	_, _ = repo.Create(ctx, seedUser("US-1", "ann@x.com", 0))
	c := NewUserCache(repo)

	if _, ok := c.Peek("US-1"); ok {
		t.Fatal("cache should start empty")
	}
	u, err := c.Get(ctx, "US-1")
	if err != nil || u.Email != "ann@x.com" {
		t.Fatalf("Get = %+v, %v", u, err)
	}
	if _, ok := c.Peek("US-1"); !ok {
		t.Error("miss did not populate the cache")
	}
}

func TestUserCache_MissingUser(t *testing.T) {
	c := NewUserCache(NewUserRepository())
	if _, err := c.Get(context.Background(), "US-x"); !errors.Is(err, apperror.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserCache_DeleteReturnsEvictedValue(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()
	c := NewUserCache(repo)
	_ = c.Set(ctx, "US-1", seedUser("US-1", "ann@x.com", 0))

	got, err := c.Delete(ctx, "US-1")
	if err != nil || got == nil || got.ID != "US-1" {
		t.Fatalf("Delete = %+v, %v", got, err)
	}
	got, err = c.Delete(ctx, "US-1")
	if err != nil || got != nil {
		t.Fatalf("second Delete = %+v, %v", got, err)
	}
	if c.Repository() != repo {
		t.Error("Repository() does not expose the bound store")
	}
}
