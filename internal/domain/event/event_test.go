package event

import (
	"context"
	"errors"
	"testing"
)

func TestNew_CopiesData(t *testing.T) {
	data := map[string]any{"id": "US-1", "email": "ann@x.com"}
	e := New(UserCreated, "key-1", data)

	data["email"] = "changed@x.com"

	if got := e.Detail.Data["email"]; got != "ann@x.com" {
		t.Errorf("event data mutated through caller map: got %v", got)
	}
	if e.Source != Source {
		t.Errorf("source = %q, want %q", e.Source, Source)
	}
	if e.Detail.Metadata.IdempotencyKey != "key-1" {
		t.Errorf("idempotency key = %q", e.Detail.Metadata.IdempotencyKey)
	}
}

type publisherFunc func(ctx context.Context, e Event) error

func (f publisherFunc) Publish(ctx context.Context, e Event) error { return f(ctx, e) }

func TestFanout_PublishesToAllSinksAndJoinsErrors(t *testing.T) {
	errSink := errors.New("sink down")
	calls := 0
	ok := publisherFunc(func(ctx context.Context, e Event) error { calls++; return nil })
	bad := publisherFunc(func(ctx context.Context, e Event) error { calls++; return errSink })

	err := Fanout{ok, bad, ok}.Publish(context.Background(), New(UserFetched, "", nil))
	if !errors.Is(err, errSink) {
		t.Fatalf("expected joined sink error, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 sink calls, got %d", calls)
	}
}

func TestFanout_Empty(t *testing.T) {
	if err := (Fanout{}).Publish(context.Background(), New(UserFetched, "", nil)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
