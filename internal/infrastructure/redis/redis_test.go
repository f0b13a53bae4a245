package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/apperror"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/entity"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/event"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/queue"
)

func TestCachedUser_KeepsCredential(t *testing.T) {
	u := &entity.User{ID: "US-1", Email: "a@x.com", Password: "$2a$hash", IsActive: true, CreatedAt: time.Unix(10, 0).UTC()}

	b, err := json.Marshal(toCached(u))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), `"password_hash":"$2a$hash"`) {
		t.Fatalf("cached form = %s", b)
	}

	var cu cachedUser
	if err := json.Unmarshal(b, &cu); err != nil {
		t.Fatal(err)
	}
	got := cu.entity()
	if got.Password != u.Password || !got.IsActive || !got.CreatedAt.Equal(u.CreatedAt) {
		t.Errorf("round trip = %+v", got)
	}
}

func TestCacheKey(t *testing.T) {
	if got := cacheKey("US-1"); got != "user:cache:US-1" {
		t.Errorf("cacheKey = %q", got)
	}
}

// unreachable returns a client whose every command fails at dial time.
func unreachable() *goredis.Client {
	return goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:1", DialTimeout: 200 * time.Millisecond, MaxRetries: -1})
}

func TestEventPublisher_WrapsTransportFailure(t *testing.T) {
	rdb := unreachable()
	defer func() { _ = rdb.Close() }()

	err := NewEventPublisher(rdb, "events").Publish(context.Background(), event.New(event.UserCreated, "", nil))
	if !errors.Is(err, apperror.ErrEventPublication) {
		t.Fatalf("err = %v", err)
	}
}

func TestQueueWriter_WrapsTransportFailure(t *testing.T) {
	rdb := unreachable()
	defer func() { _ = rdb.Close() }()

	err := NewQueueWriter(rdb, "alarm_queue").Write(context.Background(), &entity.User{ID: "US-1"}, queue.OpCreate)
	if !errors.Is(err, apperror.ErrQueueWrite) {
		t.Fatalf("err = %v", err)
	}
}
