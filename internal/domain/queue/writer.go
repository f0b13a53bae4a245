// Package queue describes change notifications appended to the downstream
// durable queue for asynchronous consumers.
package queue

import (
	"context"

	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/entity"
)

// Operation is the kind of change carried by a Message.
type Operation string

const (
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// Message is the payload written to the downstream queue.
type Message struct {
	Command Operation      `json:"command"`
	Data    map[string]any `json:"data"`
}

// NewMessage snapshots u so the message is unaffected by later mutation.
func NewMessage(u *entity.User, op Operation) Message {
	return Message{Command: op, Data: u.Snapshot()}
}

// Writer appends a change notification. Implementations report transport
// failures wrapped in apperror.ErrQueueWrite.
type Writer interface {
	Write(ctx context.Context, u *entity.User, op Operation) error
}
