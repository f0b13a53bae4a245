// Package mediator routes commands and queries to their handlers.
//
// Routing is keyed by an explicit kind value each request type reports, so a
// registration pairs a concrete request type with a handler for exactly that
// type at compile time. Dispatching a kind nobody registered is a wiring bug
// and panics.
package mediator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/apperror"
)

type CommandKind string

type QueryKind string

// Envelope carries the caller-supplied idempotency key. It is threaded into
// emitted events and never checked for replays.
type Envelope struct {
	IdempotencyKey string `json:"idempotency_key,omitempty"`
}

func (e Envelope) Key() string { return e.IdempotencyKey }

// Command is implemented by value types; the kind must not depend on field values.
type Command interface {
	CommandKind() CommandKind
	Key() string
}

type Query interface {
	QueryKind() QueryKind
	Key() string
}

type CommandHandler[C Command, R any] interface {
	Handle(ctx context.Context, cmd C) (R, error)
}

type QueryHandler[Q Query, R any] interface {
	Handle(ctx context.Context, q Q) (R, error)
}

// Recorder receives per-dispatch outcomes; metrics.Collector satisfies it.
type Recorder interface {
	RecordDispatch(kind, outcome string, d time.Duration)
}

type handlerFunc func(ctx context.Context, req any) (any, error)

type Mediator struct {
	mu       sync.RWMutex
	commands map[CommandKind]handlerFunc
	queries  map[QueryKind]handlerFunc
	logger   *logrus.Logger
	recorder Recorder
}

func New(logger *logrus.Logger, recorder Recorder) *Mediator {
	return &Mediator{
		commands: make(map[CommandKind]handlerFunc),
		queries:  make(map[QueryKind]handlerFunc),
		logger:   logger,
		recorder: recorder,
	}
}

// RegisterCommand binds the kind reported by C's zero value to h.
// Registering the same kind twice panics.
func RegisterCommand[C Command, R any](m *Mediator, h CommandHandler[C, R]) {
	var zero C
	kind := zero.CommandKind()
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, dup := m.commands[kind]; dup {
		panic(fmt.Sprintf("mediator: command %q registered twice", kind))
	}
	m.commands[kind] = func(ctx context.Context, req any) (any, error) {
		r, ok := req.(C)
		if !ok {
			panic(fmt.Errorf("mediator: %w for %T", apperror.ErrHandlerNotRegistered, req))
		}
		return h.Handle(ctx, r)
	}
}

// RegisterQuery binds the kind reported by Q's zero value to h.
func RegisterQuery[Q Query, R any](m *Mediator, h QueryHandler[Q, R]) {
	var zero Q
	kind := zero.QueryKind()
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, dup := m.queries[kind]; dup {
		panic(fmt.Sprintf("mediator: query %q registered twice", kind))
	}
	m.queries[kind] = func(ctx context.Context, req any) (any, error) {
		r, ok := req.(Q)
		if !ok {
			panic(fmt.Errorf("mediator: %w for %T", apperror.ErrHandlerNotRegistered, req))
		}
		return h.Handle(ctx, r)
	}
}

// Dispatch runs the handler registered for req's kind and returns its result.
// req must be a Command or a Query; anything else, or an unregistered kind,
// panics with apperror.ErrHandlerNotRegistered.
func (m *Mediator) Dispatch(ctx context.Context, req any) (any, error) {
	var (
		fn   handlerFunc
		ok   bool
		kind string
	)
	m.mu.RLock()
	switch r := req.(type) {
	case Command:
		kind = string(r.CommandKind())
		fn, ok = m.commands[r.CommandKind()]
	case Query:
		kind = string(r.QueryKind())
		fn, ok = m.queries[r.QueryKind()]
	default:
		kind = fmt.Sprintf("%T", req)
	}
	m.mu.RUnlock()
	if !ok {
		panic(fmt.Errorf("mediator: %w for %s", apperror.ErrHandlerNotRegistered, kind))
	}

	start := time.Now()
	res, err := fn(ctx, req)
	elapsed := time.Since(start)

	outcome := "ok"
	if err != nil {
		outcome = apperror.KindOf(err).String()
	}
	if m.recorder != nil {
		m.recorder.RecordDispatch(kind, outcome, elapsed)
	}
	if m.logger != nil {
		entry := m.logger.WithFields(logrus.Fields{"kind": kind, "outcome": outcome, "elapsed": elapsed})
		if err != nil {
			entry.WithError(err).Info("dispatch failed")
		} else {
			entry.Debug("dispatch")
		}
	}
	return res, err
}

// Send dispatches req and asserts the result to R. A handler registered with
// a different result type is a wiring bug and panics.
func Send[R any](ctx context.Context, m *Mediator, req any) (R, error) {
	res, err := m.Dispatch(ctx, req)
	if err != nil {
		var zero R
		return zero, err
	}
	out, ok := res.(R)
	if !ok {
		panic(fmt.Sprintf("mediator: handler returned %T, caller expected %T", res, out))
	}
	return out, nil
}

// Verify reports every listed kind that has no handler. Call it once at
// startup so missing wiring fails the deploy instead of a request.
func (m *Mediator) Verify(commands []CommandKind, queries []QueryKind) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var missing []string
	for _, k := range commands {
		if _, ok := m.commands[k]; !ok {
			missing = append(missing, "command "+string(k))
		}
	}
	for _, k := range queries {
		if _, ok := m.queries[k]; !ok {
			missing = append(missing, "query "+string(k))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("mediator: %w: %v", apperror.ErrHandlerNotRegistered, missing)
	}
	return nil
}
