// Package uow coordinates the resources touched by one handler invocation and
// compensates the primary store when a downstream step fails after a write.
package uow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-user-mediator/internal/application/port"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/apperror"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/entity"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/event"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/queue"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/repository"
)

type State int

const (
	StateIdle State = iota
	StateOpen
	StateCommitted
	StateCompensated
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateCommitted:
		return "committed"
	case StateCompensated:
		return "compensated"
	default:
		return "idle"
	}
}

// Recorder receives compensation outcomes; metrics.Collector satisfies it.
type Recorder interface {
	RecordCompensation(rolledBack bool)
	RecordRollbackFailure()
}

// UnitOfWork is bound to exactly the collaborators one handler needs and is
// used for a single invocation.
type UnitOfWork struct {
	Users    repository.UserRepository
	Cache    repository.UserCache
	Events   event.Publisher
	Queue    queue.Writer
	Notifier port.Notifier

	readOnly bool
	logger   *logrus.Logger
	recorder Recorder
	state    State
}

type Option func(*UnitOfWork)

func WithRepository(r repository.UserRepository) Option {
	return func(u *UnitOfWork) { u.Users = r }
}

func WithCache(c repository.UserCache) Option {
	return func(u *UnitOfWork) { u.Cache = c }
}

func WithPublisher(p event.Publisher) Option {
	return func(u *UnitOfWork) { u.Events = p }
}

func WithQueue(w queue.Writer) Option {
	return func(u *UnitOfWork) { u.Queue = w }
}

func WithNotifier(n port.Notifier) Option {
	return func(u *UnitOfWork) { u.Notifier = n }
}

func WithLogger(l *logrus.Logger) Option {
	return func(u *UnitOfWork) { u.logger = l }
}

func WithRecorder(r Recorder) Option {
	return func(u *UnitOfWork) { u.recorder = r }
}

// ReadOnly marks a unit whose handler never writes; it never rolls back.
func ReadOnly() Option {
	return func(u *UnitOfWork) { u.readOnly = true }
}

// Factory stamps the ambient logger and recorder onto every unit it builds.
// Handlers embed it.
type Factory struct {
	Logger   *logrus.Logger
	Recorder Recorder
	Now      func() time.Time
}

// Clock returns the current time in UTC, from Now when set.
func (f Factory) Clock() time.Time {
	if f.Now == nil {
		return time.Now().UTC()
	}
	return f.Now().UTC()
}

func (f Factory) Unit(opts ...Option) *UnitOfWork {
	u := New(opts...)
	if u.logger == nil {
		u.logger = f.Logger
	}
	if u.recorder == nil {
		u.recorder = f.Recorder
	}
	return u
}

func New(opts ...Option) *UnitOfWork {
	u := &UnitOfWork{}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func (u *UnitOfWork) State() State { return u.state }

// Begin opens the unit. A unit can be opened once.
func (u *UnitOfWork) Begin() {
	if u.state != StateIdle {
		panic(fmt.Sprintf("uow: begin called in state %s", u.state))
	}
	u.state = StateOpen
}

// End closes the unit. A nil err commits. An event-publication or queue-write
// failure rolls back the bound repository (the one behind the cache for
// cache-scoped units, leaving the cache itself alone). Any other error closes
// the unit without rollback. err is always returned unchanged.
func (u *UnitOfWork) End(ctx context.Context, err error) error {
	if u.state != StateOpen {
		panic(fmt.Sprintf("uow: end called in state %s", u.state))
	}
	if err == nil {
		u.state = StateCommitted
		return nil
	}
	u.state = StateCompensated

	repo := u.rollbackTarget()
	if u.readOnly || repo == nil || !apperror.IsCompensable(err) {
		u.recordCompensation(false)
		return err
	}

	// compensation must run even when the caller has gone away
	if rbErr := repo.Rollback(context.WithoutCancel(ctx)); rbErr != nil {
		if u.logger != nil {
			u.logger.WithError(rbErr).WithField("cause", err.Error()).Error("uow rollback failed")
		}
		if u.recorder != nil {
			u.recorder.RecordRollbackFailure()
		}
	} else if u.logger != nil {
		u.logger.WithField("cause", err.Error()).Warn("uow compensated by repository rollback")
	}
	u.recordCompensation(true)
	return err
}

// Do runs fn inside the unit. End runs on every return path; a panic in fn
// marks the unit compensated and is re-raised.
func (u *UnitOfWork) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	u.Begin()
	defer func() {
		if r := recover(); r != nil {
			u.state = StateCompensated
			u.recordCompensation(false)
			panic(r)
		}
	}()
	err := fn(ctx)
	return u.End(ctx, err)
}

// Publish sends e to the bound publisher. Failures come back wrapped in
// apperror.ErrEventPublication.
func (u *UnitOfWork) Publish(ctx context.Context, e event.Event) error {
	if u.Events == nil {
		panic("uow: no event publisher bound")
	}
	if err := u.Events.Publish(ctx, e); err != nil {
		return wrapAs(apperror.ErrEventPublication, err)
	}
	return nil
}

// Enqueue writes a change notification for usr. Failures come back wrapped in
// apperror.ErrQueueWrite.
func (u *UnitOfWork) Enqueue(ctx context.Context, usr *entity.User, op queue.Operation) error {
	if u.Queue == nil {
		panic("uow: no queue writer bound")
	}
	if err := u.Queue.Write(ctx, usr, op); err != nil {
		return wrapAs(apperror.ErrQueueWrite, err)
	}
	return nil
}

// Notify hands n to the bound notifier. Failures come back wrapped in
// apperror.ErrNotification.
func (u *UnitOfWork) Notify(ctx context.Context, n entity.Notification) error {
	if u.Notifier == nil {
		panic("uow: no notifier bound")
	}
	if err := u.Notifier.Send(ctx, n); err != nil {
		return wrapAs(apperror.ErrNotification, err)
	}
	return nil
}

func wrapAs(kind, err error) error {
	if errors.Is(err, kind) {
		return err
	}
	return fmt.Errorf("%w: %w", kind, err)
}

func (u *UnitOfWork) rollbackTarget() repository.UserRepository {
	if u.Users != nil {
		return u.Users
	}
	if u.Cache != nil {
		return u.Cache.Repository()
	}
	return nil
}

func (u *UnitOfWork) recordCompensation(rolledBack bool) {
	if u.recorder != nil {
		u.recorder.RecordCompensation(rolledBack)
	}
}
