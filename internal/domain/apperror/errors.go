// Package apperror holds the error taxonomy shared by handlers, the unit of
// work and the transport layer.
package apperror

import "errors"

// Validation errors are raised before any durable write.
var (
	ErrDuplicateEmail     = errors.New("account already exists")
	ErrUserNotFound       = errors.New("account not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountNotActive   = errors.New("account not active")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// Transport errors are raised by event sinks, the downstream queue and the
// notifier after a durable write may already have happened.
var (
	ErrEventPublication = errors.New("event publication failed")
	ErrQueueWrite       = errors.New("downstream queue write failed")
	ErrNotification     = errors.New("notification delivery failed")
)

// ErrHandlerNotRegistered signals a wiring bug in the mediator.
var ErrHandlerNotRegistered = errors.New("no handler registered")

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindTransport
	KindConfiguration
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindTransport:
		return "transport"
	case KindConfiguration:
		return "configuration"
	default:
		return "internal"
	}
}

// KindOf classifies err. Unknown errors are internal.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindInternal
	case errors.Is(err, ErrDuplicateEmail),
		errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrAccountNotActive),
		errors.Is(err, ErrInvalidToken):
		return KindValidation
	case errors.Is(err, ErrEventPublication),
		errors.Is(err, ErrQueueWrite),
		errors.Is(err, ErrNotification):
		return KindTransport
	case errors.Is(err, ErrHandlerNotRegistered):
		return KindConfiguration
	}
	return KindInternal
}

// IsCompensable reports whether err warrants rolling back the last durable
// write. Only event publication and downstream queue failures qualify.
func IsCompensable(err error) bool {
	return errors.Is(err, ErrEventPublication) || errors.Is(err, ErrQueueWrite)
}
