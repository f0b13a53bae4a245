package event

import (
	"context"
	"errors"
)

// Publisher emits a domain event to a sink. Implementations report transport
// failures wrapped in apperror.ErrEventPublication.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Fanout publishes to every sink in order and joins the failures.
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, e Event) error {
	var errs []error
	for _, p := range f {
		if err := p.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
