// Package port declares the collaborators handlers consume besides storage,
// events and the downstream queue.
package port

import (
	"context"

	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/entity"
)

type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
}

// TokenIssuer binds an opaque token to an identity.
type TokenIssuer interface {
	Issue(identity string) (string, error)
}

// TokenDecoder resolves an identity from a token issued by the matching issuer.
// Unusable tokens yield apperror.ErrInvalidToken.
type TokenDecoder interface {
	Decode(token string) (string, error)
}

// TokenCodec issues and decodes tokens of one purpose.
type TokenCodec interface {
	TokenIssuer
	TokenDecoder
}

// Notifier delivers an outbound email-like message. Failures are wrapped in
// apperror.ErrNotification.
type Notifier interface {
	Send(ctx context.Context, n entity.Notification) error
}
