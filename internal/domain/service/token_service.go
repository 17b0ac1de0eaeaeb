package service

import (
	"time"

	"socialgraph/internal/domain/entity"
	"socialgraph/internal/errors"
)

// Token validation failures. They exist for diagnostics only and are collapsed
// into a single unauthorized outcome before reaching a client.
var (
	ErrTokenMalformed        = errors.New("token malformed")
	ErrTokenSignatureInvalid = errors.New("token signature invalid")
	ErrTokenExpired          = errors.New("token expired")

	// ErrMissingSigningSecret is a startup configuration fault.
	ErrMissingSigningSecret = errors.New("token signing secret is not configured")
)

// TokenService issues and validates signed, time-bounded session tokens.
type TokenService interface {
	// Issue creates a token for identity that expires TTL after now.
	Issue(identity entity.Identity, now time.Time) (string, error)

	// Validate checks the signature, then the expiry against now, and returns the subject.
	Validate(token string, now time.Time) (entity.Identity, error)

	// TTL returns the lifetime of issued tokens.
	TTL() time.Duration
}
