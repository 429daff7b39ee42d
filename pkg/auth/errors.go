package auth

import "errors"

// Validation failures. Validate collapses all of them into false; Check returns
// the first one hit so callers can log the cause server-side.
var (
	ErrMalformedToken  = errors.New("malformed token")
	ErrNotYetActive    = errors.New("token not yet active")
	ErrInvalidAudience = errors.New("invalid token audience")
	ErrExpired         = errors.New("token expired")
	ErrInvalidIssuer   = errors.New("invalid token issuer")
)

var (
	ErrUnknownRole   = errors.New("unknown role")
	ErrEmptySubject  = errors.New("subject must not be empty")
	ErrEmptyEmail    = errors.New("email must not be empty")
	ErrNegativeTTL   = errors.New("ttl must not be negative")
	ErrInvalidConfig = errors.New("invalid auth configuration")
)
