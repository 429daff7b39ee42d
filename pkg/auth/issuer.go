package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Issuer builds and signs access tokens with the shared HS256 key
type Issuer struct {
	cfg Config
	key []byte
	now func() time.Time
}

// NewIssuer validates cfg and returns an Issuer. A configuration error here is
// meant to abort startup.
func NewIssuer(cfg Config, opts ...Option) (*Issuer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := buildOptions(opts)
	return &Issuer{cfg: cfg, key: copyKey(cfg.SigningKey), now: o.now}, nil
}

// TTL returns the configured token lifetime
func (i *Issuer) TTL() time.Duration {
	return i.cfg.TTL
}

// Issue signs a token for the principal using the configured TTL
func (i *Issuer) Issue(subject, email string, role Role) (string, error) {
	return i.IssueWithTTL(subject, email, role, i.cfg.TTL)
}

// IssueWithTTL signs a token that expires ttl after now.
// iat and nbf are both set to now, jti is a fresh random UUID.
func (i *Issuer) IssueWithTTL(subject, email string, role Role, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", ErrEmptySubject
	}
	if email == "" {
		return "", ErrEmptyEmail
	}
	if !role.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
	if ttl < 0 {
		return "", ErrNegativeTTL
	}

	now := i.now()
	claims := Claims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			Issuer:    i.cfg.Issuer,
			Audience:  jwt.ClaimStrings{i.cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
