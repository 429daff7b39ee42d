package auth

import (
	"fmt"
	"time"
)

// MinSigningKeyLength is the shortest HS256 secret accepted at startup
const MinSigningKeyLength = 32

// Config is the process-wide token protocol configuration.
// It is built once at startup and never mutated afterwards.
type Config struct {
	SigningKey []byte
	TTL        time.Duration
	Issuer     string
	Audience   string
	ClockSkew  time.Duration
}

// Validate rejects configurations that must stop process initialization
func (c Config) Validate() error {
	if len(c.SigningKey) == 0 {
		return fmt.Errorf("%w: signing key is required", ErrInvalidConfig)
	}
	if len(c.SigningKey) < MinSigningKeyLength {
		return fmt.Errorf("%w: signing key must be at least %d bytes", ErrInvalidConfig, MinSigningKeyLength)
	}
	if c.TTL <= 0 {
		return fmt.Errorf("%w: ttl must be positive", ErrInvalidConfig)
	}
	if c.Issuer == "" {
		return fmt.Errorf("%w: issuer is required", ErrInvalidConfig)
	}
	if c.Audience == "" {
		return fmt.Errorf("%w: audience is required", ErrInvalidConfig)
	}
	if c.ClockSkew < 0 {
		return fmt.Errorf("%w: clock skew must not be negative", ErrInvalidConfig)
	}
	return nil
}

// Option customizes an Issuer or Validator
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock overrides the time source used for issuance and time-based checks
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// copyKey detaches the key from the caller's slice so later writes to it cannot leak in
func copyKey(key []byte) []byte {
	out := make([]byte, len(key))
	copy(out, key)
	return out
}
