package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Validator parses and verifies tokens issued by Issuer
type Validator struct {
	cfg    Config
	key    []byte
	now    func() time.Time
	parser *jwt.Parser
}

// NewValidator validates cfg and returns a Validator safe for concurrent use
func NewValidator(cfg Config, opts ...Option) (*Validator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := buildOptions(opts)
	return &Validator{
		cfg: cfg,
		key: copyKey(cfg.SigningKey),
		now: o.now,
		// Time, issuer and audience checks run in Check, in a fixed order
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithoutClaimsValidation(),
		),
	}, nil
}

// Validate reports whether token passes every check. It never says which check failed.
func (v *Validator) Validate(token string) bool {
	return v.Check(token) == nil
}

// Check runs the validation pipeline and returns the first failure:
// signature, active, audience, expiry, issuer.
func (v *Validator) Check(token string) error {
	claims, err := v.parse(token)
	if err != nil {
		return err
	}

	now := v.now()
	if !claims.isActive(now, v.cfg.ClockSkew) {
		return ErrNotYetActive
	}
	if !claims.hasAudience(v.cfg.Audience) {
		return ErrInvalidAudience
	}
	if claims.isExpired(now, v.cfg.ClockSkew) {
		return ErrExpired
	}
	if claims.Issuer != v.cfg.Issuer {
		return ErrInvalidIssuer
	}
	return nil
}

// parse verifies the signature and decodes the payload. It does not look at time,
// issuer or audience.
func (v *Validator) parse(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := v.parser.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.key, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	return claims, nil
}

// ExtractClaims returns the verified payload without semantic checks.
// Callers must call Validate first before trusting the result.
func (v *Validator) ExtractClaims(token string) (*Claims, error) {
	return v.parse(token)
}

// ExtractUsername returns the subject claim
func (v *Validator) ExtractUsername(token string) (string, error) {
	claims, err := v.parse(token)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// ExtractEmail returns the email claim
func (v *Validator) ExtractEmail(token string) (string, error) {
	claims, err := v.parse(token)
	if err != nil {
		return "", err
	}
	return claims.Email, nil
}

// ExtractRole returns the role claim, failing with ErrUnknownRole for values
// outside the known set
func (v *Validator) ExtractRole(token string) (Role, error) {
	claims, err := v.parse(token)
	if err != nil {
		return "", err
	}
	return ParseRole(string(claims.Role))
}

// ExtractIssuer returns the iss claim
func (v *Validator) ExtractIssuer(token string) (string, error) {
	claims, err := v.parse(token)
	if err != nil {
		return "", err
	}
	return claims.Issuer, nil
}

// ExtractAudience returns the aud claim
func (v *Validator) ExtractAudience(token string) (string, error) {
	claims, err := v.parse(token)
	if err != nil {
		return "", err
	}
	return claims.audience(), nil
}

// ExtractJWTID returns the jti claim
func (v *Validator) ExtractJWTID(token string) (string, error) {
	claims, err := v.parse(token)
	if err != nil {
		return "", err
	}
	return claims.ID, nil
}

// ExtractIssuedAt returns the iat claim, zero when absent
func (v *Validator) ExtractIssuedAt(token string) (time.Time, error) {
	claims, err := v.parse(token)
	if err != nil {
		return time.Time{}, err
	}
	return numericTime(claims.IssuedAt), nil
}

// ExtractExpiration returns the exp claim, zero when absent
func (v *Validator) ExtractExpiration(token string) (time.Time, error) {
	claims, err := v.parse(token)
	if err != nil {
		return time.Time{}, err
	}
	return numericTime(claims.ExpiresAt), nil
}

// ExtractNotBefore returns the nbf claim, zero when absent
func (v *Validator) ExtractNotBefore(token string) (time.Time, error) {
	claims, err := v.parse(token)
	if err != nil {
		return time.Time{}, err
	}
	return numericTime(claims.NotBefore), nil
}

func numericTime(d *jwt.NumericDate) time.Time {
	if d == nil {
		return time.Time{}
	}
	return d.Time
}
