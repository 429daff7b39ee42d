package auth

import "context"

// Principal is the authenticated identity of a single request
type Principal struct {
	Username  string
	Role      Role
	Authority Authority
}

// NewPrincipal builds a Principal and derives its authority from role
func NewPrincipal(username string, role Role) Principal {
	return Principal{
		Username:  username,
		Role:      role,
		Authority: DeriveAuthority(role),
	}
}

type principalContextKey struct{}

// WithPrincipal returns a copy of ctx carrying p
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// PrincipalFromContext returns the principal attached by the authentication gate
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalContextKey{}).(Principal)
	return p, ok
}
