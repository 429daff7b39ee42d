package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/benedict-erwin/auth-gateway/internal/constants"
	"github.com/benedict-erwin/auth-gateway/pkg/auth"
	"github.com/benedict-erwin/auth-gateway/pkg/logger"
	"github.com/benedict-erwin/auth-gateway/pkg/response"
)

// BearerPrefix is the only accepted Authorization scheme, with exactly one space
const BearerPrefix = "Bearer "

// GateState is the terminal state of one authentication pass
type GateState int

const (
	Bypassed GateState = iota
	MissingHeader
	MalformedHeader
	Invalid
	Authenticated
)

func (s GateState) String() string {
	switch s {
	case Bypassed:
		return "bypassed"
	case MissingHeader:
		return "missing_header"
	case MalformedHeader:
		return "malformed_header"
	case Invalid:
		return "invalid"
	case Authenticated:
		return "authenticated"
	}
	return "unknown"
}

// Forwards reports whether the request may continue downstream
func (s GateState) Forwards() bool {
	return s == Bypassed || s == Authenticated
}

// Code returns the error code rendered to the client for a rejecting state
func (s GateState) Code() int {
	switch s {
	case MissingHeader, MalformedHeader:
		return constants.CodeMissingAuth
	case Invalid:
		return constants.CodeInvalidToken
	}
	return constants.CodeSuccess
}

// TokenValidator is the part of *auth.Validator the gate depends on
type TokenValidator interface {
	Check(token string) error
	ExtractUsername(token string) (string, error)
	ExtractRole(token string) (auth.Role, error)
}

var (
	errMissingHeader = errors.New("authorization header is absent")
	errBadScheme     = errors.New("authorization header does not use the Bearer scheme")
	errEmptyToken    = errors.New("bearer token is empty")
)

// Gate decides, per request, whether to bypass, reject or authenticate
type Gate struct {
	validator TokenValidator
	bypass    *BypassList
}

// NewGate builds a gate over validator with the given bypass entries
func NewGate(validator TokenValidator, bypassPaths []string) *Gate {
	return &Gate{
		validator: validator,
		bypass:    NewBypassList(bypassPaths),
	}
}

// Evaluate runs one authentication pass for a request path and its raw
// Authorization header value. The principal is set only on Authenticated.
func (g *Gate) Evaluate(requestPath, header string) (auth.Principal, GateState) {
	p, state, _ := g.evaluate(requestPath, header)
	return p, state
}

// evaluate also returns the server-side cause of a rejection
func (g *Gate) evaluate(requestPath, header string) (auth.Principal, GateState, error) {
	if g.bypass.Match(requestPath) {
		return auth.Principal{}, Bypassed, nil
	}

	if header == "" {
		return auth.Principal{}, MissingHeader, errMissingHeader
	}
	if !strings.HasPrefix(header, BearerPrefix) {
		return auth.Principal{}, MalformedHeader, errBadScheme
	}
	token := strings.TrimPrefix(header, BearerPrefix)
	if token == "" {
		return auth.Principal{}, MalformedHeader, errEmptyToken
	}

	if err := g.validator.Check(token); err != nil {
		return auth.Principal{}, Invalid, err
	}

	username, err := g.validator.ExtractUsername(token)
	if err != nil {
		return auth.Principal{}, Invalid, err
	}
	role, err := g.validator.ExtractRole(token)
	if err != nil {
		return auth.Principal{}, Invalid, err
	}

	return auth.NewPrincipal(username, role), Authenticated, nil
}

// JWTAuthMiddleware runs the gate on every request. Authenticated requests carry
// their principal in the request context; rejected ones get a 401 payload.
func JWTAuthMiddleware(gate *Gate) echo.MiddlewareFunc {
	log := logger.WithScope("JWTAuthMiddleware")

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			principal, state, cause := gate.evaluate(req.URL.Path, req.Header.Get(echo.HeaderAuthorization))

			switch state {
			case Bypassed:
				return next(c)

			case Authenticated:
				c.SetRequest(req.WithContext(auth.WithPrincipal(req.Context(), principal)))
				log.Debug().
					Str("username", principal.Username).
					Str("authority", string(principal.Authority)).
					Str("path", req.URL.Path).
					Str("method", req.Method).
					Str("request_id", constants.GetRequestID(c)).
					Msg("Authentication successful")
				return next(c)

			default:
				// cause never contains the token, only which check failed
				log.Warn().
					Err(cause).
					Str("state", state.String()).
					Str("path", req.URL.Path).
					Str("method", req.Method).
					Str("request_id", constants.GetRequestID(c)).
					Msg("Authentication rejected")
				return response.Unauthorized(c, state.Code())
			}
		}
	}
}

// GetPrincipal returns the principal attached by JWTAuthMiddleware
func GetPrincipal(c echo.Context) (auth.Principal, bool) {
	return auth.PrincipalFromContext(c.Request().Context())
}
