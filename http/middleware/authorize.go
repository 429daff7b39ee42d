package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/benedict-erwin/auth-gateway/internal/constants"
	"github.com/benedict-erwin/auth-gateway/pkg/auth"
	"github.com/benedict-erwin/auth-gateway/pkg/logger"
	"github.com/benedict-erwin/auth-gateway/pkg/response"
)

// RequireAuthority admits only principals holding one of the given authorities.
// It must run after JWTAuthMiddleware.
func RequireAuthority(authorities ...auth.Authority) echo.MiddlewareFunc {
	log := logger.WithScope("RequireAuthority")

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, ok := GetPrincipal(c)
			if !ok {
				log.Warn().
					Str("path", c.Request().URL.Path).
					Str("method", c.Request().Method).
					Msg("No principal on protected route")
				return response.Unauthorized(c, constants.CodeUnauthorized)
			}

			if !auth.HasAuthority(principal, authorities...) {
				log.Warn().
					Str("username", principal.Username).
					Str("authority", string(principal.Authority)).
					Str("path", c.Request().URL.Path).
					Str("method", c.Request().Method).
					Msg("Insufficient permissions")
				return response.Forbidden(c, constants.CodeInsufficientPerms)
			}

			return next(c)
		}
	}
}
