package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/benedict-erwin/auth-gateway/http/middleware"
	"github.com/benedict-erwin/auth-gateway/internal/constants"
	"github.com/benedict-erwin/auth-gateway/pkg/response"
)

// Welcome greets the authenticated principal
func Welcome(c echo.Context) error {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		return response.Unauthorized(c, constants.CodeUnauthorized)
	}

	data := map[string]interface{}{
		"message":  "Welcome " + p.Username + "!",
		"username": p.Username,
		"role":     p.Role.String(),
	}
	return response.Success(c, data)
}
