package route

import (
	"github.com/labstack/echo/v4"

	"github.com/benedict-erwin/auth-gateway/config"
	"github.com/benedict-erwin/auth-gateway/http/handler"
	"github.com/benedict-erwin/auth-gateway/http/registry"
	"github.com/benedict-erwin/auth-gateway/internal/app"
)

// init registers the account endpoints of the auth-service
func init() {
	registry.Register(config.ModeAuth, func(g *echo.Group, deps *app.Dependencies) {
		h := handler.NewAuthHandler(deps.Accounts, deps)

		a := g.Group("/auth")
		a.POST("/register", h.Register) // bypassed
		a.POST("/login", h.Login)       // bypassed
		a.POST("/validate", h.Validate) // gated
	})
}
