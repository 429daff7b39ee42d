package route

import (
	"github.com/labstack/echo/v4"

	"github.com/benedict-erwin/auth-gateway/http/handler"
	"github.com/benedict-erwin/auth-gateway/http/middleware"
	"github.com/benedict-erwin/auth-gateway/http/registry"
	"github.com/benedict-erwin/auth-gateway/internal/app"
	"github.com/benedict-erwin/auth-gateway/pkg/auth"
)

// init registers health routes for every service role
func init() {
	registry.Register("*", func(g *echo.Group, deps *app.Dependencies) {
		h := handler.NewHealthHandler(deps.Health)

		// public
		g.GET("/health/live", h.Live)   // Liveness probe
		g.GET("/health/ready", h.Ready) // Readiness probe

		// admins only
		admin := g.Group("/admin")
		admin.Use(middleware.RequireAuthority(auth.DeriveAuthority(auth.RoleAdmin)))
		admin.GET("/health", h.Detailed)
	})
}
