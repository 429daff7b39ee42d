package route

import (
	"errors"
	"net"
	"net/http"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/benedict-erwin/auth-gateway/config"
	"github.com/benedict-erwin/auth-gateway/http/handler"
	"github.com/benedict-erwin/auth-gateway/http/middleware"
	"github.com/benedict-erwin/auth-gateway/http/registry"
	"github.com/benedict-erwin/auth-gateway/internal/app"
	"github.com/benedict-erwin/auth-gateway/internal/constants"
	"github.com/benedict-erwin/auth-gateway/pkg/auth"
	"github.com/benedict-erwin/auth-gateway/pkg/logger"
	"github.com/benedict-erwin/auth-gateway/pkg/response"
)

// init registers the gateway routes: account endpoints forwarded to the
// auth-service and the protected welcome page
func init() {
	registry.Register(config.ModeGateway, func(g *echo.Group, deps *app.Dependencies) {
		proxy := NewAuthProxy(deps)

		a := g.Group("/auth")
		a.POST("/register", echo.NotFoundHandler, proxy)
		a.POST("/login", echo.NotFoundHandler, proxy)
		a.POST("/validate", echo.NotFoundHandler, proxy)

		a.GET("/welcome", handler.Welcome, middleware.RequireAuthority(auth.DeriveAuthority(auth.RoleUser)))
	})
}

// NewAuthProxy forwards requests round-robin across the configured auth-service upstreams
func NewAuthProxy(deps *app.Dependencies) echo.MiddlewareFunc {
	targets := make([]*echoMiddleware.ProxyTarget, 0, len(deps.Upstreams))
	for _, u := range deps.Upstreams {
		targets = append(targets, &echoMiddleware.ProxyTarget{Name: u.Host, URL: u})
	}

	return echoMiddleware.ProxyWithConfig(echoMiddleware.ProxyConfig{
		Balancer:     echoMiddleware.NewRoundRobinBalancer(targets),
		Transport:    &http.Transport{Proxy: http.ProxyFromEnvironment, ResponseHeaderTimeout: deps.Config.Gateway.Timeout},
		ErrorHandler: proxyError,
	})
}

// proxyError maps upstream failures to 502/504 without leaking the upstream address
func proxyError(c echo.Context, err error) error {
	var he *echo.HTTPError
	if errors.As(err, &he) && he.Code != http.StatusBadGateway {
		// client went away
		return err
	}

	logger.WithScope("gateway.proxy").Error().
		Err(err).
		Str("path", c.Request().URL.Path).
		Str("request_id", constants.GetRequestID(c)).
		Msg("Upstream request failed")

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return response.FailWithCode(c, constants.CodeUpstreamTimeout)
	}
	return response.FailWithCode(c, constants.CodeUpstreamError)
}
