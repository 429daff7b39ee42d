package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/benedict-erwin/auth-gateway/http/middleware"
	"github.com/benedict-erwin/auth-gateway/http/registry"
	"github.com/benedict-erwin/auth-gateway/internal/app"
	"github.com/benedict-erwin/auth-gateway/internal/constants"
	"github.com/benedict-erwin/auth-gateway/pkg/logger"
	"github.com/benedict-erwin/auth-gateway/pkg/response"
)

// New builds the echo instance for deps.Mode: access log, authentication gate
// and the routes registered for that role
func New(deps *app.Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Logger)
	e.Use(middleware.JWTAuthMiddleware(middleware.NewGate(deps.Validator, deps.Config.Security.BypassPaths)))

	e.HTTPErrorHandler = errorHandler

	registry.SetupRoutes(e, deps)
	return e
}

// errorHandler renders every unhandled error through the standard error payload.
// 5xx responses never carry the internal message.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	httpStatus := http.StatusInternalServerError
	message := ""

	var he *echo.HTTPError
	if errors.As(err, &he) {
		httpStatus = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		}
	}

	if httpStatus >= http.StatusInternalServerError {
		logger.WithScope("errorHandler").Error().
			Err(err).
			Str("path", c.Request().URL.Path).
			Str("request_id", constants.GetRequestID(c)).
			Msg("Request failed")
		message = ""
	}

	if message == "" {
		code := constants.GetCodeFromHTTPStatus(httpStatus)
		message = constants.GetErrorMessage(code)
	}

	_ = response.Error(c, httpStatus, message)
}

// Start serves deps.Mode on port until SIGINT/SIGTERM, then shuts down gracefully
func Start(port int, deps *app.Dependencies) error {
	log := logger.WithScope("startServer")

	e := New(deps)
	log.Info().Str("service", deps.Mode).Int("routes", len(e.Routes())).Msg("Registered routes")

	errCh := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", port)
		log.Info().Str("service", deps.Mode).Msg("Starting server on " + addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		log.Error().Err(err).Msg("Server failed to start")
		deps.Close()
		return err
	case <-quit:
	}
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
		deps.Close()
		return err
	}

	// Close resources
	deps.Close()

	log.Info().Msg("Server gracefully stopped")
	return nil
}
