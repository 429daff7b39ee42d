package middleware

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/benedict-erwin/auth-gateway/internal/constants"
	"github.com/benedict-erwin/auth-gateway/pkg/logger"
	"github.com/benedict-erwin/auth-gateway/pkg/utils"
)

// Logger middleware logs HTTP requests with timing and assigns request IDs.
// The request ID is echoed back and forwarded to upstreams in X-Request-ID.
func Logger(next echo.HandlerFunc) echo.HandlerFunc {
	log := logger.WithScope("accessLog")

	return func(c echo.Context) error {
		start := utils.Now()

		reqId := constants.RequestIDFromHeaders(c)
		if reqId == "" {
			reqId = generateRequestID()
		}
		c.Set(constants.RequestIDKey, reqId)
		c.Request().Header.Set(constants.HeaderRequestID, reqId)
		c.Response().Header().Set(constants.HeaderRequestID, reqId)

		err := next(c)

		latency := time.Since(start).Microseconds()
		status := c.Response().Status
		if err != nil {
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}
		}

		// Authorization header is deliberately not logged
		log.Info().
			Str("method", c.Request().Method).
			Str("path", c.Request().URL.Path).
			Int("status", status).
			Int64("latency", latency).
			Str("remote_ip", c.RealIP()).
			Str("request-id", reqId).
			Msg("HTTP Request")

		return err
	}
}

// generateRequestID creates unique request identifier with timestamp and random component
func generateRequestID() string {
	timestamp := utils.Now().Unix()
	random := rand.Uint32()
	return fmt.Sprintf("req-%d-%08x", timestamp, random)
}
