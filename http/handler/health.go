package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/benedict-erwin/auth-gateway/internal/constants"
	"github.com/benedict-erwin/auth-gateway/internal/services/health"
	"github.com/benedict-erwin/auth-gateway/pkg/response"
	"github.com/benedict-erwin/auth-gateway/pkg/utils"
)

// HealthHandler exposes the probes of one service role
type HealthHandler struct {
	checker *health.Checker
}

func NewHealthHandler(checker *health.Checker) *HealthHandler {
	return &HealthHandler{checker: checker}
}

// Live returns basic liveness check
func (h *HealthHandler) Live(c echo.Context) error {
	data := map[string]interface{}{
		"status":    "alive",
		"timestamp": utils.NowFormatted(),
	}

	return response.Success(c, data)
}

// Ready runs the dependency checks, cached for a short period
func (h *HealthHandler) Ready(c echo.Context) error {
	readiness := h.checker.CheckReadiness(c.Request().Context())

	httpStatus := http.StatusOK
	code := constants.CodeSuccess
	if readiness.Status != health.StatusReady {
		httpStatus = http.StatusServiceUnavailable
		code = constants.CodeServiceUnavailable
	}

	data := map[string]interface{}{
		"readiness": readiness,
	}

	return response.General(c, httpStatus, code, data, "Readiness check completed")
}

// Detailed returns comprehensive health check information
func (h *HealthHandler) Detailed(c echo.Context) error {
	status := h.checker.CheckHealth(c.Request().Context())

	// Return appropriate HTTP status
	httpStatus := http.StatusOK
	code := constants.CodeSuccess
	switch status.Status {
	case health.StatusUnhealthy:
		httpStatus = http.StatusServiceUnavailable
		code = constants.CodeServiceUnavailable
	case health.StatusDegraded:
		httpStatus = http.StatusPartialContent
	}

	data := map[string]interface{}{
		"health": status,
	}

	return response.General(c, httpStatus, code, data, "Health check completed")
}
