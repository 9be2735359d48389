// handlers_health.go - Liveness check handler
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthHandlerImpl implements the HealthHandler interface
type HealthHandlerImpl struct {
	version string
}

// NewHealthHandler creates a new health handler instance
func NewHealthHandler(version string) HealthHandler {
	return &HealthHandlerImpl{version: version}
}

// HandleHealth reports service liveness.
func (h *HealthHandlerImpl) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"version": h.version,
	})
}
