// handlers_health.go - Health and model self-test handlers
package api

import (
	"net/http"
	"time"

	"github.com/docassist/backend/internal/chat"
	"github.com/labstack/echo/v4"
)

// HealthHandlerImpl implements the HealthHandler interface
type HealthHandlerImpl struct {
	version string
	svc     *chat.Service
	devMode bool
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(version string, svc *chat.Service, devMode bool) HealthHandler {
	return &HealthHandlerImpl{
		version: version,
		svc:     svc,
		devMode: devMode,
	}
}

// HandleHealth returns server health status
func (h *HealthHandlerImpl) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":     "ok",
		"version":    h.version,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"configured": h.svc.Configured(),
		"model":      h.svc.ModelName(),
	})
}

// HandleModelTest performs a connectivity self-test against the remote
// model with a trivial prompt.
func (h *HealthHandlerImpl) HandleModelTest(c echo.Context) error {
	result, err := h.svc.Process(c.Request().Context(), "Reply with OK if you can read this.", nil)
	if err != nil {
		return FromChatError(chat.Classify(err), h.devMode)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"message": result.Output,
	})
}
