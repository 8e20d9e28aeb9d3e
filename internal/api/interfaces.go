// interfaces.go - Handler interface definitions for clean separation of concerns
package api

import (
	"github.com/labstack/echo/v4"
)

// ChatHandler handles chat submissions
type ChatHandler interface {
	HandleChat(c echo.Context) error
}

// HealthHandler handles health check and diagnostics operations
type HealthHandler interface {
	HandleHealth(c echo.Context) error
	HandleModelTest(c echo.Context) error
}
