// routes.go - Route registration helpers
// This file provides a clean way to register all API routes
package api

import (
	"github.com/docassist/backend/internal/chat"
	"github.com/labstack/echo/v4"
)

// Dependencies holds all handler dependencies
type Dependencies struct {
	Chat    *chat.Service
	Version string
	DevMode bool
}

// Handlers holds all handler instances
type Handlers struct {
	Chat   ChatHandler
	Health HealthHandler
}

// NewHandlers creates all handler instances
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		Chat:   NewChatHandler(deps.Chat, deps.DevMode),
		Health: NewHealthHandler(deps.Version, deps.Chat, deps.DevMode),
	}
}

// RegisterRoutes registers all API routes with the Echo instance
func RegisterRoutes(e *echo.Echo, handlers *Handlers) {
	e.POST("/chat", handlers.Chat.HandleChat)
	e.GET("/health", handlers.Health.HandleHealth)
	e.GET("/model/test", handlers.Health.HandleModelTest)
}
