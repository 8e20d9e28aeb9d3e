// handlers_chat.go - Chat request handler
package api

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/docassist/backend/internal/chat"
	"github.com/labstack/echo/v4"
)

// ChatHandlerImpl implements the ChatHandler interface
type ChatHandlerImpl struct {
	svc     *chat.Service
	devMode bool
}

// NewChatHandler creates a new chat handler instance
func NewChatHandler(svc *chat.Service, devMode bool) ChatHandler {
	return &ChatHandlerImpl{
		svc:     svc,
		devMode: devMode,
	}
}

// HandleChat accepts a multipart submission (prompt text plus optional
// files) and responds with the model's answer. The whole request is
// accepted or rejected atomically: one disallowed file fails the request
// before any attachment is read.
func (h *ChatHandlerImpl) HandleChat(c echo.Context) error {
	prompt := c.FormValue("prompt")

	var files []*multipart.FileHeader
	if form, err := c.MultipartForm(); err == nil {
		files = form.File["files"]
	} else if !errors.Is(err, http.ErrNotMultipart) {
		return NewBadRequestError("invalid multipart form", err)
	}

	result, err := h.svc.Process(c.Request().Context(), prompt, files)
	if err != nil {
		return FromChatError(chat.Classify(err), h.devMode)
	}

	return c.JSON(http.StatusOK, result)
}
