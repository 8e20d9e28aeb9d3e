// errors.go - Structured error handling for API responses
package api

import (
	"fmt"
	"net/http"

	"github.com/docassist/backend/internal/chat"
	"github.com/labstack/echo/v4"
)

// APIError represents a structured API error response. The body carries a
// single user-facing message; Details is populated only in development
// mode. Status and Code stay out of the body but drive the response and
// the logs.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"-"`
	Message string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error constructors for consistent error handling

// NewBadRequestError creates a 400 Bad Request error
func NewBadRequestError(message string, cause error) *APIError {
	err := &APIError{
		Status:  http.StatusBadRequest,
		Code:    "BAD_REQUEST",
		Message: message,
	}
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

// NewInternalError creates a 500 Internal Server Error
func NewInternalError(message string, cause error) *APIError {
	err := &APIError{
		Status:  http.StatusInternalServerError,
		Code:    "INTERNAL_ERROR",
		Message: message,
	}
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

// FromChatError maps a classified pipeline failure onto an HTTP error.
// devMode controls whether the underlying cause is exposed as details.
func FromChatError(cerr *chat.Error, devMode bool) *APIError {
	apiErr := &APIError{Message: cerr.Message}

	switch cerr.Kind {
	case chat.KindValidation:
		apiErr.Status = http.StatusBadRequest
		apiErr.Code = "VALIDATION_ERROR"
	case chat.KindSafetyBlocked:
		apiErr.Status = http.StatusBadRequest
		apiErr.Code = "CONTENT_BLOCKED"
	case chat.KindQuotaExceeded:
		apiErr.Status = http.StatusTooManyRequests
		apiErr.Code = "RATE_LIMITED"
	case chat.KindConfiguration:
		apiErr.Status = http.StatusInternalServerError
		apiErr.Code = "CONFIG_ERROR"
	case chat.KindAuthentication:
		apiErr.Status = http.StatusInternalServerError
		apiErr.Code = "AUTH_ERROR"
	default:
		apiErr.Status = http.StatusInternalServerError
		apiErr.Code = "INTERNAL_ERROR"
	}

	if devMode && cerr.Cause != nil {
		apiErr.Details = cerr.Cause.Error()
	}

	return apiErr
}

// NewErrorHandler builds the echo HTTPErrorHandler.
// Usage: e.HTTPErrorHandler = api.NewErrorHandler(cfg.Advanced.DevelopmentMode)
func NewErrorHandler(devMode bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var apiErr *APIError

		switch e := err.(type) {
		case *APIError:
			apiErr = e
		case *echo.HTTPError:
			apiErr = &APIError{
				Status:  e.Code,
				Code:    "HTTP_ERROR",
				Message: fmt.Sprintf("%v", e.Message),
			}
		default:
			apiErr = &APIError{
				Status:  http.StatusInternalServerError,
				Code:    "UNKNOWN_ERROR",
				Message: "An unexpected error occurred",
			}
			apiErr.Details = err.Error()
		}

		if !devMode {
			apiErr.Details = ""
		}

		if !c.Response().Committed {
			c.JSON(apiErr.Status, apiErr)
		}
	}
}
