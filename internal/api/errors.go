// errors.go - Structured error handling for API responses
package api

import (
	"fmt"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
)

// APIError represents a structured API error response. StatusText
// mirrors the HTTP reason phrase so clients can normalize failures
// into {message, status, statusText} without consulting the transport.
type APIError struct {
	Status     int    `json:"status"`
	StatusText string `json:"statusText"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newAPIError(status int, code, message string, cause error) *APIError {
	err := &APIError{
		Status:     status,
		StatusText: http.StatusText(status),
		Code:       code,
		Message:    message,
	}
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

// NewBadRequestError creates a 400 Bad Request error
func NewBadRequestError(message string, cause error) *APIError {
	return newAPIError(http.StatusBadRequest, "BAD_REQUEST", message, cause)
}

// NewValidationError creates a 400 validation error for a specific field
func NewValidationError(field string) *APIError {
	return newAPIError(http.StatusBadRequest, "VALIDATION_ERROR",
		fmt.Sprintf("validation failed for field: %s", field), nil)
}

// NewNotFoundError creates a 404 Not Found error
func NewNotFoundError(resource string, id string) *APIError {
	return newAPIError(http.StatusNotFound, "NOT_FOUND",
		fmt.Sprintf("%s not found: %s", resource, id), nil)
}

// NewUnsupportedMediaError creates a 415 error for non-PDF uploads
func NewUnsupportedMediaError(message string) *APIError {
	return newAPIError(http.StatusUnsupportedMediaType, "UNSUPPORTED_MEDIA_TYPE", message, nil)
}

// NewPayloadTooLargeError creates a 413 error for oversize uploads
func NewPayloadTooLargeError(message string) *APIError {
	return newAPIError(http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", message, nil)
}

// NewInternalError creates a 500 Internal Server Error
func NewInternalError(message string, cause error) *APIError {
	return newAPIError(http.StatusInternalServerError, "INTERNAL_ERROR", message, cause)
}

// ErrorHandler middleware for Echo
// Usage: e.HTTPErrorHandler = api.ErrorHandler
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var apiErr *APIError

	switch e := err.(type) {
	case *APIError:
		apiErr = e
	case *echo.HTTPError:
		apiErr = &APIError{
			Status:     e.Code,
			StatusText: http.StatusText(e.Code),
			Code:       "HTTP_ERROR",
			Message:    fmt.Sprintf("%v", e.Message),
		}
	default:
		apiErr = &APIError{
			Status:     http.StatusInternalServerError,
			StatusText: http.StatusText(http.StatusInternalServerError),
			Code:       "UNKNOWN_ERROR",
			Message:    "An unexpected error occurred",
		}
		if os.Getenv("DEBUG") != "" {
			apiErr.Details = err.Error()
		}
	}

	if !c.Response().Committed {
		c.JSON(apiErr.Status, apiErr)
	}
}
