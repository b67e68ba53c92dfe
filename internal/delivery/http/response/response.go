// Package response defines the JSON bodies written by the HTTP delivery.
package response

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// MessageResponse is returned by successful calls.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Route describes one endpoint listed by the index.
type Route struct {
	Method      string `json:"method"`
	Path        string `json:"path"`
	Description string `json:"description"`
}

// IndexResponse is returned by GET /.
type IndexResponse struct {
	Success bool    `json:"success"`
	Message string  `json:"message"`
	Routes  []Route `json:"routes"`
}

// ErrorResponse carries a single user-facing error message.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// FieldError names a rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrorResponse lists every rejected field.
type ValidationErrorResponse struct {
	Success bool         `json:"success"`
	Errors  []FieldError `json:"errors"`
}

// Success successful response
func Success(c echo.Context, statusCode int, message string) error {
	if message == "" {
		message = http.StatusText(statusCode)
	}

	return c.JSON(statusCode, MessageResponse{
		Success: true,
		Message: message,
	})
}

// Index lists the available routes
func Index(c echo.Context, message string, routes []Route) error {
	return c.JSON(http.StatusOK, IndexResponse{
		Success: true,
		Message: message,
		Routes:  routes,
	})
}

// Error error response
func Error(c echo.Context, statusCode int, message string) error {
	if message == "" {
		message = http.StatusText(statusCode)
	}

	return c.JSON(statusCode, ErrorResponse{
		Success: false,
		Error:   message,
	})
}

// ValidationFailed 400 error listing every offending field
func ValidationFailed(c echo.Context, fields []FieldError) error {
	if fields == nil {
		fields = []FieldError{}
	}

	return c.JSON(http.StatusBadRequest, ValidationErrorResponse{
		Success: false,
		Errors:  fields,
	})
}

// Unauthorized 401 error
func Unauthorized(c echo.Context, message string) error {
	return Error(c, http.StatusUnauthorized, message)
}

// Conflict 409 error
func Conflict(c echo.Context, message string) error {
	return Error(c, http.StatusConflict, message)
}

// InternalServerError 500 error
func InternalServerError(c echo.Context, message string) error {
	return Error(c, http.StatusInternalServerError, message)
}
