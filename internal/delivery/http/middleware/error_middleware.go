// Package middleware contains echo middleware specific to the HTTP delivery.
package middleware

import (
	"log/slog"
	"net/http"

	"miniblog/config"
	deliverycontext "miniblog/internal/delivery/context"
	"miniblog/internal/delivery/http/response"
	domainerrors "miniblog/internal/domain/errors"
	"miniblog/internal/errors"

	"github.com/labstack/echo/v4"
)

// ErrorMiddleware error handling middleware
type ErrorMiddleware struct {
	logger                   *slog.Logger
	revealLoginFailureReason bool
}

// NewErrorMiddleware creates a new error handling middleware
func NewErrorMiddleware(logger *slog.Logger, cfg *config.Config) *ErrorMiddleware {
	m := &ErrorMiddleware{
		logger: logger,
	}
	if cfg != nil && cfg.Auth != nil {
		m.revealLoginFailureReason = cfg.Auth.RevealLoginFailureReason
	}

	return m
}

// HandleHTTPError handles errors as Echo's HTTPErrorHandler
func (m *ErrorMiddleware) HandleHTTPError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, write := m.resolve(err, c)
	if c.Request().Method == http.MethodHead {
		write = func(c echo.Context) error { return c.NoContent(status) }
	}

	if writeErr := write(c); writeErr != nil {
		m.log(c).Error("Failed to write error response", slog.Any("error", writeErr))
	}
}

// resolve picks the status code and body for err.
func (m *ErrorMiddleware) resolve(err error, c echo.Context) (int, func(echo.Context) error) {
	var validationErr *domainerrors.ValidationError
	if errors.As(err, &validationErr) {
		fields := make([]response.FieldError, 0, len(validationErr.Fields))
		for _, f := range validationErr.Fields {
			fields = append(fields, response.FieldError{Field: f.Field, Message: f.Message})
		}

		return http.StatusBadRequest, func(c echo.Context) error {
			return response.ValidationFailed(c, fields)
		}
	}

	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		if !m.revealLoginFailureReason &&
			(errors.Is(err, domainerrors.ErrUserNotFound) || errors.Is(err, domainerrors.ErrInvalidPassword)) {
			appErr = domainerrors.ErrInvalidCredentials
		}

		status := appErr.HTTPCode()
		message := appErr.Message()
		if status >= http.StatusInternalServerError {
			m.log(c).Error("Request failed",
				slog.String("code", appErr.ErrorCode()),
				slog.String("path", c.Request().URL.Path),
				slog.String("method", c.Request().Method),
				slog.Any("error", err),
			)
		}
		if status == http.StatusInternalServerError {
			message = domainerrors.ErrInternalError.Message()
		}

		return status, func(c echo.Context) error {
			return response.Error(c, status, message)
		}
	}

	// Check if it's Echo's HTTPError
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		message, ok := httpErr.Message.(string)
		if !ok {
			message = http.StatusText(httpErr.Code)
		}
		if httpErr.Code >= http.StatusInternalServerError {
			m.log(c).Error("HTTP error", slog.Int("status", httpErr.Code), slog.Any("error", err))
			message = domainerrors.ErrInternalError.Message()
		}

		return httpErr.Code, func(c echo.Context) error {
			return response.Error(c, httpErr.Code, message)
		}
	}

	// Default to internal error, log error and return generic error
	m.log(c).Error("Unhandled error",
		slog.Any("error", err),
		slog.String("path", c.Request().URL.Path),
		slog.String("method", c.Request().Method),
	)

	return http.StatusInternalServerError, func(c echo.Context) error {
		return response.InternalServerError(c, domainerrors.ErrInternalError.Message())
	}
}

func (m *ErrorMiddleware) log(c echo.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(c.Request().Context(), m.logger)
}
