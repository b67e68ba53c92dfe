// Package handler contains the HTTP handlers for the application.
package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"miniblog/internal/delivery/http/validator"
	domainerrors "miniblog/internal/domain/errors"
	"miniblog/internal/errors"

	"github.com/labstack/echo/v4"
)

const fieldBody = "body"

// bindRequest decodes the body into dst and validates it.
func bindRequest(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return bindError(err)
	}

	if err := c.Validate(dst); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// bindError turns echo's decode failures into field-level validation errors.
func bindError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return domainerrors.NewValidationError(domainerrors.FieldError{
			Field:   typeErr.Field,
			Message: fmt.Sprintf("%s must be a %s.", validator.Label(typeErr.Field), typeErr.Type.Kind()),
		})
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) && httpErr.Code != http.StatusBadRequest {
		return errors.WithStack(err)
	}

	return domainerrors.NewValidationError(domainerrors.FieldError{
		Field:   fieldBody,
		Message: "Request body must be a valid JSON object.",
	})
}
