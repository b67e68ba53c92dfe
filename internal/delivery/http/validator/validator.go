// Package validator adapts go-playground/validator to echo.Validator.
package validator

import (
	"fmt"
	"reflect"
	"strings"

	domainerrors "miniblog/internal/domain/errors"
	"miniblog/internal/errors"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

const tagNotBlank = "notblank"

// CustomValidator validates request DTOs and reports failures as a domain ValidationError.
type CustomValidator struct {
	validate *validator.Validate
}

// New builds a validator that names fields after their json tags.
func New() *CustomValidator {
	validate := validator.New(validator.WithRequiredStructEnabled())
	// NotBlank is a well-known validator; registration only fails on an empty tag.
	_ = validate.RegisterValidation(tagNotBlank, validators.NotBlank)
	validate.RegisterTagNameFunc(jsonFieldName)

	return &CustomValidator{validate: validate}
}

// Validate implements echo.Validator.
func (v *CustomValidator) Validate(i any) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return errors.Wrap(err, "validate request")
	}

	fields := make([]domainerrors.FieldError, 0, len(validationErrs))
	for _, fe := range validationErrs {
		fields = append(fields, domainerrors.FieldError{
			Field:   fe.Field(),
			Message: message(fe),
		})
	}

	return domainerrors.NewValidationError(fields...)
}

func jsonFieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return field.Name
	}

	return name
}

func message(fe validator.FieldError) string {
	label := Label(fe.Field())

	switch fe.Tag() {
	case "required", tagNotBlank:
		return label + " is required."
	case "max":
		return fmt.Sprintf("%s must be at most %s bytes.", label, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters.", label, fe.Param())
	default:
		return label + " is invalid."
	}
}

// Label turns a json field name into the capitalised form used in messages.
func Label(field string) string {
	if field == "" {
		return field
	}

	return strings.ToUpper(field[:1]) + field[1:]
}
