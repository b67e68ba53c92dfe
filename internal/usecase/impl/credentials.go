// Package impl contains the implementation of the application's business logic.
package impl

import (
	"strings"

	domainerrors "miniblog/internal/domain/errors"
	"miniblog/internal/domain/service"
)

const (
	fieldUsername = "username"
	fieldPassword = "password"

	msgUsernameRequired = "Username is required."
	msgPasswordRequired = "Password is required."
	msgPasswordTooLong  = "Password must be at most 72 bytes."
)

// normalizeCredentials trims both fields and reports every invalid one.
func normalizeCredentials(username, password string, checkLength bool) (string, string, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)

	var fields []domainerrors.FieldError
	if username == "" {
		fields = append(fields, domainerrors.FieldError{Field: fieldUsername, Message: msgUsernameRequired})
	}

	switch {
	case password == "":
		fields = append(fields, domainerrors.FieldError{Field: fieldPassword, Message: msgPasswordRequired})
	case checkLength && len(password) > service.MaxPasswordBytes:
		fields = append(fields, domainerrors.FieldError{Field: fieldPassword, Message: msgPasswordTooLong})
	}

	if len(fields) > 0 {
		return "", "", domainerrors.NewValidationError(fields...)
	}

	return username, password, nil
}
