package postgres

import (
	"strings"

	"miniblog/internal/errors"

	"gorm.io/gorm"
)

// isUniqueConstraintViolation requires gorm.Config.TranslateError to map pg error 23505.
func isUniqueConstraintViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	// Fallback for errors raised outside GORM's translator
	errMsg := strings.ToLower(err.Error())

	return strings.Contains(errMsg, "sqlstate 23505") ||
		strings.Contains(errMsg, "duplicate key value violates unique constraint")
}
