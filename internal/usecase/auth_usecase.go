// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import "context"

// --- Input DTOs ---

// RegisterInput defines the data required to register a new user.
// Both fields are trimmed before use.
type RegisterInput struct {
	Username string
	Password string
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Username string
	Password string
}

// --- Output DTOs ---

// RegisterOutput returns the stored username.
type RegisterOutput struct {
	Username string
}

// LoginOutput returns the authenticated username.
type LoginOutput struct {
	Username string
}

// RegistrationUsecase creates credentials.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type RegistrationUsecase interface {
	// Register fails with ErrValidationFailed, ErrUserAlreadyExists or ErrStorage.
	Register(ctx context.Context, input *RegisterInput) (*RegisterOutput, error)
}

// AuthenticationUsecase verifies credentials.
type AuthenticationUsecase interface {
	// Authenticate fails with ErrValidationFailed, ErrUserNotFound, ErrInvalidPassword or ErrStorage.
	Authenticate(ctx context.Context, input *LoginInput) (*LoginOutput, error)
}
