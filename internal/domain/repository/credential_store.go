// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"

	"miniblog/internal/domain/entity"
)

// CredentialStore persists the whole collection of user credentials.
// The collection is small and always read and written in full.
type CredentialStore interface {
	// Load returns every stored credential in insertion order.
	// It returns an empty slice when nothing has been persisted yet and a
	// storage error when the persisted representation is unreadable or malformed.
	Load(ctx context.Context) ([]*entity.User, error)

	// Save replaces the persisted collection with users.
	// Readers never observe a partially written collection.
	Save(ctx context.Context, users []*entity.User) error
}

// FindByUsername returns the record whose username matches exactly, or nil.
func FindByUsername(users []*entity.User, username string) *entity.User {
	for _, u := range users {
		if u != nil && u.Username == username {
			return u
		}
	}

	return nil
}
