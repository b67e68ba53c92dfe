// Package memory provides an in-process credential store for tests and local development.
package memory

import (
	"context"
	"sync"

	"miniblog/internal/domain/entity"
	"miniblog/internal/domain/repository"
)

// Verify interface compliance
var _ repository.CredentialStore = (*Store)(nil)

// Store keeps the collection in memory. Load and Save copy records so
// callers never share pointers with the stored state.
type Store struct {
	mu    sync.RWMutex
	users []*entity.User

	// LoadErr and SaveErr, when set, are returned instead of touching state.
	LoadErr error
	SaveErr error
}

// NewStore creates a store seeded with users.
func NewStore(users ...*entity.User) *Store {
	return &Store{users: cloneUsers(users)}
}

func (s *Store) Load(ctx context.Context) ([]*entity.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.LoadErr != nil {
		return nil, s.LoadErr
	}

	return cloneUsers(s.users), nil
}

func (s *Store) Save(ctx context.Context, users []*entity.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.SaveErr != nil {
		return s.SaveErr
	}

	s.users = cloneUsers(users)

	return nil
}

// Len reports the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.users)
}

func cloneUsers(users []*entity.User) []*entity.User {
	out := make([]*entity.User, 0, len(users))
	for _, u := range users {
		out = append(out, u.Clone())
	}

	return out
}
