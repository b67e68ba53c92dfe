// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"context"
	"runtime"

	"miniblog/config"
	domainerrors "miniblog/internal/domain/errors"
	"miniblog/internal/domain/service"
	"miniblog/internal/errors"

	"go.uber.org/fx"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// bcryptHasher is a concrete implementation of the PasswordHasher interface using bcrypt.
// Every Hash/Check runs under a bounded pool so slow hashing cannot starve the process.
type bcryptHasher struct {
	cost int
	pool *semaphore.Weighted
}

// HasherParams holds dependencies for the hasher, injected by Fx.
type HasherParams struct {
	fx.In

	Config *config.Config
}

// NewBcryptHasher is the constructor for bcryptHasher.
// It returns the implementation as a service.PasswordHasher interface.
func NewBcryptHasher(params HasherParams) (service.PasswordHasher, error) {
	cost := bcrypt.DefaultCost
	workers := 0
	if params.Config != nil && params.Config.Auth != nil {
		cost = params.Config.Auth.BcryptCost
		workers = params.Config.Auth.HashWorkers
	}

	return NewBcryptHasherWithCost(cost, workers)
}

// NewBcryptHasherWithCost builds a hasher with an explicit work factor and pool size.
// A non-positive workers value sizes the pool to GOMAXPROCS.
func NewBcryptHasherWithCost(cost, workers int) (service.PasswordHasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, errors.Errorf("bcrypt cost %d outside [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	return &bcryptHasher{
		cost: cost,
		pool: semaphore.NewWeighted(int64(workers)),
	}, nil
}

// Hash generates a salted hash from a plaintext password using bcrypt.
// bcrypt automatically handles salt generation.
func (h *bcryptHasher) Hash(ctx context.Context, password string) (string, error) {
	if err := h.pool.Acquire(ctx, 1); err != nil {
		return "", errors.Wrap(err, "wait for hash worker")
	}
	defer h.pool.Release(1)

	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", errors.Wrap(domainerrors.ErrPasswordHashFailed.WithDetails(err.Error()), "bcrypt generate")
	}

	return string(bytes), nil
}

// Check compares a plaintext password with a bcrypt hash.
func (h *bcryptHasher) Check(ctx context.Context, password, hash string) (bool, error) {
	if err := h.pool.Acquire(ctx, 1); err != nil {
		return false, errors.Wrap(err, "wait for hash worker")
	}
	defer h.pool.Release(1)

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword),
		errors.Is(err, bcrypt.ErrPasswordTooLong):
		return false, nil
	default:
		return false, errors.WithStack(domainerrors.ErrHashFormat.WithDetails(err.Error()))
	}
}

// NeedsRehash reports whether hash was generated with a different cost.
// Unparseable hashes return false; Check reports those.
func (h *bcryptHasher) NeedsRehash(hash string) bool {
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		return false
	}

	return cost != h.cost
}
