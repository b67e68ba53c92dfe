// Package service defines interfaces for core, stateless domain logic.
// These services encapsulate business rules that don't naturally fit within a single entity.
package service

import "context"

// MaxPasswordBytes is the longest password the hasher accepts.
const MaxPasswordBytes = 72

// PasswordHasher defines the interface for password hashing and verification.
// This abstracts the underlying hashing algorithm (e.g., bcrypt), keeping the domain pure.
type PasswordHasher interface {
	// Hash generates a salted, self-describing hash from a plaintext password.
	// Two calls with the same password return different hashes.
	Hash(ctx context.Context, password string) (string, error)

	// Check compares a plaintext password with a hash.
	// A mismatch is (false, nil); an unrecognisable hash encoding is an error.
	Check(ctx context.Context, password, hash string) (bool, error)

	// NeedsRehash reports whether hash was produced with parameters other than
	// the hasher's current ones.
	NeedsRehash(hash string) bool
}
