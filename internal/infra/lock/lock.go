// Package lock provides mutual exclusion for read-modify-write cycles on the credential collection.
package lock

import (
	"context"

	domainerrors "miniblog/internal/domain/errors"
	"miniblog/internal/errors"
)

// Locker grants exclusive access to the credential collection.
type Locker interface {
	// Lock blocks until the lock is held or ctx is done.
	// The returned function releases the lock and is safe to call once.
	Lock(ctx context.Context) (unlock func(), err error)
}

func lockTimeout(ctx context.Context) error {
	return errors.Wrap(domainerrors.ErrLockTimeout.WithDetails(ctx.Err().Error()), "wait for credential lock")
}
