// Package persistence selects and wires the configured credential store.
package persistence

import (
	"context"

	"miniblog/internal/domain/repository"
	"miniblog/internal/infra/lock"
)

// lockingTransactionManager runs read-modify-write cycles on a store
// that has no transactions of its own while holding a Locker.
type lockingTransactionManager struct {
	store  repository.CredentialStore
	locker lock.Locker
}

// NewLockingTransactionManager guards store with locker.
func NewLockingTransactionManager(store repository.CredentialStore, locker lock.Locker) repository.TransactionManager {
	return &lockingTransactionManager{
		store:  store,
		locker: locker,
	}
}

// Execute runs fn while the lock is held. The lock is released on return or panic.
func (tm *lockingTransactionManager) Execute(ctx context.Context, fn func(store repository.CredentialStore) error) error {
	unlock, err := tm.locker.Lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	return fn(tm.store)
}
