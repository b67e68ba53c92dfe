package postgres

import (
	"context"
	"time"

	domainerrors "miniblog/internal/domain/errors"
	"miniblog/internal/domain/repository"
	"miniblog/internal/errors"
	"miniblog/internal/infra/persistence/model"

	"gorm.io/gorm"
)

// gormTransactionManager implements the domain's TransactionManager interface using GORM.
type gormTransactionManager struct {
	db      *gorm.DB
	timeout time.Duration
}

// NewTransactionManager is the constructor for gormTransactionManager.
func NewTransactionManager(db *gorm.DB, timeout time.Duration) repository.TransactionManager {
	return &gormTransactionManager{
		db:      db,
		timeout: timeout,
	}
}

// Execute runs fn inside one database transaction holding a table lock
// that blocks concurrent writers but not plain readers.
func (tm *gormTransactionManager) Execute(ctx context.Context, fn func(store repository.CredentialStore) error) error {
	// Begin a new transaction
	tx := tm.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return errors.WithStack(domainerrors.NewStorageError(tx.Error, "failed to begin transaction"))
	}

	// Roll back if fn panics, then let the panic continue.
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	lockSQL := "LOCK TABLE " + model.CredentialModel{}.TableName() + " IN SHARE ROW EXCLUSIVE MODE"
	if err := tx.Exec(lockSQL).Error; err != nil {
		tx.Rollback()

		return errors.WithStack(domainerrors.NewStorageError(err, "failed to lock credentials table"))
	}

	// Create a store that is bound to this specific transaction.
	if err := fn(NewCredentialStore(tx, tm.timeout)); err != nil {
		if rbErr := tx.Rollback().Error; rbErr != nil {
			return errors.Wrapf(err, "transaction rollback failed: %v", rbErr)
		}

		return err
	}

	if err := tx.Commit().Error; err != nil {
		return errors.WithStack(domainerrors.NewStorageError(err, "failed to commit transaction"))
	}

	return nil
}
