package repository

import "context"

// TransactionManager runs a read-modify-write cycle on the credential store exclusively.
// This allows the use case layer to close the check-then-act race without depending on
// a specific backend (file lock, redis lock or database transaction).
type TransactionManager interface {
	// Execute runs fn with a store bound to the exclusive section.
	// If fn returns an error nothing it saved is kept (database backends roll back;
	// file backends only persist on an explicit Save).
	Execute(ctx context.Context, fn func(store CredentialStore) error) error
}
