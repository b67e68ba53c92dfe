package impl

import (
	"io"
	"log/slog"
	"testing"

	"miniblog/internal/domain/entity"
	"miniblog/internal/domain/repository"
	"miniblog/internal/domain/service"
	"miniblog/internal/infra/auth"
	"miniblog/internal/infra/lock"
	"miniblog/internal/infra/persistence"
	"miniblog/internal/infra/persistence/memory"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestHasher(t *testing.T, cost int) service.PasswordHasher {
	t.Helper()

	hasher, err := auth.NewBcryptHasherWithCost(cost, 4)
	require.NoError(t, err)

	return hasher
}

// storeFixtures wires the real store stack used by behavioural tests.
type storeFixtures struct {
	store     *memory.Store
	txManager repository.TransactionManager
	hasher    service.PasswordHasher
}

func newStoreFixtures(t *testing.T, users ...*entity.User) storeFixtures {
	t.Helper()

	store := memory.NewStore(users...)

	return storeFixtures{
		store:     store,
		txManager: persistence.NewLockingTransactionManager(store, lock.NewLocalLock()),
		hasher:    newTestHasher(t, bcrypt.MinCost),
	}
}

func (f storeFixtures) registration(publisher service.EventPublisher) *registrationService {
	return NewRegistrationService(RegistrationServiceParams{
		Store:     f.store,
		TxManager: f.txManager,
		Hasher:    f.hasher,
		Publisher: publisher,
		Logger:    newDiscardLogger(),
	}).(*registrationService)
}

func (f storeFixtures) authentication() *authenticationService {
	return NewAuthenticationService(AuthenticationServiceParams{
		Store:     f.store,
		TxManager: f.txManager,
		Hasher:    f.hasher,
		Logger:    newDiscardLogger(),
	}).(*authenticationService)
}
