package impl

import (
	"context"
	"log/slog"
	"sync"

	deliverycontext "miniblog/internal/delivery/context"
	domainerrors "miniblog/internal/domain/errors"
	"miniblog/internal/domain/repository"
	"miniblog/internal/domain/service"
	"miniblog/internal/errors"
	"miniblog/internal/usecase"

	"go.uber.org/fx"
)

// dummyPassword is hashed once to give unknown usernames the same cost as a wrong password.
const dummyPassword = "miniblog-timing-equaliser"

// authenticationService implements the AuthenticationUsecase interface.
type authenticationService struct {
	store     repository.CredentialStore
	txManager repository.TransactionManager
	hasher    service.PasswordHasher
	logger    *slog.Logger

	dummyMu   sync.Mutex
	dummyHash string
}

// AuthenticationServiceParams holds dependencies for AuthenticationService, injected by Fx.
type AuthenticationServiceParams struct {
	fx.In

	Store     repository.CredentialStore
	TxManager repository.TransactionManager
	Hasher    service.PasswordHasher
	Logger    *slog.Logger
}

// NewAuthenticationService is the constructor for authenticationService.
func NewAuthenticationService(params AuthenticationServiceParams) usecase.AuthenticationUsecase {
	return &authenticationService{
		store:     params.Store,
		txManager: params.TxManager,
		hasher:    params.Hasher,
		logger:    params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authenticationService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Authenticate checks the password against the stored hash.
// Reads do not take the store lock.
func (srv *authenticationService) Authenticate(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	username, password, err := normalizeCredentials(input.Username, input.Password, false)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	users, err := srv.store.Load(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load credentials")
	}

	user := repository.FindByUsername(users, username)
	if user == nil {
		srv.equaliseTiming(ctx, password)

		return nil, domainerrors.ErrUserNotFound.WrapMessage("login for unknown username")
	}

	ok, err := srv.hasher.Check(ctx, password, user.PasswordHash)
	if err != nil {
		if errors.Is(err, domainerrors.ErrHashFormat) {
			srv.log(ctx).Error("Stored password hash is corrupted", slog.String("username", username), slog.Any("error", err))

			return nil, errors.WithStack(domainerrors.NewStorageError(err, "corrupted password hash"))
		}

		return nil, errors.Wrap(err, "failed to verify password")
	}
	if !ok {
		return nil, domainerrors.ErrInvalidPassword.WrapMessage("password mismatch")
	}

	if srv.hasher.NeedsRehash(user.PasswordHash) {
		srv.rehash(ctx, username, password, user.PasswordHash)
	}

	srv.log(ctx).Debug("User authenticated", slog.String("username", username))

	return &usecase.LoginOutput{Username: username}, nil
}

// equaliseTiming runs one comparison against a dummy hash. Errors are ignored.
func (srv *authenticationService) equaliseTiming(ctx context.Context, password string) {
	hash := srv.getDummyHash(ctx)
	if hash == "" {
		return
	}

	_, _ = srv.hasher.Check(ctx, password, hash)
}

func (srv *authenticationService) getDummyHash(ctx context.Context) string {
	srv.dummyMu.Lock()
	defer srv.dummyMu.Unlock()

	if srv.dummyHash != "" {
		return srv.dummyHash
	}

	hash, err := srv.hasher.Hash(ctx, dummyPassword)
	if err != nil {
		srv.log(ctx).Warn("Failed to compute dummy hash", slog.Any("error", err))

		return ""
	}
	srv.dummyHash = hash

	return hash
}

// rehash upgrades a hash produced with an outdated cost. The login has
// already succeeded, so failures are only logged.
func (srv *authenticationService) rehash(ctx context.Context, username, password, oldHash string) {
	newHash, err := srv.hasher.Hash(ctx, password)
	if err != nil {
		srv.log(ctx).Warn("Failed to rehash password", slog.String("username", username), slog.Any("error", err))

		return
	}

	err = srv.txManager.Execute(ctx, func(store repository.CredentialStore) error {
		users, err := store.Load(ctx)
		if err != nil {
			return err
		}

		// Skip if the record changed since it was read.
		user := repository.FindByUsername(users, username)
		if user == nil || user.PasswordHash != oldHash {
			return nil
		}
		user.PasswordHash = newHash

		return store.Save(ctx, users)
	})
	if err != nil {
		srv.log(ctx).Warn("Failed to store rehashed password", slog.String("username", username), slog.Any("error", err))

		return
	}

	srv.log(ctx).Info("Password rehashed with current cost", slog.String("username", username))
}
