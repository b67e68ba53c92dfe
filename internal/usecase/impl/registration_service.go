package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "miniblog/internal/delivery/context"
	"miniblog/internal/domain/entity"
	domainerrors "miniblog/internal/domain/errors"
	"miniblog/internal/domain/repository"
	"miniblog/internal/domain/service"
	"miniblog/internal/errors"
	"miniblog/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

const publishTimeout = 5 * time.Second

// registrationService implements the RegistrationUsecase interface.
type registrationService struct {
	store     repository.CredentialStore
	txManager repository.TransactionManager
	hasher    service.PasswordHasher
	publisher service.EventPublisher
	logger    *slog.Logger
	now       func() time.Time
}

// RegistrationServiceParams holds dependencies for RegistrationService, injected by Fx.
type RegistrationServiceParams struct {
	fx.In

	Store     repository.CredentialStore
	TxManager repository.TransactionManager
	Hasher    service.PasswordHasher
	Publisher service.EventPublisher `optional:"true"`
	Logger    *slog.Logger
}

// NewRegistrationService is the constructor for registrationService.
func NewRegistrationService(params RegistrationServiceParams) usecase.RegistrationUsecase {
	return &registrationService{
		store:     params.Store,
		txManager: params.TxManager,
		hasher:    params.Hasher,
		publisher: params.Publisher,
		logger:    params.Logger,
		now:       time.Now,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *registrationService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register validates the input, hashes the password and appends the user
// to the store while holding the store's write lock.
func (srv *registrationService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	username, password, err := normalizeCredentials(input.Username, input.Password, true)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	// Cheap pre-check so obvious duplicates skip the hash. The authoritative
	// check is repeated under the lock below.
	users, err := srv.store.Load(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load credentials")
	}
	if repository.FindByUsername(users, username) != nil {
		return nil, domainerrors.ErrUserAlreadyExists.WrapMessage("username already registered")
	}

	hash, err := srv.hasher.Hash(ctx, password)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password")
	}

	err = srv.txManager.Execute(ctx, func(store repository.CredentialStore) error {
		users, err := store.Load(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to load credentials")
		}

		if repository.FindByUsername(users, username) != nil {
			return domainerrors.ErrUserAlreadyExists.WrapMessage("username registered concurrently")
		}

		users = append(users, &entity.User{
			Username:     username,
			PasswordHash: hash,
		})

		return errors.Wrap(store.Save(ctx, users), "failed to save credentials")
	})
	if err != nil {
		if !errors.Is(err, domainerrors.ErrUserAlreadyExists) {
			srv.log(ctx).Error("Failed to execute registration transaction", slog.String("username", username), slog.Any("error", err))
		}

		return nil, errors.Wrap(err, "failed to register user")
	}

	srv.log(ctx).Info("User registered", slog.String("username", username))

	srv.publishRegistered(ctx, username)

	return &usecase.RegisterOutput{Username: username}, nil
}

// publishRegistered emits the event best-effort. The user is already stored,
// so a publish failure is logged and never returned.
func (srv *registrationService) publishRegistered(ctx context.Context, username string) {
	if srv.publisher == nil {
		return
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	event := &service.UserRegisteredEvent{
		RequestID:    deliverycontext.GetRequestIDFromContext(ctx),
		EventID:      uuid.NewString(),
		Username:     username,
		RegisteredAt: srv.now().UTC(),
	}

	if err := srv.publisher.PublishUserRegistered(pubCtx, event); err != nil {
		srv.log(ctx).Warn("Failed to publish user registered event",
			slog.String("username", username),
			slog.String("event_id", event.EventID),
			slog.Any("error", err),
		)
	}
}
