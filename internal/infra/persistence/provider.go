package persistence

import (
	"context"
	"log/slog"

	"miniblog/config"
	"miniblog/internal/domain/lifecycle"
	"miniblog/internal/domain/repository"
	"miniblog/internal/errors"
	"miniblog/internal/infra/lock"
	"miniblog/internal/infra/persistence/file"
	"miniblog/internal/infra/persistence/memory"
	"miniblog/internal/infra/persistence/postgres"

	"go.uber.org/fx"
)

// Params holds dependencies for the credential store, injected by Fx.
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
	Locker lock.Locker
}

// Result exposes the selected store and its transaction manager.
type Result struct {
	fx.Out

	Store     repository.CredentialStore
	TxManager repository.TransactionManager
}

// New builds the backend named by storage.driver.
// File and memory stores are serialised by the Locker; postgres uses database transactions.
func New(params Params) (Result, error) {
	cfg := params.Config.Storage
	if cfg == nil {
		return Result{}, errors.New("storage configuration is missing")
	}

	switch cfg.Driver {
	case "", config.StorageDriverFile:
		store := file.NewStore(cfg.File.Path, cfg.Timeout, params.Logger)

		params.Append(fx.Hook{
			OnStart: func(startCtx context.Context) error {
				ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
				defer cancel()

				return store.Init(ctx)
			},
		})

		params.Logger.Info("Using file credential store", slog.String("path", cfg.File.Path))

		return Result{
			Store:     store,
			TxManager: NewLockingTransactionManager(store, params.Locker),
		}, nil

	case config.StorageDriverMemory:
		store := memory.NewStore()
		params.Logger.Warn("Using in-memory credential store, data is lost on restart")

		return Result{
			Store:     store,
			TxManager: NewLockingTransactionManager(store, params.Locker),
		}, nil

	case config.StorageDriverPostgres:
		db, err := postgres.New(postgres.Params{
			Lifecycle: params.Lifecycle,
			Config:    params.Config,
			Logger:    params.Logger,
		})
		if err != nil {
			return Result{}, err
		}

		params.Logger.Info("Using PostgreSQL credential store",
			slog.Int("replicas", len(cfg.Postgres.ReplicaDSNs)),
		)

		return Result{
			Store:     postgres.NewCredentialStore(db, cfg.Timeout),
			TxManager: postgres.NewTransactionManager(db, cfg.Timeout),
		}, nil

	default:
		return Result{}, errors.Errorf("unsupported storage driver: %s", cfg.Driver)
	}
}
