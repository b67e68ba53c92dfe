package lock

import (
	"context"
	"log/slog"

	"miniblog/config"
	"miniblog/internal/domain/lifecycle"
	"miniblog/internal/errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

// Params defines the dependencies required to build the configured Locker.
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// New returns the Locker selected by lock.driver.
func New(params Params) (Locker, error) {
	cfg := params.Config.Lock
	if cfg == nil || cfg.Driver == "" || cfg.Driver == config.LockDriverLocal {
		return NewLocalLock(), nil
	}
	if cfg.Driver != config.LockDriverRedis {
		return nil, errors.Errorf("unsupported lock driver: %s", cfg.Driver)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	params.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
			defer cancel()

			if err := client.Ping(ctx).Err(); err != nil {
				return errors.Wrap(err, "failed to ping Redis")
			}

			params.Logger.Info("Redis lock backend ready", slog.String("addr", cfg.Redis.Addr))

			return nil
		},
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})

	return NewRedisLock(client, cfg.TTL, cfg.RetryInterval, params.Logger), nil
}
