package lock

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"miniblog/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
)

func TestNew_LocalByDefault(t *testing.T) {
	locker, err := New(Params{
		Lifecycle: fxtest.NewLifecycle(t),
		Config:    &config.Config{Lock: &config.LockConfig{}},
		Logger:    slog.Default(),
	})
	require.NoError(t, err)
	assert.IsType(t, &localLock{}, locker)
}

func TestNew_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	lc := fxtest.NewLifecycle(t)

	locker, err := New(Params{
		Lifecycle: lc,
		Config: &config.Config{Lock: &config.LockConfig{
			Driver:        config.LockDriverRedis,
			TTL:           time.Second,
			RetryInterval: 5 * time.Millisecond,
			Redis:         config.RedisConfig{Addr: mr.Addr()},
		}},
		Logger: slog.Default(),
	})
	require.NoError(t, err)
	require.IsType(t, &RedisLock{}, locker)

	lc.RequireStart()
	defer lc.RequireStop()

	unlock, err := locker.Lock(context.Background())
	require.NoError(t, err)
	assert.True(t, mr.Exists(credentialsLockKey))
	unlock()
}

func TestNew_UnknownDriver(t *testing.T) {
	_, err := New(Params{
		Lifecycle: fxtest.NewLifecycle(t),
		Config:    &config.Config{Lock: &config.LockConfig{Driver: "etcd"}},
		Logger:    slog.Default(),
	})
	assert.Error(t, err)
}
