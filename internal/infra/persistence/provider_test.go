package persistence

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"miniblog/config"
	"miniblog/internal/domain/entity"
	"miniblog/internal/domain/repository"
	"miniblog/internal/infra/lock"
	"miniblog/internal/infra/persistence/file"
	"miniblog/internal/infra/persistence/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
)

func newParams(t *testing.T, storage *config.StorageConfig) (Params, *fxtest.Lifecycle) {
	t.Helper()

	lc := fxtest.NewLifecycle(t)

	return Params{
		Lifecycle: lc,
		Config:    &config.Config{Storage: storage},
		Logger:    slog.Default(),
		Locker:    lock.NewLocalLock(),
	}, lc
}

func TestNew_FileStoreInitialisesOnStart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	params, lc := newParams(t, &config.StorageConfig{
		Driver:  config.StorageDriverFile,
		Timeout: time.Second,
		File:    config.FileStorageConfig{Path: path},
	})

	res, err := New(params)
	require.NoError(t, err)
	assert.IsType(t, &file.Store{}, res.Store)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "file must not be created before start")

	lc.RequireStart()
	defer lc.RequireStop()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))

	err = res.TxManager.Execute(context.Background(), func(store repository.CredentialStore) error {
		return store.Save(context.Background(), []*entity.User{{Username: "alice", PasswordHash: "h"}})
	})
	require.NoError(t, err)

	users, err := res.Store.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestNew_MemoryStore(t *testing.T) {
	params, _ := newParams(t, &config.StorageConfig{Driver: config.StorageDriverMemory})

	res, err := New(params)
	require.NoError(t, err)
	assert.IsType(t, &memory.Store{}, res.Store)
	assert.NotNil(t, res.TxManager)
}

func TestNew_PostgresRequiresDSN(t *testing.T) {
	params, _ := newParams(t, &config.StorageConfig{Driver: config.StorageDriverPostgres})

	_, err := New(params)
	assert.Error(t, err)
}

func TestNew_UnknownDriver(t *testing.T) {
	params, _ := newParams(t, &config.StorageConfig{Driver: "mongo"})

	_, err := New(params)
	assert.Error(t, err)
}
