package persistence

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"miniblog/internal/domain/entity"
	domainerrors "miniblog/internal/domain/errors"
	"miniblog/internal/domain/repository"
	"miniblog/internal/errors"
	"miniblog/internal/infra/lock"
	"miniblog/internal/infra/persistence/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// appendIfAbsent is the check-then-act cycle registration performs.
func appendIfAbsent(ctx context.Context, store repository.CredentialStore, username string) error {
	users, err := store.Load(ctx)
	if err != nil {
		return err
	}
	if repository.FindByUsername(users, username) != nil {
		return domainerrors.ErrUserAlreadyExists
	}
	// Widen the race window.
	time.Sleep(time.Millisecond)

	return store.Save(ctx, append(users, &entity.User{Username: username, PasswordHash: "h"}))
}

func TestLockingTransactionManager_NoDuplicateUnderContention(t *testing.T) {
	store := memory.NewStore()
	tm := NewLockingTransactionManager(store, lock.NewLocalLock())

	const attempts = 25
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)

	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()

			err := tm.Execute(context.Background(), func(s repository.CredentialStore) error {
				return appendIfAbsent(context.Background(), s, "alice")
			})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, domainerrors.ErrUserAlreadyExists):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, attempts-1, conflicts)
	assert.Equal(t, 1, store.Len())
}

func TestLockingTransactionManager_DistinctUsersAllPersist(t *testing.T) {
	store := memory.NewStore()
	tm := NewLockingTransactionManager(store, lock.NewLocalLock())

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()

			err := tm.Execute(context.Background(), func(s repository.CredentialStore) error {
				return appendIfAbsent(context.Background(), s, fmt.Sprintf("user-%d", i))
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, store.Len())
}

func TestLockingTransactionManager_ReleasesOnPanic(t *testing.T) {
	tm := NewLockingTransactionManager(memory.NewStore(), lock.NewLocalLock())

	assert.Panics(t, func() {
		_ = tm.Execute(context.Background(), func(repository.CredentialStore) error {
			panic("boom")
		})
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := tm.Execute(ctx, func(repository.CredentialStore) error { return nil })
	require.NoError(t, err)
}

func TestLockingTransactionManager_LockTimeout(t *testing.T) {
	locker := lock.NewLocalLock()
	tm := NewLockingTransactionManager(memory.NewStore(), locker)

	unlock, err := locker.Lock(context.Background())
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	called := false
	err = tm.Execute(ctx, func(repository.CredentialStore) error {
		called = true
		return nil
	})
	assert.True(t, errors.Is(err, domainerrors.ErrLockTimeout))
	assert.False(t, called)
}
