package lock

import (
	"context"
	"testing"
	"time"

	domainerrors "miniblog/internal/domain/errors"
	"miniblog/internal/errors"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return mr, client
}

func TestRedisLock_AcquireAndRelease(t *testing.T) {
	mr, client := setupTestRedis(t)
	l := NewRedisLock(client, 10*time.Second, 5*time.Millisecond, nil)

	unlock, err := l.Lock(context.Background())
	require.NoError(t, err)

	assert.True(t, mr.Exists(credentialsLockKey))
	assert.Equal(t, 10*time.Second, mr.TTL(credentialsLockKey))

	val, err := mr.Get(credentialsLockKey)
	require.NoError(t, err)
	assert.Contains(t, val, l.OwnerID())

	unlock()
	assert.False(t, mr.Exists(credentialsLockKey))
}

func TestRedisLock_ContendedTimesOut(t *testing.T) {
	_, client := setupTestRedis(t)
	first := NewRedisLock(client, 10*time.Second, 5*time.Millisecond, nil)
	second := NewRedisLock(client, 10*time.Second, 5*time.Millisecond, nil)

	unlock, err := first.Lock(context.Background())
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err = second.Lock(ctx)
	assert.True(t, errors.Is(err, domainerrors.ErrLockTimeout))
}

func TestRedisLock_WaiterAcquiresAfterRelease(t *testing.T) {
	_, client := setupTestRedis(t)
	first := NewRedisLock(client, 10*time.Second, 5*time.Millisecond, nil)
	second := NewRedisLock(client, 10*time.Second, 5*time.Millisecond, nil)

	unlock, err := first.Lock(context.Background())
	require.NoError(t, err)

	acquired := make(chan error, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		release, err := second.Lock(ctx)
		if err == nil {
			release()
		}
		acquired <- err
	}()

	time.Sleep(20 * time.Millisecond)
	unlock()

	select {
	case err := <-acquired:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("waiter never acquired the lock")
	}
}

func TestRedisLock_ReleaseKeepsForeignHolder(t *testing.T) {
	mr, client := setupTestRedis(t)
	l := NewRedisLock(client, time.Second, 5*time.Millisecond, nil)

	unlock, err := l.Lock(context.Background())
	require.NoError(t, err)

	// Simulate expiry followed by another instance taking the lock.
	mr.FastForward(2 * time.Second)
	require.NoError(t, mr.Set(credentialsLockKey, "other-instance"))

	unlock()

	val, err := mr.Get(credentialsLockKey)
	require.NoError(t, err)
	assert.Equal(t, "other-instance", val)
}

func TestRedisLock_BackendFailure(t *testing.T) {
	mr, client := setupTestRedis(t)
	l := NewRedisLock(client, time.Second, 5*time.Millisecond, nil)

	mr.Close()

	_, err := l.Lock(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrStorage))
}

func TestRedisLock_AppliesDefaults(t *testing.T) {
	_, client := setupTestRedis(t)
	l := NewRedisLock(client, 0, 0, nil)

	assert.Equal(t, defaultTTL, l.ttl)
	assert.Equal(t, defaultRetryInterval, l.retryInterval)
}
