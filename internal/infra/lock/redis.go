package lock

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	domainerrors "miniblog/internal/domain/errors"
	"miniblog/internal/errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	lockPrefix         = "miniblog:lock:"
	credentialsLockKey = lockPrefix + "credentials"
	releaseTimeout     = 2 * time.Second

	defaultTTL           = 10 * time.Second
	defaultRetryInterval = 25 * time.Millisecond
)

// releaseScript deletes the key only while it still holds our token,
// so an expired lock re-acquired by another instance is left alone.
var releaseScript = redis.NewScript(`
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("del", KEYS[1])
	else
		return 0
	end
`)

// RedisLock implements Locker with Redis SET NX PX so several service
// instances sharing one users file or database serialise their writes.
type RedisLock struct {
	client        redis.UniversalClient
	key           string
	ownerID       string
	ttl           time.Duration
	retryInterval time.Duration
	logger        *slog.Logger
}

// NewRedisLock creates a Redis-backed Locker.
func NewRedisLock(client redis.UniversalClient, ttl, retryInterval time.Duration, logger *slog.Logger) *RedisLock {
	if logger == nil {
		logger = slog.Default()
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if retryInterval <= 0 {
		retryInterval = defaultRetryInterval
	}

	return &RedisLock{
		client:        client,
		key:           credentialsLockKey,
		ownerID:       generateOwnerID(),
		ttl:           ttl,
		retryInterval: retryInterval,
		logger:        logger,
	}
}

// generateOwnerID identifies this process. Format: hostname:pid:random
func generateOwnerID() string {
	hostname, _ := os.Hostname()
	randomBytes := make([]byte, 8)
	_, _ = rand.Read(randomBytes)

	return fmt.Sprintf("%s:%d:%s", hostname, os.Getpid(), hex.EncodeToString(randomBytes))
}

// OwnerID returns the process-level identifier used as the token prefix.
func (l *RedisLock) OwnerID() string {
	return l.ownerID
}

// Lock polls SETNX every retryInterval until it wins or ctx is done.
// Each acquisition carries its own token so goroutines in one process
// cannot release each other's hold.
func (l *RedisLock) Lock(ctx context.Context) (func(), error) {
	token := l.ownerID + ":" + uuid.NewString()

	ticker := time.NewTicker(l.retryInterval)
	defer ticker.Stop()

	for {
		acquired, err := l.client.SetNX(ctx, l.key, token, l.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, lockTimeout(ctx)
			}

			return nil, errors.WithStack(domainerrors.NewStorageError(err, "acquire redis lock"))
		}
		if acquired {
			return l.releaser(token), nil
		}

		select {
		case <-ctx.Done():
			return nil, lockTimeout(ctx)
		case <-ticker.C:
		}
	}
}

func (l *RedisLock) releaser(token string) func() {
	var once sync.Once

	return func() {
		once.Do(func() {
			// The request context may already be cancelled; release on a fresh one.
			ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
			defer cancel()

			if err := releaseScript.Run(ctx, l.client, []string{l.key}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
				// The key still expires after ttl.
				l.logger.Warn("Failed to release credential lock",
					slog.String("key", l.key),
					slog.Any("error", err),
				)
			}
		})
	}
}
