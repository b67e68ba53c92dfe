package lock

import (
	"context"
	"sync"
)

// localLock is a context-aware mutex for single-process deployments.
type localLock struct {
	sem chan struct{}
}

// NewLocalLock creates an in-process Locker.
func NewLocalLock() Locker {
	return &localLock{sem: make(chan struct{}, 1)}
}

func (l *localLock) Lock(ctx context.Context) (func(), error) {
	// Fail fast on an already-cancelled context even when the lock is free.
	if ctx.Err() != nil {
		return nil, lockTimeout(ctx)
	}

	select {
	case l.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, lockTimeout(ctx)
	}

	var once sync.Once

	return func() {
		once.Do(func() { <-l.sem })
	}, nil
}
