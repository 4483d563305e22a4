package cache

import (
	"context"
	"time"

	"github.com/go-redsync/redsync/v4"
)

// NoOpCacheService stands in when no shared tier is configured or reachable.
type NoOpCacheService struct{}

func (n *NoOpCacheService) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	return nil
}

// Get always misses.
func (n *NoOpCacheService) Get(ctx context.Context, key string, dest any) error {
	return ErrKeyNotFound
}

func (n *NoOpCacheService) Delete(ctx context.Context, key string) error {
	return nil
}

func (n *NoOpCacheService) DeletePattern(ctx context.Context, pattern string) error {
	return nil
}

func (n *NoOpCacheService) Close() error {
	return nil
}

func (n *NoOpCacheService) HealthCheck(ctx context.Context) error {
	return nil
}

// NewMutex returns nil; a single replica needs no cross-process lock.
func (n *NoOpCacheService) NewMutex(name string, options ...redsync.Option) *redsync.Mutex {
	return nil
}
