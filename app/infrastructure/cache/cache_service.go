package cache

import (
	"context"
	"errors"
	"time"

	"github.com/go-redsync/redsync/v4"
)

// ErrKeyNotFound is returned by Get when the key is absent or expired.
var ErrKeyNotFound = errors.New("cache: key not found")

// CacheService is the shared, cross-replica key/value tier. Values are stored as JSON.
type CacheService interface {
	// Set stores value under key for expiration.
	Set(ctx context.Context, key string, value any, expiration time.Duration) error

	// Get decodes the value under key into dest.
	Get(ctx context.Context, key string, dest any) error

	Delete(ctx context.Context, key string) error

	// DeletePattern removes all keys matching a glob pattern.
	DeletePattern(ctx context.Context, pattern string) error

	Close() error

	HealthCheck(ctx context.Context) error

	// NewMutex returns a distributed lock, or nil when the backend cannot provide one.
	NewMutex(name string, options ...redsync.Option) *redsync.Mutex
}
