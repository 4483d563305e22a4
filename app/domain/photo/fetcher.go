package photo

import (
	"context"
	"time"
)

// Resolution is a successful exchange. A nil URL is the backend confirming there is no photo.
type Resolution struct {
	URL *string
	// IssuedAt is when the URL was minted; zero means "just now". Shared tiers
	// set it so a URL read back from them does not outlive its expiry.
	IssuedAt time.Time
}

// Fetcher exchanges a reference for a time-limited URL.
// Implementations are free to return any error; the cache normalizes it to *FetchError.
type Fetcher interface {
	Fetch(ctx context.Context, cfg KindConfig, key Key) (Resolution, error)
}

type FetcherFunc func(ctx context.Context, cfg KindConfig, key Key) (Resolution, error)

func (f FetcherFunc) Fetch(ctx context.Context, cfg KindConfig, key Key) (Resolution, error) {
	return f(ctx, cfg, key)
}

// SharedInvalidator is implemented by fetchers that keep their own copy of
// resolved URLs. Forget takes an unscoped key and drops every scope of it.
type SharedInvalidator interface {
	Forget(ctx context.Context, key Key) error
	ForgetResource(ctx context.Context, kind Kind, resourceID string) error
	ForgetAll(ctx context.Context) error
}

// CacheObserver receives cache events; the metrics package implements it.
type CacheObserver interface {
	Hit(kind Kind)
	Miss(kind Kind)
	FetchCompleted(kind Kind, err error, elapsed time.Duration)
	Evicted(kind Kind)
}

type nopObserver struct{}

func (nopObserver) Hit(Kind) {}
func (nopObserver) Miss(Kind) {}
func (nopObserver) FetchCompleted(Kind, error, time.Duration) {}
func (nopObserver) Evicted(Kind) {}
