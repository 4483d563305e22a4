package photo

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type callerKey struct{}

func asCaller(caller string) context.Context {
	return context.WithValue(context.Background(), callerKey{}, caller)
}

func callerScope(ctx context.Context) string {
	caller, _ := ctx.Value(callerKey{}).(string)
	return caller
}

// ownerOnlyFetcher answers like a backend that forwards the caller's token
// and only lets "owner" see the photo.
type ownerOnlyFetcher struct {
	mu    sync.Mutex
	calls map[string]int
}

func (f *ownerOnlyFetcher) Fetch(ctx context.Context, cfg KindConfig, key Key) (Resolution, error) {
	caller := callerScope(ctx)
	f.mu.Lock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[caller]++
	f.mu.Unlock()

	if caller != "owner" {
		return Resolution{}, &FetchError{Kind: key.Kind, StatusCode: http.StatusForbidden, Err: errors.New("forbidden")}
	}
	url := "https://cdn.example/secret.png?sig=" + key.ResourceID
	return Resolution{URL: &url}, nil
}

func (f *ownerOnlyFetcher) Calls(caller string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[caller]
}

func newScopedService(fetcher Fetcher, clock *fakeClock) *Service {
	cache := NewCache(DefaultRegistry(), fetcher, WithClock(clock.Now), WithScope(callerScope))
	return NewService(cache, NewPrefetcher(cache, 2), nil)
}

func TestService_ScopedCallersDoNotShareURLs(t *testing.T) {
	fetcher := &ownerOnlyFetcher{}
	service := newScopedService(fetcher, newFakeClock())

	owner := service.Lookup(asCaller("owner"), KindPart, "42", "parts/42.png", true)
	require.NotNil(t, owner.Data)

	stranger := service.Lookup(asCaller("stranger"), KindPart, "42", "parts/42.png", true)
	assert.Equal(t, State{IsError: true}, stranger)
	assert.Equal(t, 1, fetcher.Calls("stranger"))
}

func TestService_RejectedCallerDoesNotPoisonOthers(t *testing.T) {
	fetcher := &ownerOnlyFetcher{}
	service := newScopedService(fetcher, newFakeClock())

	stranger := service.Lookup(asCaller("stranger"), KindPart, "43", "parts/43.png", true)
	assert.True(t, stranger.IsError)

	owner := service.Lookup(asCaller("owner"), KindPart, "43", "parts/43.png", true)
	require.NotNil(t, owner.Data)
	assert.Equal(t, "https://cdn.example/secret.png?sig=43", *owner.Data)
}

func TestCache_AuthRejectionIsRetried(t *testing.T) {
	clock := newFakeClock()
	fetcher := newFakeFetcher()
	cache := newTestCache(fetcher, clock)
	key := NewKey(KindPart, "42", "parts/42.png")
	fetcher.Fail(key, &FetchError{Kind: KindPart, StatusCode: http.StatusUnauthorized, Err: errors.New("expired token")})

	snap := cache.Resolve(context.Background(), key)
	require.Equal(t, StatusFailed, snap.Status)
	_, ok := cache.Peek(key)
	assert.False(t, ok)

	fetcher.Fail(key, nil)
	snap = cache.Resolve(context.Background(), key)
	assert.Equal(t, StatusResolved, snap.Status)
	assert.Equal(t, 2, fetcher.Calls(key))
}

func TestService_InvalidateReferenceDropsEveryScope(t *testing.T) {
	clock := newFakeClock()
	fetcher := newFakeFetcher()
	cache := NewCache(DefaultRegistry(), fetcher, WithClock(clock.Now), WithScope(callerScope))
	service := NewService(cache, NewPrefetcher(cache, 2), nil)

	service.Lookup(asCaller("a"), KindPart, "42", "parts/42.png", true)
	service.Lookup(asCaller("b"), KindPart, "42", "parts/42.png", true)
	service.Lookup(asCaller("b"), KindPart, "42", "parts/other.png", true)
	require.Equal(t, 3, cache.Len())

	removed, err := service.Invalidate(context.Background(), KindPart, "42", " parts/42.png ")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.Equal(t, 1, cache.Len())
}

func TestCache_WatchRefetchRunsAsWatcher(t *testing.T) {
	fetcher := &ownerOnlyFetcher{}
	cache := NewCache(DefaultRegistry(), fetcher, WithScope(callerScope))
	ctx := asCaller("owner")
	key := cache.KeyFor(ctx, KindPart, "42", "parts/42.png")

	_, updates, stop := cache.Watch(ctx, key)
	defer stop()
	require.Eventually(t, func() bool {
		snap, _ := cache.Peek(key)
		return snap.Status == StatusResolved
	}, time.Second, 5*time.Millisecond)
	drain(updates)

	// an administrator invalidates; the refetch still carries the watcher's identity
	assert.True(t, cache.Invalidate(asCaller("admin"), key))
	require.Eventually(t, func() bool {
		snap, _ := cache.Peek(key)
		return snap.Status == StatusResolved
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 2, fetcher.Calls("owner"))
	assert.Equal(t, 0, fetcher.Calls("admin"))
}

func TestNewKey_NormalizesReference(t *testing.T) {
	assert.Equal(t, NewKey(KindPart, "1", "parts/1.png"), NewKey(KindPart, " 1", " parts/1.png\n"))

	cfg, err := DefaultRegistry().Config(KindRepair)
	require.NoError(t, err)
	ref := Classify(cfg, "  tickets/9.jpg ")
	assert.Equal(t, OpaqueKey, ref.Variant)
	assert.Equal(t, "tickets/9.jpg", ref.Value)
}

func TestKey_ScopeInStorageForm(t *testing.T) {
	base := NewKey(KindPart, "42", "x")
	scoped := base.WithScope("user:7")

	assert.NotEqual(t, base.String(), scoped.String())
	assert.Equal(t, base, scoped.Unscoped())
	assert.Contains(t, scoped.String(), base.ScopePrefix())
	assert.NotContains(t, base.String(), base.ScopePrefix())
	assert.Contains(t, scoped.String(), base.ResourcePrefix())
}

func drain(ch <-chan Snapshot) {
	for {
		select {
		case <-ch:
		default:
			return
		}
	}
}
