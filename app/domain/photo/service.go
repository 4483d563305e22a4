package photo

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"repairshop.dev/photo-gateway/app/domain/auth"
	"repairshop.dev/photo-gateway/app/utils/logger"
	"repairshop.dev/photo-gateway/config/environment_variables"
)

// Service is the entry point HTTP handlers use.
type Service struct {
	cache      *Cache
	prefetcher *Prefetcher
	shared     SharedInvalidator
}

func NewService(cache *Cache, prefetcher *Prefetcher, shared SharedInvalidator) *Service {
	return &Service{
		cache:      cache,
		prefetcher: prefetcher,
		shared:     shared,
	}
}

const DefaultFetchTimeout = 15 * time.Second

// ProvideCache builds the process-wide cache using PHOTO_FETCH_TIMEOUT. Entries
// are scoped per caller whenever tokens forwards the caller's own credentials.
func ProvideCache(registry *Registry, fetcher Fetcher, observer CacheObserver, tokens auth.TokenSource) *Cache {
	timeout := DefaultFetchTimeout
	if raw := strings.TrimSpace(environment_variables.EnvironmentVariables.PHOTO_FETCH_TIMEOUT); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			timeout = parsed
		} else {
			logger.GetLogger().Warnf("invalid PHOTO_FETCH_TIMEOUT %q: %v", raw, err)
		}
	}
	return NewCache(registry, fetcher,
		WithObserver(observer),
		WithFetchTimeout(timeout),
		WithScope(tokens.Scope),
	)
}

// ProvidePrefetcher builds the prefetcher using PHOTO_PREFETCH_CONCURRENCY.
func ProvidePrefetcher(cache *Cache) *Prefetcher {
	concurrency := DefaultPrefetchConcurrency
	if raw := strings.TrimSpace(environment_variables.EnvironmentVariables.PHOTO_PREFETCH_CONCURRENCY); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			concurrency = parsed
		} else {
			logger.GetLogger().Warnf("invalid PHOTO_PREFETCH_CONCURRENCY %q: %v", raw, err)
		}
	}
	return NewPrefetcher(cache, concurrency)
}

func (s *Service) Cache() *Cache {
	return s.cache
}

// Lookup returns the state for one reference. With wait it blocks until the
// fetch settles or ctx ends, otherwise it reports pending immediately.
func (s *Service) Lookup(ctx context.Context, kind Kind, resourceID, raw string, wait bool) State {
	state, key, fetch := s.cache.locate(ctx, kind, resourceID, raw)
	if !fetch {
		return state
	}
	if wait {
		return StateFromSnapshot(s.cache.Resolve(ctx, key))
	}
	return StateFromSnapshot(s.cache.Get(ctx, key))
}

// Watch binds a fresh view; the caller must Close it.
func (s *Service) Watch(ctx context.Context, kind Kind, resourceID, raw string) (*View, State) {
	view := NewView(s.cache)
	state := view.Bind(ctx, kind, resourceID, raw)
	return view, state
}

func (s *Service) Prefetch(ctx context.Context, requests []PrefetchRequest) int {
	scheduled := 0
	for _, req := range requests {
		if s.prefetcher.Prefetch(ctx, req.Kind, req.ResourceID, req.Reference) {
			scheduled++
		}
	}
	return scheduled
}

func (s *Service) PrefetchAndWait(ctx context.Context, requests []PrefetchRequest) (int, error) {
	return s.prefetcher.PrefetchAll(ctx, requests)
}

// Invalidate drops one reference, or every reference of the resource when raw
// is empty, for every caller scope, locally and in the shared tier.
func (s *Service) Invalidate(ctx context.Context, kind Kind, resourceID, raw string) (int, error) {
	if _, err := s.cache.Registry().Config(kind); err != nil {
		return 0, err
	}

	var removed int
	var sharedErr error
	if strings.TrimSpace(raw) == "" {
		if s.shared != nil {
			sharedErr = s.shared.ForgetResource(ctx, kind, resourceID)
		}
		removed = s.cache.InvalidateResource(ctx, kind, resourceID)
	} else {
		if s.shared != nil {
			sharedErr = s.shared.Forget(ctx, NewKey(kind, resourceID, raw))
		}
		removed = s.cache.InvalidateReference(ctx, kind, resourceID, raw)
	}
	if sharedErr != nil {
		logger.GetLogger().Warnf("photo service: shared invalidation for %s/%s failed: %v", kind, resourceID, sharedErr)
	}
	return removed, sharedErr
}

// Flush drops every cached URL, locally and in the shared tier.
func (s *Service) Flush(ctx context.Context) (int, error) {
	var err error
	if s.shared != nil {
		err = s.shared.ForgetAll(ctx)
	}
	removed := s.cache.Clear(ctx)
	return removed, err
}

// IsClientError reports errors caused by the caller's input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
