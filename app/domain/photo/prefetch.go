package photo

import (
	"context"

	"golang.org/x/sync/errgroup"
)

type PrefetchRequest struct {
	Kind       Kind   `json:"kind"`
	ResourceID string `json:"id"`
	Reference  string `json:"ref"`
}

const DefaultPrefetchConcurrency = 8

// Prefetcher warms the cache ahead of rendering, e.g. on list hover or
// pagination look-ahead. Keys are derived exactly as views derive them.
type Prefetcher struct {
	cache       *Cache
	concurrency int
}

func NewPrefetcher(cache *Cache, concurrency int) *Prefetcher {
	if concurrency <= 0 {
		concurrency = DefaultPrefetchConcurrency
	}
	return &Prefetcher{cache: cache, concurrency: concurrency}
}

// Prefetch is fire-and-forget. It reports whether the reference needs the cache at all.
func (p *Prefetcher) Prefetch(ctx context.Context, kind Kind, resourceID, raw string) bool {
	_, key, fetch := p.cache.locate(ctx, kind, resourceID, raw)
	if !fetch {
		return false
	}
	p.cache.Prefetch(ctx, key)
	return true
}

// PrefetchAll warms every request and waits until each one settles or ctx ends,
// with at most concurrency waits outstanding. Individual failures stay in the cache.
func (p *Prefetcher) PrefetchAll(ctx context.Context, requests []PrefetchRequest) (int, error) {
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(p.concurrency)

	scheduled := 0
	for _, req := range requests {
		_, key, fetch := p.cache.locate(ctx, req.Kind, req.ResourceID, req.Reference)
		if !fetch {
			continue
		}
		scheduled++
		group.Go(func() error {
			p.cache.Resolve(groupCtx, key)
			return groupCtx.Err()
		})
	}
	if err := group.Wait(); err != nil {
		return scheduled, err
	}
	return scheduled, ctx.Err()
}
