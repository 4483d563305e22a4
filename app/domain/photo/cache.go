package photo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"repairshop.dev/photo-gateway/app/utils/logger"
)

type Status int

const (
	StatusAbsent Status = iota
	StatusPending
	StatusResolved
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusAbsent:
		return "absent"
	case StatusPending:
		return "pending"
	case StatusResolved:
		return "resolved"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Snapshot is a point-in-time copy of one cache entry.
type Snapshot struct {
	Status     Status
	Value      *string
	Err        error
	FreshUntil time.Time
	EvictAfter time.Time
}

type entry struct {
	status     Status
	value      *string
	err        error
	freshUntil time.Time
	evictAfter time.Time
	// done is closed when the entry leaves pending.
	done chan struct{}
}

func (e *entry) snapshot() Snapshot {
	return Snapshot{
		Status:     e.status,
		Value:      e.value,
		Err:        e.err,
		FreshUntil: e.freshUntil,
		EvictAfter: e.evictAfter,
	}
}

type CacheOption func(*Cache)

func WithClock(now func() time.Time) CacheOption {
	return func(c *Cache) { c.now = now }
}

func WithObserver(observer CacheObserver) CacheOption {
	return func(c *Cache) {
		if observer != nil {
			c.observer = observer
		}
	}
}

// ScopeFunc names the caller a backend answer belongs to. An empty scope
// means the answer is the same for every caller.
type ScopeFunc func(ctx context.Context) string

// WithScope keys entries per caller scope.
func WithScope(scope ScopeFunc) CacheOption {
	return func(c *Cache) {
		if scope != nil {
			c.scope = scope
		}
	}
}

// WithFetchTimeout bounds every backend exchange. Zero leaves it to the HTTP client.
func WithFetchTimeout(timeout time.Duration) CacheOption {
	return func(c *Cache) { c.fetchTimeout = timeout }
}

// Cache is the process-wide store of resolved photo URLs. At most one fetch
// is in flight per key; a failed entry is not retried until it is evicted or
// invalidated. A backend 401/403 is the exception: it is evicted at once.
type Cache struct {
	registry     *Registry
	fetcher      Fetcher
	observer     CacheObserver
	scope        ScopeFunc
	now          func() time.Time
	fetchTimeout time.Duration

	mu        sync.Mutex
	entries   map[Key]*entry
	listeners map[Key]map[uint64]*listener
	nextID    uint64
}

type listener struct {
	ch chan Snapshot
	// ctx carries the watcher's identity for refetches after invalidation.
	ctx context.Context
}

func NewCache(registry *Registry, fetcher Fetcher, opts ...CacheOption) *Cache {
	c := &Cache{
		registry:  registry,
		fetcher:   fetcher,
		observer:  nopObserver{},
		scope:     func(context.Context) string { return "" },
		now:       time.Now,
		entries:   make(map[Key]*entry),
		listeners: make(map[Key]map[uint64]*listener),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cache) Registry() *Registry {
	return c.registry
}

// KeyFor builds the key a caller in ctx reads (kind, resourceID, raw) under.
func (c *Cache) KeyFor(ctx context.Context, kind Kind, resourceID, raw string) Key {
	return NewKey(kind, resourceID, raw).WithScope(c.scope(ctx))
}

// Get returns the current state of key without blocking. A miss, a stale
// entry or an evicted entry starts a fetch and reports pending.
func (c *Cache) Get(ctx context.Context, key Key) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.acquireLocked(ctx, key).snapshot()
}

// Resolve is Get that waits for a pending entry to settle or for ctx to end.
// Leaving early does not cancel the fetch.
func (c *Cache) Resolve(ctx context.Context, key Key) Snapshot {
	for {
		c.mu.Lock()
		e := c.acquireLocked(ctx, key)
		snap := e.snapshot()
		c.mu.Unlock()
		if snap.Status != StatusPending {
			return snap
		}

		select {
		case <-e.done:
			c.mu.Lock()
			if current, ok := c.entries[key]; ok && current == e {
				snap = e.snapshot()
				c.mu.Unlock()
				return snap
			}
			c.mu.Unlock()
			// invalidated while in flight; follow the replacement
		case <-ctx.Done():
			return snap
		}
	}
}

// Prefetch warms key. It costs nothing when key is already resolved and fresh or in flight.
func (c *Cache) Prefetch(ctx context.Context, key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.acquireLocked(ctx, key)
}

// Watch returns the current state of key and subscribes to its transitions.
// The channel holds only the latest snapshot; it is closed by the returned stop func.
func (c *Cache) Watch(ctx context.Context, key Key) (Snapshot, <-chan Snapshot, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := c.acquireLocked(ctx, key).snapshot()
	ch := make(chan Snapshot, 1)
	c.nextID++
	id := c.nextID
	if c.listeners[key] == nil {
		c.listeners[key] = make(map[uint64]*listener)
	}
	c.listeners[key][id] = &listener{ch: ch, ctx: context.WithoutCancel(ctx)}

	var once sync.Once
	stop := func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if set, ok := c.listeners[key]; ok {
				delete(set, id)
				if len(set) == 0 {
					delete(c.listeners, key)
				}
			}
			close(ch)
		})
	}
	return snap, ch, stop
}

// Peek reports the entry for key without starting a fetch. Entries past
// their eviction deadline are reported absent.
func (c *Cache) Peek(key Key) (Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || c.expiredLocked(e, c.now()) {
		return Snapshot{Status: StatusAbsent}, false
	}
	return e.snapshot(), true
}

// Invalidate drops key whatever its state. If something is watching key a
// fresh fetch starts right away.
func (c *Cache) Invalidate(ctx context.Context, key Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.invalidateLocked(ctx, key)
}

// InvalidateReference drops one reference of a resource for every caller scope.
func (c *Cache) InvalidateReference(ctx context.Context, kind Kind, resourceID, raw string) int {
	target := NewKey(kind, resourceID, raw)
	return c.invalidateMatching(ctx, func(key Key) bool {
		return key.Unscoped() == target
	})
}

// InvalidateResource drops every key of one resource, whatever its reference.
func (c *Cache) InvalidateResource(ctx context.Context, kind Kind, resourceID string) int {
	resourceID = strings.TrimSpace(resourceID)
	return c.invalidateMatching(ctx, func(key Key) bool {
		return key.Kind == kind && key.ResourceID == resourceID
	})
}

func (c *Cache) invalidateMatching(ctx context.Context, match func(Key) bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	var keys []Key
	for key := range c.entries {
		if match(key) {
			keys = append(keys, key)
		}
	}
	for _, key := range keys {
		c.invalidateLocked(ctx, key)
	}
	return len(keys)
}

// Clear drops every entry.
func (c *Cache) Clear(ctx context.Context) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]Key, 0, len(c.entries))
	for key := range c.entries {
		keys = append(keys, key)
	}
	for _, key := range keys {
		c.invalidateLocked(ctx, key)
	}
	return len(keys)
}

// Sweep removes every settled entry past its eviction deadline.
func (c *Cache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for key, e := range c.entries {
		if c.expiredLocked(e, now) {
			delete(c.entries, key)
			c.observer.Evicted(key.Kind)
			removed++
		}
	}
	return removed
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) expiredLocked(e *entry, now time.Time) bool {
	return e.status != StatusPending && !now.Before(e.evictAfter)
}

func (c *Cache) invalidateLocked(_ context.Context, key Key) bool {
	_, ok := c.entries[key]
	delete(c.entries, key)
	// refetch on behalf of a watcher, never of whoever invalidated
	for _, l := range c.listeners[key] {
		c.startLocked(l.ctx, key)
		break
	}
	return ok
}

func (c *Cache) acquireLocked(ctx context.Context, key Key) *entry {
	now := c.now()
	if e, ok := c.entries[key]; ok {
		switch {
		case c.expiredLocked(e, now):
			delete(c.entries, key)
			c.observer.Evicted(key.Kind)
		case e.status == StatusPending, e.status == StatusFailed:
			c.observer.Hit(key.Kind)
			return e
		case e.status == StatusResolved && now.Before(e.freshUntil):
			c.observer.Hit(key.Kind)
			return e
		}
	}
	c.observer.Miss(key.Kind)
	return c.startLocked(ctx, key)
}

func (c *Cache) startLocked(ctx context.Context, key Key) *entry {
	e := &entry{status: StatusPending, done: make(chan struct{})}

	cfg, err := c.registry.Config(key.Kind)
	if err != nil {
		// never stored: an unknown kind has no TTL to live by
		e.status = StatusFailed
		e.err = err
		close(e.done)
		return e
	}

	c.entries[key] = e
	c.notifyLocked(key, e.snapshot())
	go c.run(context.WithoutCancel(ctx), cfg, key, e)
	return e
}

func (c *Cache) run(ctx context.Context, cfg KindConfig, key Key, e *entry) {
	if c.fetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.fetchTimeout)
		defer cancel()
	}
	start := time.Now()
	res, err := c.fetch(ctx, cfg, key)
	c.observer.FetchCompleted(key.Kind, err, time.Since(start))
	c.complete(cfg, key, e, res, err)
}

func (c *Cache) fetch(ctx context.Context, cfg KindConfig, key Key) (res Resolution, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("fetcher panic: %v", r)
		}
		err = normalizeFetchError(key.Kind, err)
	}()
	return c.fetcher.Fetch(ctx, cfg, key)
}

func (c *Cache) complete(cfg KindConfig, key Key, e *entry, res Resolution, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if err != nil {
		logger.GetLogger().WithFields(logrus.Fields{
			"kind":        key.Kind,
			"resource_id": key.ResourceID,
		}).Warnf("photo cache: fetch failed: %v", err)
		e.status = StatusFailed
		e.err = err
		e.value = nil
		e.freshUntil = now
		e.evictAfter = now.Add(cfg.Evict)
		if isAuthRejection(err) {
			// the caller's credentials were refused; the next caller may fare better
			e.evictAfter = now
		}
	} else {
		issued := res.IssuedAt
		if issued.IsZero() || issued.After(now) {
			issued = now
		}
		e.status = StatusResolved
		e.value = res.URL
		e.freshUntil = issued.Add(cfg.Fresh)
		e.evictAfter = now.Add(cfg.Evict)
	}
	close(e.done)

	if current, ok := c.entries[key]; ok && current == e {
		c.notifyLocked(key, e.snapshot())
	}
}

func (c *Cache) notifyLocked(key Key, snap Snapshot) {
	for _, l := range c.listeners[key] {
		ch := l.ch
		select {
		case ch <- snap:
		default:
			// drop the stale snapshot, keep the latest
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}

func isAuthRejection(err error) bool {
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		return false
	}
	return fetchErr.StatusCode == http.StatusUnauthorized || fetchErr.StatusCode == http.StatusForbidden
}

// locate decides whether (kind, id, raw) needs the cache at all and, when it
// does, which key the caller in ctx reads. Unknown kinds and ids that cannot
// build a request render like "no photo".
func (c *Cache) locate(ctx context.Context, kind Kind, resourceID, raw string) (State, Key, bool) {
	cfg, err := c.registry.Config(kind)
	if err != nil {
		return State{}, Key{}, false
	}
	ref, err := Locate(cfg, resourceID, raw)
	if err != nil {
		return State{}, Key{}, false
	}
	switch {
	case ref.Variant == DirectURL && cfg.AcceptDirectURL:
		value := ref.Value
		return State{Data: &value}, Key{}, false
	case needsExchange(cfg, ref):
		return State{}, c.KeyFor(ctx, kind, resourceID, raw), true
	default:
		return State{}, Key{}, false
	}
}
