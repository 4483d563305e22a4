package photo

import (
	"context"
	"errors"
	"sync"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// fakeFetcher counts calls per key. When gate is set every call blocks until
// the gate is closed or ctx ends.
type fakeFetcher struct {
	mu     sync.Mutex
	calls  map[Key]int
	total  int
	gate   chan struct{}
	failOn map[Key]error
	panics bool
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{calls: make(map[Key]int), failOn: make(map[Key]error)}
}

func (f *fakeFetcher) Fetch(ctx context.Context, cfg KindConfig, key Key) (Resolution, error) {
	f.mu.Lock()
	f.calls[key]++
	f.total++
	gate := f.gate
	failure := f.failOn[key]
	panics := f.panics
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return Resolution{}, ctx.Err()
		}
	}
	if panics {
		panic("backend exploded")
	}
	if failure != nil {
		return Resolution{}, failure
	}
	url := "https://cdn.example/" + string(key.Kind) + "/" + key.ResourceID + "?sig=1"
	return Resolution{URL: &url}, nil
}

func (f *fakeFetcher) Calls(key Key) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[key]
}

func (f *fakeFetcher) Total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.total
}

func (f *fakeFetcher) Block() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gate = make(chan struct{})
}

func (f *fakeFetcher) Release() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.gate != nil {
		close(f.gate)
		f.gate = nil
	}
}

func (f *fakeFetcher) Fail(key Key, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failOn[key] = err
}

var errNetwork = errors.New("connection refused")

func newTestCache(fetcher Fetcher, clock *fakeClock) *Cache {
	return NewCache(DefaultRegistry(), fetcher, WithClock(clock.Now))
}
