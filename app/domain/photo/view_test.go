package photo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitForState(t *testing.T, view *View, want func(State) bool) State {
	t.Helper()
	var got State
	require.Eventually(t, func() bool {
		got = view.State()
		return want(got)
	}, time.Second, 5*time.Millisecond)
	return got
}

func TestView_SentinelsNeverTouchTheCache(t *testing.T) {
	fetcher := newFakeFetcher()
	cache := newTestCache(fetcher, newFakeClock())

	for _, raw := range []string{"", "0", "   "} {
		view := NewView(cache)
		state := view.Bind(context.Background(), KindPart, "42", raw)
		assert.Equal(t, State{}, state, "%q", raw)
		view.Close()
	}
	assert.Equal(t, 0, fetcher.Total())
	assert.Equal(t, 0, cache.Len())
}

func TestView_InvalidInputRendersAsNoPhoto(t *testing.T) {
	fetcher := newFakeFetcher()
	cache := newTestCache(fetcher, newFakeClock())
	view := NewView(cache)
	defer view.Close()

	assert.Equal(t, State{}, view.Bind(context.Background(), KindPart, "", "parts/1.png"))
	assert.Equal(t, State{}, view.Bind(context.Background(), Kind("invoice"), "1", "x"))
	assert.Equal(t, 0, fetcher.Total())
}

func TestView_DirectURLPassesThrough(t *testing.T) {
	fetcher := newFakeFetcher()
	cache := newTestCache(fetcher, newFakeClock())
	view := NewView(cache)
	defer view.Close()

	presigned := "https://s3.amazonaws.com/b/w.png?X-Amz-Signature=abc"
	state := view.Bind(context.Background(), KindWarranty, "3", presigned)
	require.NotNil(t, state.Data)
	assert.Equal(t, presigned, *state.Data)
	assert.False(t, state.IsLoading)
	assert.Equal(t, 0, fetcher.Total())
}

func TestView_LoadingThenData(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.Block()
	cache := newTestCache(fetcher, newFakeClock())
	view := NewView(cache)
	defer view.Close()

	state := view.Bind(context.Background(), KindPart, "42", "https://s3/x.png")
	assert.Equal(t, State{IsLoading: true}, state)

	fetcher.Release()
	state = waitForState(t, view, func(s State) bool { return s.Data != nil })
	assert.False(t, state.IsLoading)
	assert.False(t, state.IsError)

	select {
	case update := <-view.Updates():
		assert.NotNil(t, update.Data)
	default:
		t.Fatal("expected a pending update")
	}
}

func TestView_RebindSameInputsIsNoop(t *testing.T) {
	fetcher := newFakeFetcher()
	clock := newFakeClock()
	cache := newTestCache(fetcher, clock)
	view := NewView(cache)
	defer view.Close()

	view.Bind(context.Background(), KindPart, "42", "x")
	waitForState(t, view, func(s State) bool { return s.Data != nil })

	clock.Advance(13 * time.Minute)
	// identical inputs keep the current binding and state
	state := view.Bind(context.Background(), KindPart, "42", "x")
	assert.NotNil(t, state.Data)
	assert.Equal(t, 1, fetcher.Total())
}

func TestView_RebindSwitchesKey(t *testing.T) {
	fetcher := newFakeFetcher()
	cache := newTestCache(fetcher, newFakeClock())
	view := NewView(cache)
	defer view.Close()

	view.Bind(context.Background(), KindPart, "42", "x")
	waitForState(t, view, func(s State) bool { return s.Data != nil })

	state := view.Bind(context.Background(), KindPart, "42", "")
	assert.Equal(t, State{}, state)

	view.Bind(context.Background(), KindPart, "43", "y")
	got := waitForState(t, view, func(s State) bool { return s.Data != nil })
	assert.Contains(t, *got.Data, "/part/43")
}

func TestView_ErrorState(t *testing.T) {
	fetcher := newFakeFetcher()
	cache := newTestCache(fetcher, newFakeClock())
	fetcher.Fail(NewKey(KindProfile, "7", "me.png"), errNetwork)

	view := NewView(cache)
	defer view.Close()
	view.Bind(context.Background(), KindProfile, "7", "me.png")
	state := waitForState(t, view, func(s State) bool { return !s.IsLoading })
	assert.Equal(t, State{IsError: true}, state)
}

func TestView_CloseKeepsSharedFetch(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.Block()
	cache := newTestCache(fetcher, newFakeClock())
	key := NewKey(KindPart, "42", "x")

	first := NewView(cache)
	second := NewView(cache)
	defer second.Close()
	first.Bind(context.Background(), KindPart, "42", "x")
	second.Bind(context.Background(), KindPart, "42", "x")
	first.Close()
	first.Close()

	fetcher.Release()
	waitForState(t, second, func(s State) bool { return s.Data != nil })
	assert.Equal(t, 1, fetcher.Calls(key))

	_, open := <-first.Updates()
	for open {
		_, open = <-first.Updates()
	}
	assert.Equal(t, State{}, first.Bind(context.Background(), KindPart, "42", "x"))
}
