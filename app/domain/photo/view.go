package photo

import (
	"context"
	"sync"
)

// State is what a consumer renders: a URL, a loading skeleton or a fallback icon.
type State struct {
	Data      *string `json:"data"`
	IsLoading bool    `json:"is_loading"`
	IsError   bool    `json:"is_error"`
}

// StateFromSnapshot maps cache state onto view state.
func StateFromSnapshot(snap Snapshot) State {
	switch snap.Status {
	case StatusPending:
		return State{IsLoading: true}
	case StatusResolved:
		return State{Data: snap.Value}
	case StatusFailed:
		return State{IsError: true}
	default:
		return State{}
	}
}

type binding struct {
	kind       Kind
	resourceID string
	reference  string
}

// View binds one consumer to the photo it currently displays. Rebinding to the
// same inputs is free; rebinding to different inputs switches the subscription.
// Closing a view never cancels a fetch other consumers may share.
type View struct {
	cache *Cache

	mu         sync.Mutex
	current    *binding
	generation uint64
	state      State
	stop       func()
	updates    chan State
	closed     bool
}

func NewView(cache *Cache) *View {
	return &View{
		cache:   cache,
		updates: make(chan State, 1),
	}
}

// Bind points the view at (kind, resourceID, raw) and returns the state to render now.
func (v *View) Bind(ctx context.Context, kind Kind, resourceID, raw string) State {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return State{}
	}
	next := binding{kind: kind, resourceID: resourceID, reference: raw}
	if v.current != nil && *v.current == next {
		return v.state
	}

	v.detachLocked()
	v.current = &next
	v.generation++

	state, key, fetch := v.cache.locate(ctx, kind, resourceID, raw)
	if !fetch {
		v.setLocked(state)
		return state
	}

	snap, ch, stop := v.cache.Watch(ctx, key)
	v.stop = stop
	go v.forward(v.generation, ch)
	v.setLocked(StateFromSnapshot(snap))
	return v.state
}

// State returns the last state of the bound key.
func (v *View) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Updates delivers state changes. Only the latest unread state is kept.
func (v *View) Updates() <-chan State {
	return v.updates
}

// Close stops listening. It is safe to call more than once.
func (v *View) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.detachLocked()
	v.closed = true
	close(v.updates)
}

func (v *View) detachLocked() {
	if v.stop != nil {
		v.stop()
		v.stop = nil
	}
}

func (v *View) forward(generation uint64, ch <-chan Snapshot) {
	for snap := range ch {
		v.mu.Lock()
		if v.closed || v.generation != generation {
			v.mu.Unlock()
			return
		}
		v.setLocked(StateFromSnapshot(snap))
		v.mu.Unlock()
	}
}

func (v *View) setLocked(state State) {
	v.state = state
	select {
	case v.updates <- state:
	default:
		select {
		case <-v.updates:
		default:
		}
		v.updates <- state
	}
}
