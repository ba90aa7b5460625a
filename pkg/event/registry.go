package event

import (
	"cmp"
	"context"
	"reflect"
	"slices"
	"strings"
	"sync"
)

// handlerFunc is a handler with its event type erased. Handle restores the
// type before calling user code.
type handlerFunc func(ctx context.Context, ev any) error

type subscriber struct {
	id  uint64
	typ reflect.Type
	fn  handlerFunc
}

// registry maps event types to their live subscribers. One mutex guards the
// map and the id counter, so allocating an id and inserting under it happen
// together. It is never held while a handler runs.
type registry struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[reflect.Type]map[uint64]subscriber
}

func newRegistry() *registry {
	return &registry{subs: make(map[reflect.Type]map[uint64]subscriber)}
}

// add registers fn under the next id.
func (r *registry) add(typ reflect.Type, fn handlerFunc) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	id := r.nextID

	set, ok := r.subs[typ]
	if !ok {
		set = make(map[uint64]subscriber)
		r.subs[typ] = set
	}
	set[id] = subscriber{id: id, typ: typ, fn: fn}
	return id
}

// remove deletes one registration and reports whether it was present.
// A type without subscribers is dropped from the map.
func (r *registry) remove(typ reflect.Type, id uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.subs[typ]
	if !ok {
		return false
	}
	if _, ok := set[id]; !ok {
		return false
	}
	delete(set, id)
	if len(set) == 0 {
		delete(r.subs, typ)
	}
	return true
}

// snapshot copies the subscribers of typ in registration order.
func (r *registry) snapshot(typ reflect.Type) []subscriber {
	r.mu.Lock()
	set := r.subs[typ]
	out := make([]subscriber, 0, len(set))
	for _, s := range set {
		out = append(out, s)
	}
	r.mu.Unlock()

	slices.SortFunc(out, func(a, b subscriber) int {
		return cmp.Compare(a.id, b.id)
	})
	return out
}

func (r *registry) count(typ reflect.Type) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subs[typ])
}

// types lists the event types with at least one subscriber, sorted by name.
func (r *registry) types() []reflect.Type {
	r.mu.Lock()
	out := make([]reflect.Type, 0, len(r.subs))
	for typ := range r.subs {
		out = append(out, typ)
	}
	r.mu.Unlock()

	slices.SortFunc(out, func(a, b reflect.Type) int {
		return strings.Compare(a.String(), b.String())
	})
	return out
}
