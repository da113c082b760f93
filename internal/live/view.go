// Package live keeps the latest result of a live subscription as an
// immutable snapshot that other components can read or subscribe to.
package live

import (
	"slices"
	"sync"
)

// View holds the last known-good snapshot of a subscription. A failed
// refresh records the error and keeps the previous snapshot.
type View[T any] struct {
	mu        sync.RWMutex
	items     []T
	err       error
	ready     bool
	next      int
	listeners map[int]func([]T)

	// serialises listener delivery so every listener sees snapshots in order
	deliver sync.Mutex
}

func NewView[T any]() *View[T] {
	return &View[T]{listeners: make(map[int]func([]T))}
}

// Publish replaces the snapshot and notifies listeners.
func (v *View[T]) Publish(items []T) {
	v.deliver.Lock()
	defer v.deliver.Unlock()

	v.mu.Lock()
	v.items = slices.Clone(items)
	v.err = nil
	v.ready = true
	fns := v.listenersLocked()
	v.mu.Unlock()

	for _, fn := range fns {
		fn(v.Snapshot())
	}
}

// Fail records err without discarding the last snapshot.
func (v *View[T]) Fail(err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.err = err
}

// Snapshot returns a copy of the current items. Elements are shared and must
// be treated as read-only.
func (v *View[T]) Snapshot() []T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := slices.Clone(v.items)
	if out == nil {
		out = []T{}
	}
	return out
}

func (v *View[T]) Err() error {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.err
}

// Ready reports whether at least one snapshot has been published.
func (v *View[T]) Ready() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.ready
}

// Subscribe registers fn for every future snapshot. If a snapshot is already
// available fn receives it before Subscribe returns.
func (v *View[T]) Subscribe(fn func([]T)) (unsubscribe func()) {
	v.deliver.Lock()
	defer v.deliver.Unlock()

	v.mu.Lock()
	v.next++
	id := v.next
	v.listeners[id] = fn
	ready := v.ready
	v.mu.Unlock()

	if ready {
		fn(v.Snapshot())
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			v.mu.Lock()
			defer v.mu.Unlock()
			delete(v.listeners, id)
		})
	}
}

func (v *View[T]) listenersLocked() []func([]T) {
	ids := make([]int, 0, len(v.listeners))
	for id := range v.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fns := make([]func([]T), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, v.listeners[id])
	}
	return fns
}
