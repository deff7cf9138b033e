// Package registry provides an insertion-ordered key/value store used to keep
// waiter registrations.
package registry

import "github.com/tidwall/btree"

// Registry keeps values mapped by string key and remembers the order in which
// keys were first stored. Overwriting a key keeps its original position.
//
// A Registry is not safe for concurrent use; callers serialise access.
type Registry[V any] struct {
	entries map[string]*entry[V]
	order   btree.Map[uint64, string] // seq -> key
	seq     uint64
}

type entry[V any] struct {
	seq   uint64
	value V
}

// New creates an empty Registry.
func New[V any]() *Registry[V] {
	return &Registry[V]{entries: make(map[string]*entry[V])}
}

// Put stores or overwrites the value for key. It returns true when key was
// not present before.
func (r *Registry[V]) Put(key string, value V) bool {
	if existing, ok := r.entries[key]; ok {
		existing.value = value
		return false
	}
	r.seq++
	r.entries[key] = &entry[V]{seq: r.seq, value: value}
	r.order.Set(r.seq, key)
	return true
}

// Get returns the value stored for key.
func (r *Registry[V]) Get(key string) (V, bool) {
	e, ok := r.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Has reports whether key is present.
func (r *Registry[V]) Has(key string) bool {
	_, ok := r.entries[key]
	return ok
}

// Delete removes key, returning true if it was present.
func (r *Registry[V]) Delete(key string) bool {
	e, ok := r.entries[key]
	if !ok {
		return false
	}
	delete(r.entries, key)
	r.order.Delete(e.seq)
	return true
}

// Len returns the number of stored keys.
func (r *Registry[V]) Len() int {
	return len(r.entries)
}

// Keys returns a snapshot of the keys in insertion order. The returned slice
// is owned by the caller and is not affected by later mutations.
func (r *Registry[V]) Keys() []string {
	keys := make([]string, 0, len(r.entries))
	r.order.Scan(func(_ uint64, key string) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}

// Clear removes every key.
func (r *Registry[V]) Clear() {
	r.entries = make(map[string]*entry[V])
	r.order = btree.Map[uint64, string]{}
}
