package anyhash

import (
	"iter"

	"github.com/rogpeppe/hashtab/failfast"
)

// Iterator walks the entries of a Map: slots in index order and,
// within a slot, in insertion order.
//
// It fails fast: if the map is structurally modified other than
// through [Iterator.Remove] after the iterator was created, the
// next call to Next returns false and Err returns an error wrapping
// [failfast.ErrConcurrentModification]. Replacing the value of an
// existing key is not a structural modification.
//
// An iterator cannot be restarted; create a new one with [Map.Iter].
type Iterator[K, V any, H Hasher[K]] struct {
	m     *Map[K, V, H]
	guard failfast.Guard
	cur   *node[K, V]
	next  *node[K, V]
	slot  int
	err   error
}

// Iter returns an iterator over the entries of m.
func (m *Map[K, V, H]) Iter() *Iterator[K, V, H] {
	it := &Iterator[K, V, H]{m: m}
	if m == nil {
		return it
	}
	it.guard = m.mods.Guard("anyhash.Map")
	it.advance()
	return it
}

// advance sets it.next to the first node in a slot at or
// after it.slot.
func (it *Iterator[K, V, H]) advance() {
	tab := it.m.table
	for it.slot < len(tab) {
		b := &tab[it.slot]
		it.slot++
		if b.head != nil {
			it.next = b.head
			return
		}
	}
	it.next = nil
}

// Next moves to the next entry and reports whether there is one.
func (it *Iterator[K, V, H]) Next() bool {
	if it.err != nil {
		return false
	}
	if err := it.guard.Check(); err != nil {
		it.err = err
		it.cur, it.next = nil, nil
		return false
	}
	e := it.next
	it.cur = e
	if e == nil {
		return false
	}
	if e.next != nil {
		it.next = e.next
	} else {
		it.advance()
	}
	return true
}

// Key returns the key of the current entry.
// It panics if there is no current entry.
func (it *Iterator[K, V, H]) Key() K {
	if it.cur == nil {
		panic("anyhash.Iterator.Key called without current entry")
	}
	return it.cur.key
}

// Value returns the value of the current entry.
// It panics if there is no current entry.
func (it *Iterator[K, V, H]) Value() V {
	if it.cur == nil {
		panic("anyhash.Iterator.Value called without current entry")
	}
	return it.cur.value
}

// Err returns the error that stopped the iteration, if any.
func (it *Iterator[K, V, H]) Err() error {
	return it.err
}

// Remove removes the current entry from the map. It is the only
// way to structurally modify the map during iteration without
// invalidating the iterator. It returns [failfast.ErrNoCurrent]
// if there is no current entry (Next has not been called, or the
// entry has already been removed), and the concurrent-modification
// error if the map has been modified by other means.
func (it *Iterator[K, V, H]) Remove() error {
	if it.err != nil {
		return it.err
	}
	if it.cur == nil {
		return failfast.ErrNoCurrent
	}
	if err := it.guard.Check(); err != nil {
		it.err = err
		return err
	}
	m := it.m
	m.removeNode(&m.table[m.index(it.cur.hash)], it.cur)
	it.cur = nil
	it.guard.Sync()
	return nil
}

// walk calls yield for each entry, panicking with the
// iterator's error if the map is structurally modified
// while walking.
func (m *Map[K, V, H]) walk(yield func(K, V) bool) {
	it := m.Iter()
	for it.Next() {
		if !yield(it.cur.key, it.cur.value) {
			return
		}
	}
	if err := it.Err(); err != nil {
		panic(err)
	}
}

// All returns an iterator over (key, value) pairs in slot order.
//
// Setting the value of an existing key while iterating is fine,
// but any other modification of the map causes the iteration to
// panic with an error wrapping [failfast.ErrConcurrentModification]
// on its next step. Use [Map.Iter] to remove entries while iterating.
func (m *Map[K, V, H]) All() iter.Seq2[K, V] {
	return m.walk
}

// Keys returns an iterator over keys in the same order as All.
func (m *Map[K, V, H]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		m.walk(func(k K, _ V) bool {
			return yield(k)
		})
	}
}

// Values returns an iterator over values in the same order as All.
func (m *Map[K, V, H]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		m.walk(func(_ K, v V) bool {
			return yield(v)
		})
	}
}
