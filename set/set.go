// Package set provides a hash set built on [anyhash.Map].
//
// Like the map it is built on, a Set fails fast: iterating while the
// set gains or loses members by any means other than the iterator's
// own Remove stops the iteration with an error wrapping
// [failfast.ErrConcurrentModification].
package set

import (
	"fmt"
	"iter"
	"strings"

	"github.com/rogpeppe/hashtab/anyhash"
)

// Set holds a set of members of type T, hashed and compared with H.
//
// A nil *Set is a valid empty set for reading. The zero Set is ready
// to use when the zero H is a usable Hasher.
type Set[T any, H anyhash.Hasher[T]] struct {
	m *anyhash.Map[T, struct{}, H]
}

// New returns a new empty set that uses h to hash and compare members.
// The options configure the underlying map.
func New[T any, H anyhash.Hasher[T]](h H, options ...func(*anyhash.Config)) *Set[T, H] {
	return &Set[T, H]{
		m: anyhash.NewMap[T, struct{}](h, options...),
	}
}

func (s *Set[T, H]) members() *anyhash.Map[T, struct{}, H] {
	if s.m == nil {
		s.m = new(anyhash.Map[T, struct{}, H])
	}
	return s.m
}

// Len returns the number of members.
func (s *Set[T, H]) Len() int {
	if s == nil {
		return 0
	}
	return s.m.Len()
}

// Contains reports whether x is a member of s.
func (s *Set[T, H]) Contains(x T) bool {
	if s == nil {
		return false
	}
	return s.m.Contains(x)
}

// Add adds x to s and reports whether it was not already there.
func (s *Set[T, H]) Add(x T) bool {
	_, loaded := s.members().SetIfAbsent(x, struct{}{})
	return !loaded
}

// Remove removes x from s and reports whether it was there.
func (s *Set[T, H]) Remove(x T) bool {
	if s == nil {
		return false
	}
	_, removed := s.m.Delete(x)
	return removed
}

// Clear removes all members.
func (s *Set[T, H]) Clear() {
	if s != nil {
		s.m.Clear()
	}
}

// Union sets the contents of the receiver to the union of a and b
// and returns the receiver. If the receiver is nil, a new set with the
// same hasher and configuration as a is allocated. Either a or b may
// be the receiver itself.
func (s *Set[T, H]) Union(a, b *Set[T, H]) *Set[T, H] {
	switch {
	case s == nil:
		s = a.clone()
	case s == b:
		a, b = b, a
	case s != a:
		s.Clear()
		s.addAll(a)
	}
	// s now holds the members of a.
	s.addAll(b)
	return s
}

// Intersect sets the contents of the receiver to the intersection of
// a and b and returns the receiver. If the receiver is nil, a new set
// with the same hasher and configuration as a is allocated. Either a
// or b may be the receiver itself.
//
// It panics with an error wrapping [failfast.ErrConcurrentModification]
// if the receiver is structurally modified while it is being computed.
func (s *Set[T, H]) Intersect(a, b *Set[T, H]) *Set[T, H] {
	switch {
	case s == nil:
		s = a.clone()
	case s == b:
		a, b = b, a
	case s != a:
		s.Clear()
		for x := range a.All() {
			if b.Contains(x) {
				s.Add(x)
			}
		}
		return s
	}
	// s now holds the members of a; drop those not in b.
	if s == b {
		return s
	}
	it := s.members().Iter()
	for it.Next() {
		if !b.Contains(it.Key()) {
			if err := it.Remove(); err != nil {
				panic(err)
			}
		}
	}
	if err := it.Err(); err != nil {
		panic(err)
	}
	return s
}

func (s *Set[T, H]) addAll(a *Set[T, H]) {
	for x := range a.All() {
		s.Add(x)
	}
}

func (s *Set[T, H]) clone() *Set[T, H] {
	if s == nil || s.m == nil {
		return new(Set[T, H])
	}
	return &Set[T, H]{m: s.m.Clone()}
}

// Clone returns a copy of s.
func (s *Set[T, H]) Clone() *Set[T, H] {
	return s.clone()
}

// All returns an iterator over the members of s. It panics with an
// error wrapping [failfast.ErrConcurrentModification] if members are
// added or removed while iterating.
func (s *Set[T, H]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		if s != nil {
			s.m.Keys()(yield)
		}
	}
}

// Iter returns an iterator that visits each member of the set in turn.
func (s *Set[T, H]) Iter() *Iter[T, H] {
	var m *anyhash.Map[T, struct{}, H]
	if s != nil {
		m = s.members()
	}
	return &Iter[T, H]{it: m.Iter()}
}

// String returns the members of s in the form {x y z}.
func (s *Set[T, H]) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	first := true
	for x := range s.All() {
		if !first {
			sb.WriteByte(' ')
		}
		first = false
		fmt.Fprint(&sb, x)
	}
	sb.WriteByte('}')
	return sb.String()
}

// Iter iterates over the members of a Set.
type Iter[T any, H anyhash.Hasher[T]] struct {
	it *anyhash.Iterator[T, struct{}, H]
}

// Next moves to the next member and reports whether there is one.
func (it *Iter[T, H]) Next() bool {
	return it.it.Next()
}

// Item returns the current member.
// It panics if there is no current member.
func (it *Iter[T, H]) Item() T {
	return it.it.Key()
}

// Err returns the error that stopped the iteration, if any.
func (it *Iter[T, H]) Err() error {
	return it.it.Err()
}

// Remove removes the current member from the set. It returns
// [failfast.ErrNoCurrent] if there is none.
func (it *Iter[T, H]) Remove() error {
	return it.it.Remove()
}
