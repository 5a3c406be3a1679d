// Package anyhash implements a hash table storing arbitrary
// hashable values that aren't necessarily comparable.
//
// Keys that collide in the same slot are kept in a short chain;
// when a chain grows long in a large enough table, it is converted
// into a red-black tree so that lookups in that slot stay
// logarithmic even with a poor hash function.
//
// A Map is not safe for concurrent mutation. Iterators detect
// structural changes made outside their own Remove method
// and stop with an error wrapping [failfast.ErrConcurrentModification].
package anyhash

import (
	"cmp"
	"hash/maphash"

	"golang.org/x/exp/constraints"
)

// See https://go-review.googlesource.com/c/go/+/657296/11/src/hash/maphash/hasher.go#7

// A Hasher defines a hash function and an equivalence relation over
// values of type T.
//
// Hash and Equal must be consistent: if Equal(x, y) is true
// then Hash must write the same data for x and y. The map
// cannot check this; keys that break it may silently go missing.
//
// See https://go-review.googlesource.com/c/go/+/657296/11/src/hash/maphash/hasher.go
type Hasher[T any] interface {
	Hash(*maphash.Hash, T)
	Equal(x, y T) bool
}

// HashCoder may be implemented by a [Hasher] to provide
// the raw hash code of a value directly. When it is
// implemented, Map uses HashCode instead of Hash and
// the result does not depend on the map's seed.
type HashCoder[T any] interface {
	HashCode(T) uint64
}

// Comparer may be implemented by a [Hasher] to provide a natural
// ordering of values. It is used to order keys with equal hashes
// inside tree-represented slots. Compare(x, y) == 0 should imply Equal(x, y).
type Comparer[T any] interface {
	Compare(x, y T) int
}

// ComparableHasher is an implementation of [Hasher] for comparable types.
// Its Equal(x, y) method is consistent with x == y.
type ComparableHasher[T comparable] struct {
	_ [0]func(T) // disallow comparison, and conversion between ComparableHasher[X] and ComparableHasher[Y]
}

func (ComparableHasher[T]) Hash(h *maphash.Hash, v T) { maphash.WriteComparable(h, v) }
func (ComparableHasher[T]) Equal(x, y T) bool         { return x == y }

// OrderedHasher is like [ComparableHasher] but also implements
// [Comparer] using the natural ordering of T.
type OrderedHasher[T constraints.Ordered] struct {
	_ [0]func(T)
}

func (OrderedHasher[T]) Hash(h *maphash.Hash, v T) { maphash.WriteComparable(h, v) }
func (OrderedHasher[T]) Equal(x, y T) bool         { return x == y }
func (OrderedHasher[T]) Compare(x, y T) int        { return cmp.Compare(x, y) }

// Spread mixes the high bits of h into its low bits.
//
// Slot indexes are taken from the low bits of the spread hash only,
// so without this, hash codes that differ only in their
// high bits would always land in the same slot.
func Spread(h uint64) uint64 {
	h ^= h >> 32
	h ^= h >> 16
	return h ^ (h >> 8)
}
