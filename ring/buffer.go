// Package ring implements a slice-backed double-ended
// dynamic array with fail-fast iteration.
package ring

import (
	"iter"
	"math/bits"

	"github.com/rogpeppe/hashtab/failfast"
)

// Buffer holds a slice-backed ring buffer. Elements
// can be added and removed at both the start and
// the end of the buffer.
//
// Elements are indexed from zero (the start)
// to the end. Pushing elements at the start
// will implicitly reindex all previous elements.
//
// Any operation that adds or removes elements, or reallocates the
// backing slice, is a structural modification: iterators created
// before it stop with an error wrapping
// [failfast.ErrConcurrentModification]. Set is not.
//
// The zero-value is OK to use.
type Buffer[T any] struct {
	// buf holds the backing slice. Its length
	// is always a power of two or zero.
	buf []T

	// i0 and i1 hold the indexes into buf of the
	// start and just after the end elements respectively.
	// When i1<=i0 and the buffer is not empty, the
	// elements are stored at buf[i0:], buf[:i1]
	i0, i1 int

	// len holds the number of elements in the buffer.
	len int

	mods failfast.Counter
}

// NewBuffer returns a buffer with at least the specified capacity.
func NewBuffer[T any](minCap int) *Buffer[T] {
	var b Buffer[T]
	b.ensureCap(minCap)
	return &b
}

// All returns an iterator over all the values in the buffer.
// It panics with an error wrapping [failfast.ErrConcurrentModification]
// if the buffer is structurally modified while iterating.
func (b *Buffer[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		c := b.Cursor()
		for c.Next() {
			if !yield(c.Value()) {
				return
			}
		}
		if err := c.Err(); err != nil {
			panic(err)
		}
	}
}

// PeekStart returns the element at the start of the buffer
// without consuming it. It's equivalent to b.Get(0),
// and panics if the buffer is empty.
func (b *Buffer[T]) PeekStart() T {
	if b.Len() <= 0 {
		panic("PeekStart called on empty buffer")
	}
	return b.buf[b.i0]
}

// PushStart pushes an element to the start of the buffer.
func (b *Buffer[T]) PushStart(x T) {
	b.ensureCap(b.Len() + 1)
	b.i0 = b.mod(b.i0 + len(b.buf) - 1)
	b.buf[b.i0] = x
	b.len++
	b.mods.Bump()
}

// PushEnd adds an element to the end of the buffer.
func (b *Buffer[T]) PushEnd(x T) {
	b.ensureCap(b.Len() + 1)
	b.buf[b.i1] = x
	b.i1 = b.mod(b.i1 + 1)
	b.len++
	b.mods.Bump()
}

// PushSliceEnd pushes all the elements of the
// given slice onto the end of the buffer.
// It's just like:
//
//	for _, x := range src {
//		b.PushEnd(x)
//	}
//
// but more efficient.
func (b *Buffer[T]) PushSliceEnd(src []T) {
	if len(src) == 0 {
		return
	}
	b.ensureCap(b.Len() + len(src))
	n := copy(b.buf[b.i1:], src)
	copy(b.buf, src[n:])
	b.i1 = b.mod(b.i1 + len(src))
	b.len += len(src)
	b.mods.Bump()
}

// PushSliceStart pushes all the elements of the
// given slice onto the start of the buffer, keeping
// their order. It's just like:
//
//	for i := len(src)-1; i>=0; i-- {
//		b.PushStart(src[i])
//	}
//
// but more efficient.
func (b *Buffer[T]) PushSliceStart(src []T) {
	if len(src) == 0 {
		return
	}
	b.ensureCap(b.Len() + len(src))
	b.i0 = b.mod(b.i0 + len(b.buf) - len(src))
	n := copy(b.buf[b.i0:], src)
	copy(b.buf, src[n:])
	b.len += len(src)
	b.mods.Bump()
}

// DiscardFromStart discards min(b.Len(), n) elements from
// the start of the buffer and returns the number actually
// discarded
func (b *Buffer[T]) DiscardFromStart(n int) int {
	n = min(b.Len(), n)
	if n <= 0 {
		return 0
	}
	if b.i0+n < len(b.buf) {
		// All elements being discarded are in the
		// start segment of b.buf.
		clear(b.buf[b.i0 : b.i0+n])
	} else {
		clear(b.buf[b.i0:])
		clear(b.buf[:n-(len(b.buf)-b.i0)])
	}
	b.i0 = b.mod(b.i0 + n)
	b.len -= n
	b.mods.Bump()
	return n
}

// DiscardFromEnd discards min(b.Len(), n) elements from
// the end of the buffer and returns the number actually
// discarded
func (b *Buffer[T]) DiscardFromEnd(n int) int {
	n = min(b.Len(), n)
	if n <= 0 {
		return 0
	}
	if b.i1-n >= 0 {
		// All the elements being discarded are in
		// the end segment of b.buf.
		clear(b.buf[b.i1-n : b.i1])
	} else {
		clear(b.buf[:b.i1])
		clear(b.buf[len(b.buf)-(n-b.i1):])
	}
	b.i1 = b.mod(b.i1 + len(b.buf) - n)
	b.len -= n
	b.mods.Bump()
	return n
}

// Clear removes all elements from the buffer, keeping its capacity.
func (b *Buffer[T]) Clear() {
	clear(b.buf)
	b.i0, b.i1, b.len = 0, 0, 0
	b.mods.Bump()
}

// Copy copies min(b.Len(), len(dst)) values into dst
// from index i in the buffer onwards. It does not affect
// the size of the buffer. It returns the number of elements
// actually copied. It panics if i is out of range.
func (b *Buffer[T]) Copy(dst []T, i int) int {
	if i < 0 || i > b.Len() {
		panic("Copy with out of range from value")
	}
	n := min(b.Len()-i, len(dst))
	if n == 0 {
		return 0
	}
	dst = dst[:n]
	nc := copy(dst, b.buf[b.mod(b.i0+i):])
	copy(dst[nc:], b.buf)
	return n
}

// PeekEnd returns the element at the end of the buffer
// without consuming it. It's equivalent to b.Get(b.Len()-1).
func (b *Buffer[T]) PeekEnd() T {
	if b.Len() == 0 {
		panic("PeekEnd called on empty buffer")
	}
	return b.buf[b.mod(b.i1-1)]
}

// Len returns the number of elements in the buffer.
func (b *Buffer[T]) Len() int {
	return b.len
}

// Cap returns the capacity of the underlying buffer.
func (b *Buffer[T]) Cap() int {
	return len(b.buf)
}

// SetCap sets the capacity of the underlying slice
// to at least max(n, b.Len()). This can be used
// to shrink the capacity an over-large buffer.
//
// Note: the resulting capacity can still be as much
// as b.Len() * 2.
func (b *Buffer[T]) SetCap(n int) {
	b.resize(max(n, b.Len()))
}

// Get returns the i'th element in the buffer; the start element
// is at index zero; the end is at b.Len() - 1.
// It panics if i is out of range.
func (b *Buffer[T]) Get(i int) T {
	if i < 0 || i >= b.Len() {
		panic("ring.Buffer.Get called with index out of range")
	}
	return b.buf[b.mod(b.i0+i)]
}

// Set replaces the i'th element in the buffer.
// It panics if i is out of range.
func (b *Buffer[T]) Set(i int, x T) {
	if i < 0 || i >= b.Len() {
		panic("ring.Buffer.Set called with index out of range")
	}
	b.buf[b.mod(b.i0+i)] = x
}

// PopStart removes and returns the element from the start of the buffer. If the
// buffer is empty, the call will panic.
func (b *Buffer[T]) PopStart() T {
	if b.Len() <= 0 {
		panic("ring.Buffer.PopStart called on empty buffer")
	}
	x := b.popStart()
	b.mods.Bump()
	return x
}

// PopEnd removes and returns the element from the end of the buffer. If the
// buffer is empty, the call will panic.
func (b *Buffer[T]) PopEnd() T {
	if b.Len() <= 0 {
		panic("ring.Buffer.PopEnd called on empty buffer")
	}
	x := b.popEnd()
	b.mods.Bump()
	return x
}

// RemoveAt removes and returns the i'th element, moving
// whichever side of the buffer is shorter to close the gap.
// It panics if i is out of range.
func (b *Buffer[T]) RemoveAt(i int) T {
	if i < 0 || i >= b.Len() {
		panic("ring.Buffer.RemoveAt called with index out of range")
	}
	x := b.Get(i)
	if i < b.len/2 {
		for j := i; j > 0; j-- {
			b.buf[b.mod(b.i0+j)] = b.buf[b.mod(b.i0+j-1)]
		}
		b.popStart()
	} else {
		for j := i; j < b.len-1; j++ {
			b.buf[b.mod(b.i0+j)] = b.buf[b.mod(b.i0+j+1)]
		}
		b.popEnd()
	}
	b.mods.Bump()
	return x
}

func (b *Buffer[T]) popStart() T {
	x := b.buf[b.i0]
	b.buf[b.i0] = *new(T)
	b.i0 = b.mod(b.i0 + 1)
	b.len--
	return x
}

func (b *Buffer[T]) popEnd() T {
	b.i1 = b.mod(b.i1 + len(b.buf) - 1)
	x := b.buf[b.i1]
	b.buf[b.i1] = *new(T)
	b.len--
	return x
}

// resizes the buffer if needed to ensure that the capacity is at least n.
func (b *Buffer[T]) ensureCap(n int) {
	if n <= len(b.buf) {
		return
	}
	b.resize(n)
}

func (b *Buffer[T]) resize(minCap int) {
	newCap := 0
	if minCap > 0 {
		newCap = 1 << bits.Len(uint(minCap-1))
	}
	if newCap == b.Cap() {
		return
	}
	buf1 := make([]T, newCap)
	b.Copy(buf1, 0)
	b.i0 = 0
	b.i1 = b.len
	if newCap > 0 {
		b.i1 &= newCap - 1
	}
	b.buf = buf1
	b.mods.Bump()
}

// mod returns x modulo the buffer capacity.
// It relies on the fact that the buffer capacity is
// always a power of 2.
func (b *Buffer[T]) mod(x int) int {
	return x & (len(b.buf) - 1)
}
