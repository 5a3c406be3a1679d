package ring

import "github.com/rogpeppe/hashtab/failfast"

// Cursor walks a Buffer from start to end.
//
// If the buffer is structurally modified after the cursor was
// created, other than through the cursor's own Remove method,
// Next returns false and Err returns an error wrapping
// [failfast.ErrConcurrentModification].
type Cursor[T any] struct {
	b     *Buffer[T]
	guard failfast.Guard
	next  int
	cur   int
	err   error
}

// Cursor returns a cursor positioned before the start of the buffer.
func (b *Buffer[T]) Cursor() *Cursor[T] {
	return &Cursor[T]{
		b:     b,
		guard: b.mods.Guard("ring.Buffer"),
		cur:   -1,
	}
}

// Next moves to the next element and reports whether there is one.
func (c *Cursor[T]) Next() bool {
	if c.err != nil {
		return false
	}
	if err := c.guard.Check(); err != nil {
		c.err = err
		c.cur = -1
		return false
	}
	if c.next >= c.b.Len() {
		c.cur = -1
		return false
	}
	c.cur = c.next
	c.next++
	return true
}

// Index returns the index of the current element, or -1 if there is none.
func (c *Cursor[T]) Index() int {
	return c.cur
}

// Value returns the current element.
// It panics if there is no current element.
func (c *Cursor[T]) Value() T {
	if c.cur < 0 {
		panic("ring.Cursor.Value called without current element")
	}
	return c.b.Get(c.cur)
}

// Set replaces the current element. This is not
// a structural modification.
// It panics if there is no current element.
func (c *Cursor[T]) Set(x T) {
	if c.cur < 0 {
		panic("ring.Cursor.Set called without current element")
	}
	c.b.Set(c.cur, x)
}

// Remove removes the current element from the buffer.
// The cursor stays valid and Next moves to the element
// that followed the removed one.
func (c *Cursor[T]) Remove() error {
	if c.err != nil {
		return c.err
	}
	if c.cur < 0 {
		return failfast.ErrNoCurrent
	}
	if err := c.guard.Check(); err != nil {
		c.err = err
		return err
	}
	c.b.RemoveAt(c.cur)
	c.next = c.cur
	c.cur = -1
	c.guard.Sync()
	return nil
}

// Err returns the error that stopped the cursor, if any.
func (c *Cursor[T]) Err() error {
	return c.err
}
