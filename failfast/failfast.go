// Package failfast implements best-effort detection of structural
// changes made to a container while it is being iterated.
//
// A container owns a [Counter] and bumps it whenever it adds or
// removes elements or reorganizes its storage. Each iterator takes
// a [Guard] when it is created and checks it before every step;
// a mismatch means that someone else changed the container and
// the iteration must stop. An iterator that changes the container
// itself (for instance by removing the current element) calls
// [Guard.Sync] afterwards.
//
// This is a detector, not a lock: it does nothing to make
// unsynchronized concurrent use safe, and interleaved modifications
// from several goroutines can escape it.
package failfast

import (
	"errors"
	"fmt"
)

var (
	// ErrConcurrentModification is wrapped by the errors returned
	// when a container was structurally modified during iteration.
	ErrConcurrentModification = errors.New("concurrent structural modification")

	// ErrNoCurrent is returned when an iterator is asked to remove
	// its current element but has none.
	ErrNoCurrent = errors.New("no current element")
)

// Counter counts structural modifications. The zero value is ready to use.
type Counter struct {
	n uint64
}

// Bump records a structural modification.
func (c *Counter) Bump() {
	c.n++
}

// Load returns the number of modifications recorded so far.
func (c *Counter) Load() uint64 {
	return c.n
}

// Guard returns a guard that remembers the current count.
// The container name is used in error messages.
func (c *Counter) Guard(container string) Guard {
	return Guard{
		c:         c,
		want:      c.n,
		container: container,
	}
}

// Guard holds the modification count observed by an iterator.
// The zero Guard never reports a modification.
type Guard struct {
	c         *Counter
	want      uint64
	container string
}

// Check returns a *ModificationError if the counter has
// moved since the guard was created or last synced.
func (g *Guard) Check() error {
	if g.c == nil || g.c.n == g.want {
		return nil
	}
	return &ModificationError{
		Container: g.container,
		Want:      g.want,
		Got:       g.c.n,
	}
}

// Sync makes the guard accept the current count. Iterators
// call it after making a structural change themselves.
func (g *Guard) Sync() {
	if g.c != nil {
		g.want = g.c.n
	}
}

// ModificationError reports that a container was structurally
// modified during iteration.
type ModificationError struct {
	// Container names the kind of container.
	Container string
	// Want holds the count the iterator expected,
	// and Got the count it found.
	Want, Got uint64
}

func (e *ModificationError) Error() string {
	return fmt.Sprintf("%s: %v (count %d, expected %d)", e.Container, ErrConcurrentModification, e.Got, e.Want)
}

func (e *ModificationError) Unwrap() error {
	return ErrConcurrentModification
}
