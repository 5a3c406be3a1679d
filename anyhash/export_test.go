package anyhash

import (
	"errors"
	"fmt"
)

// WithMaxCapacity lowers the table length limit so that
// tests can reach it.
func WithMaxCapacity(n int) func(*Config) {
	return func(c *Config) {
		c.maxCapacity = n
	}
}

// ModCount returns the structural modification count of m.
func ModCount[K, V any, H Hasher[K]](m *Map[K, V, H]) uint64 {
	return m.mods.Load()
}

// BinKind returns "empty", "chain" or "tree" according to
// the representation of the slot that k belongs to.
func BinKind[K, V any, H Hasher[K]](m *Map[K, V, H], k K) string {
	if len(m.table) == 0 {
		return "empty"
	}
	b := &m.table[m.index(m.hashKey(k))]
	switch {
	case b.head == nil:
		return "empty"
	case b.isTree():
		return "tree"
	}
	return "chain"
}

// BinKeys returns the keys in the slot that k belongs to,
// in list order.
func BinKeys[K, V any, H Hasher[K]](m *Map[K, V, H], k K) []K {
	if len(m.table) == 0 {
		return nil
	}
	var keys []K
	for e := m.table[m.index(m.hashKey(k))].head; e != nil; e = e.next {
		keys = append(keys, e.key)
	}
	return keys
}

// CheckInvariants verifies the internal consistency of m.
func CheckInvariants[K, V any, H Hasher[K]](m *Map[K, V, H]) error {
	if n := len(m.table); n&(n-1) != 0 {
		return fmt.Errorf("table length %d is not a power of two", n)
	}
	total := 0
	for i := range m.table {
		b := &m.table[i]
		count := 0
		var last *node[K, V]
		for e := b.head; e != nil; e = e.next {
			if m.index(e.hash) != i {
				return fmt.Errorf("slot %d: node with hash %#x belongs in slot %d", i, e.hash, m.index(e.hash))
			}
			if b.isTree() && e.prev != last {
				return fmt.Errorf("slot %d: broken backward link", i)
			}
			if e.seq == 0 || (last != nil && last.seq >= e.seq) {
				return fmt.Errorf("slot %d: nodes not in insertion order", i)
			}
			last = e
			count++
		}
		if b.tail != last {
			return fmt.Errorf("slot %d: tail is not the last node", i)
		}
		if count != b.n {
			return fmt.Errorf("slot %d: holds %d nodes, counted %d", i, count, b.n)
		}
		if b.isTree() {
			if err := m.checkTree(b); err != nil {
				return fmt.Errorf("slot %d: %v", i, err)
			}
		}
		total += count
	}
	if total != m.length {
		return fmt.Errorf("map holds %d nodes, length is %d", total, m.length)
	}
	return nil
}

func (m *Map[K, V, H]) checkTree(b *bin[K, V]) error {
	if b.root.parent != nil {
		return errors.New("root has a parent")
	}
	if b.root.red {
		return errors.New("root is red")
	}
	var prev *node[K, V]
	count := 0
	var walk func(x *node[K, V]) (int, error)
	walk = func(x *node[K, V]) (int, error) {
		if x == nil {
			return 1, nil
		}
		if x.red && (isRed(x.left) || isRed(x.right)) {
			return 0, errors.New("red node with red child")
		}
		for _, c := range []*node[K, V]{x.left, x.right} {
			if c != nil && c.parent != x {
				return 0, errors.New("child with wrong parent")
			}
		}
		lh, err := walk(x.left)
		if err != nil {
			return 0, err
		}
		if prev != nil && m.order(prev, x) >= 0 {
			return 0, errors.New("nodes out of order")
		}
		prev = x
		count++
		rh, err := walk(x.right)
		if err != nil {
			return 0, err
		}
		if lh != rh {
			return 0, errors.New("unequal black heights")
		}
		if !x.red {
			lh++
		}
		return lh, nil
	}
	if _, err := walk(b.root); err != nil {
		return err
	}
	if count != b.n {
		return fmt.Errorf("tree holds %d nodes, list holds %d", count, b.n)
	}
	return nil
}
