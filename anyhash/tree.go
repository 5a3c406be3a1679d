package anyhash

import "cmp"

// Tree-represented slots are red-black trees ordered by
// (hash, Compare, seq), where Compare is used only if the
// hasher implements [Comparer] and seq is the insertion
// sequence of the node. The order is total, so the shape
// of a tree depends only on the keys and the order in which
// they were inserted.

// order compares two nodes in tree order.
func (m *Map[K, V, H]) order(a, b *node[K, V]) int {
	if a.hash != b.hash {
		return cmp.Compare(a.hash, b.hash)
	}
	if m.compare != nil {
		if c := m.compare(a.key, b.key); c != 0 {
			return c
		}
	}
	return cmp.Compare(a.seq, b.seq)
}

// findTree returns the node under p holding k, or nil.
func (m *Map[K, V, H]) findTree(p *node[K, V], h uint64, k K) *node[K, V] {
	for p != nil {
		switch {
		case h < p.hash:
			p = p.left
		case h > p.hash:
			p = p.right
		case m.hasher.Equal(p.key, k):
			return p
		default:
			if m.compare != nil {
				if c := m.compare(k, p.key); c < 0 {
					p = p.left
					continue
				} else if c > 0 {
					p = p.right
					continue
				}
			}
			// The sequence number of k is unknown, so
			// it could be on either side.
			if q := m.findTree(p.right, h, k); q != nil {
				return q
			}
			p = p.left
		}
	}
	return nil
}

// treeify builds a tree from the nodes of b, which
// must already be linked in insertion order.
func (m *Map[K, V, H]) treeify(b *bin[K, V]) {
	b.root = nil
	var prev *node[K, V]
	for e := b.head; e != nil; e = e.next {
		e.prev = prev
		e.parent, e.left, e.right = nil, nil, nil
		m.treeInsert(b, e)
		prev = e
	}
}

// untreeify turns b back into a plain chain, keeping insertion order.
func (m *Map[K, V, H]) untreeify(b *bin[K, V]) {
	for e := b.head; e != nil; e = e.next {
		e.prev, e.parent, e.left, e.right = nil, nil, nil, nil
		e.red = false
	}
	b.root = nil
}

// treeInsert adds x to the tree of b. It does not touch
// the insertion-order list.
func (m *Map[K, V, H]) treeInsert(b *bin[K, V], x *node[K, V]) {
	var parent *node[K, V]
	dir := 0
	for p := b.root; p != nil; {
		parent = p
		if dir = m.order(x, p); dir < 0 {
			p = p.left
		} else {
			p = p.right
		}
	}
	x.parent = parent
	x.red = true
	switch {
	case parent == nil:
		b.root = x
	case dir < 0:
		parent.left = x
	default:
		parent.right = x
	}
	b.insertFixup(x)
}

// removeTree unlinks z from both the list and the tree of b,
// untreeifying b if it has become small enough.
func (m *Map[K, V, H]) removeTree(b *bin[K, V], z *node[K, V]) {
	if z.prev == nil {
		b.head = z.next
	} else {
		z.prev.next = z.next
	}
	if z.next == nil {
		b.tail = z.prev
	} else {
		z.next.prev = z.prev
	}
	b.n--
	b.rbDelete(z)
	z.next, z.prev, z.parent, z.left, z.right = nil, nil, nil, nil, nil
	switch {
	case b.head == nil:
		*b = bin[K, V]{}
	case b.n <= m.cfg.untreeifyThreshold:
		m.untreeify(b)
	}
}

func isRed[K, V any](x *node[K, V]) bool {
	return x != nil && x.red
}

func (b *bin[K, V]) rotateLeft(x *node[K, V]) {
	y := x.right
	x.right = y.left
	if y.left != nil {
		y.left.parent = x
	}
	b.replaceChild(x, y)
	y.left = x
	x.parent = y
}

func (b *bin[K, V]) rotateRight(x *node[K, V]) {
	y := x.left
	x.left = y.right
	if y.right != nil {
		y.right.parent = x
	}
	b.replaceChild(x, y)
	y.right = x
	x.parent = y
}

// replaceChild puts v where u is in the tree, as far as
// u's parent is concerned.
func (b *bin[K, V]) replaceChild(u, v *node[K, V]) {
	switch {
	case u.parent == nil:
		b.root = v
	case u == u.parent.left:
		u.parent.left = v
	default:
		u.parent.right = v
	}
	if v != nil {
		v.parent = u.parent
	}
}

func (b *bin[K, V]) insertFixup(z *node[K, V]) {
	for isRed(z.parent) {
		p := z.parent
		g := p.parent
		if p == g.left {
			if u := g.right; isRed(u) {
				p.red, u.red, g.red = false, false, true
				z = g
				continue
			}
			if z == p.right {
				z = p
				b.rotateLeft(z)
				p = z.parent
			}
			p.red, g.red = false, true
			b.rotateRight(g)
		} else {
			if u := g.left; isRed(u) {
				p.red, u.red, g.red = false, false, true
				z = g
				continue
			}
			if z == p.left {
				z = p
				b.rotateRight(z)
				p = z.parent
			}
			p.red, g.red = false, true
			b.rotateLeft(g)
		}
	}
	b.root.red = false
}

func (b *bin[K, V]) rbDelete(z *node[K, V]) {
	var x, xParent *node[K, V]
	removedRed := z.red
	switch {
	case z.left == nil:
		x, xParent = z.right, z.parent
		b.replaceChild(z, z.right)
	case z.right == nil:
		x, xParent = z.left, z.parent
		b.replaceChild(z, z.left)
	default:
		y := z.right
		for y.left != nil {
			y = y.left
		}
		removedRed = y.red
		x = y.right
		if y.parent == z {
			xParent = y
		} else {
			xParent = y.parent
			b.replaceChild(y, y.right)
			y.right = z.right
			y.right.parent = y
		}
		b.replaceChild(z, y)
		y.left = z.left
		y.left.parent = y
		y.red = z.red
	}
	if !removedRed {
		b.deleteFixup(x, xParent)
	}
}

func (b *bin[K, V]) deleteFixup(x, parent *node[K, V]) {
	for x != b.root && !isRed(x) {
		if x == parent.left {
			w := parent.right
			if isRed(w) {
				w.red, parent.red = false, true
				b.rotateLeft(parent)
				w = parent.right
			}
			if !isRed(w.left) && !isRed(w.right) {
				w.red = true
				x, parent = parent, parent.parent
				continue
			}
			if !isRed(w.right) {
				w.left.red, w.red = false, true
				b.rotateRight(w)
				w = parent.right
			}
			w.red, parent.red, w.right.red = parent.red, false, false
			b.rotateLeft(parent)
		} else {
			w := parent.left
			if isRed(w) {
				w.red, parent.red = false, true
				b.rotateRight(parent)
				w = parent.left
			}
			if !isRed(w.left) && !isRed(w.right) {
				w.red = true
				x, parent = parent, parent.parent
				continue
			}
			if !isRed(w.left) {
				w.right.red, w.red = false, true
				b.rotateLeft(w)
				w = parent.left
			}
			w.red, parent.red, w.left.red = parent.red, false, false
			b.rotateRight(parent)
		}
		x = b.root
	}
	if x != nil {
		x.red = false
	}
}
