package anyhash

// node is an entry in the table. The same node type serves both
// slot representations: chains use only next; tree slots also use
// the red-black linkage and prev, keeping next as a doubly linked
// insertion-order list alongside the tree. Nodes are relinked,
// never copied, when a slot changes representation or the
// table grows, so iterators may keep pointers to them.
type node[K, V any] struct {
	hash  uint64 // spread hash of key
	key   K
	value V
	seq   uint64 // insertion sequence; final tie-break in trees

	next *node[K, V]

	// Used only while the node belongs to a tree slot.
	prev                *node[K, V]
	parent, left, right *node[K, V]
	red                 bool
}

// bin is one slot of the table. It is empty when head is nil,
// tree-represented when root is non-nil and a plain chain otherwise.
type bin[K, V any] struct {
	head, tail *node[K, V]
	root       *node[K, V]
	n          int
}

func (b *bin[K, V]) isTree() bool {
	return b.root != nil
}

// push appends e at the end of the bin's list. When tree
// is true, the backward links are maintained too.
func (b *bin[K, V]) push(e *node[K, V], tree bool) {
	e.next = nil
	if tree {
		e.prev = b.tail
	}
	if b.tail == nil {
		b.head = e
	} else {
		b.tail.next = e
	}
	b.tail = e
	b.n++
}

// resize allocates the table if needed or doubles it, moving every
// node to its new slot. It returns false if the table is already
// at its maximum length.
func (m *Map[K, V, H]) resize() bool {
	oldTab := m.table
	oldCap := len(oldTab)
	var newCap int
	switch {
	case oldCap == 0:
		newCap = defaultCapacity
		if m.cfg.capacity > 0 {
			newCap = m.cfg.capacity
		}
		newCap = tableSizeFor(newCap, m.cfg.maxCapacity)
	case oldCap >= m.cfg.maxCapacity:
		m.threshold = m.cfg.thresholdFor(oldCap)
		return false
	default:
		newCap = oldCap << 1
	}
	m.threshold = m.cfg.thresholdFor(newCap)
	newTab := make([]bin[K, V], newCap)
	for j := range oldTab {
		b := &oldTab[j]
		if b.head != nil {
			m.split(b, newTab, j, oldCap)
		}
	}
	m.table = newTab
	if oldCap > 0 {
		m.growths++
	}
	m.mods.Bump()
	return true
}

// split distributes the nodes of b, which lived at index j of a
// table of length oldCap, between slots j and j+oldCap of newTab
// according to the single hash bit that newTab's mask adds.
// Each half keeps the relative order of the nodes.
func (m *Map[K, V, H]) split(b *bin[K, V], newTab []bin[K, V], j, oldCap int) {
	tree := b.isTree()
	var lo, hi bin[K, V]
	for e := b.head; e != nil; {
		next := e.next
		if e.hash&uint64(oldCap) == 0 {
			lo.push(e, tree)
		} else {
			hi.push(e, tree)
		}
		e = next
	}
	if tree {
		switch {
		case lo.head == nil:
			hi.root = b.root
		case hi.head == nil:
			lo.root = b.root
		default:
			m.retree(&lo)
			m.retree(&hi)
		}
	}
	newTab[j] = lo
	newTab[j+oldCap] = hi
}

// retree rebuilds the tree of a bin produced by splitting
// a tree-represented slot, or turns it back into a chain
// if it has become small enough.
func (m *Map[K, V, H]) retree(b *bin[K, V]) {
	if b.head == nil {
		return
	}
	if b.n <= m.cfg.untreeifyThreshold {
		m.untreeify(b)
	} else {
		m.treeify(b)
	}
}

// treeifyBin converts the chain at index i into a tree, unless the
// table is too small, in which case the table is grown instead.
func (m *Map[K, V, H]) treeifyBin(i int) {
	if len(m.table) < m.cfg.minTreeifyCapacity && m.resize() {
		return
	}
	if b := &m.table[i]; b.head != nil && !b.isTree() {
		m.treeify(b)
	}
}
