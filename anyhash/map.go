package anyhash

import (
	"fmt"
	"hash/maphash"
	"strings"

	"github.com/rogpeppe/hashtab/failfast"
)

// Map is a hash-table-based mapping from keys K to values V,
// parameterized by a stateless hasher/equality provider H.
//
// Just as with map[K]V, a nil *Map is a valid empty map for reading.
// The zero Map is ready to use with the default configuration
// when the zero H is a usable Hasher.
//
// Read-only operations (At, Get, Len, String, and iteration) may be called
// concurrently with each other, but this type does not provide external
// synchronization for concurrent mutation.
type Map[K, V any, H Hasher[K]] struct {
	hasher  Hasher[K]
	code    func(K) uint64
	compare func(x, y K) int
	seed    maphash.Seed
	cfg     Config
	ready   bool

	// table is allocated on first insert. Its length is
	// always a power of two.
	table     []bin[K, V]
	length    int
	threshold int
	seq       uint64
	growths   int

	// mods counts structural modifications: insertions
	// of new keys, removals, clears and resizes.
	mods failfast.Counter
}

// NewMap returns a new empty Map that uses h for hashing and
// equality, configured by the given options. It panics if
// the options are invalid.
func NewMap[K, V any, H Hasher[K]](h H, options ...func(*Config)) *Map[K, V, H] {
	m := &Map[K, V, H]{
		hasher: h,
		cfg:    defaultConfig(),
	}
	for _, o := range options {
		o(&m.cfg)
	}
	m.init()
	return m
}

func (m *Map[K, V, H]) init() {
	if m.ready {
		return
	}
	if m.hasher == nil {
		var h H
		m.hasher = h
	}
	if m.cfg == (Config{}) {
		m.cfg = defaultConfig()
	}
	m.cfg.check()
	if hc, ok := m.hasher.(HashCoder[K]); ok {
		m.code = hc.HashCode
	}
	if c, ok := m.hasher.(Comparer[K]); ok {
		m.compare = c.Compare
	}
	m.seed = maphash.MakeSeed()
	m.ready = true
}

// Len returns the number of entries in the map.
func (m *Map[K, V, H]) Len() int {
	if m == nil {
		return 0
	}
	return m.length
}

// IsEmpty reports whether the map holds no entries.
func (m *Map[K, V, H]) IsEmpty() bool {
	return m.Len() == 0
}

// Cap returns the length of the underlying table,
// or zero if it has not been allocated yet.
func (m *Map[K, V, H]) Cap() int {
	if m == nil {
		return 0
	}
	return len(m.table)
}

func (m *Map[K, V, H]) hashKey(k K) uint64 {
	if m.code != nil {
		return Spread(m.code(k))
	}
	var h maphash.Hash
	h.SetSeed(m.seed)
	m.hasher.Hash(&h, k)
	return Spread(h.Sum64())
}

func (m *Map[K, V, H]) index(h uint64) int {
	return int(h & uint64(len(m.table)-1))
}

// find returns the node holding k, or nil.
func (m *Map[K, V, H]) find(k K) *node[K, V] {
	if m == nil || len(m.table) == 0 {
		return nil
	}
	h := m.hashKey(k)
	b := &m.table[m.index(h)]
	e := b.head
	if e == nil {
		return nil
	}
	if e.hash == h && m.hasher.Equal(e.key, k) {
		return e
	}
	if b.isTree() {
		return m.findTree(b.root, h, k)
	}
	for e = e.next; e != nil; e = e.next {
		if e.hash == h && m.hasher.Equal(e.key, k) {
			return e
		}
	}
	return nil
}

// At returns the value for key k, or the zero value of V if not present.
func (m *Map[K, V, H]) At(k K) V {
	if e := m.find(k); e != nil {
		return e.value
	}
	return *new(V)
}

// Get returns the value for key k and reports whether it was found.
func (m *Map[K, V, H]) Get(k K) (V, bool) {
	if e := m.find(k); e != nil {
		return e.value, true
	}
	return *new(V), false
}

// Lookup returns the key stored in the map (Equal to k but not necessarily
// exactly the same), its associated value, and reports
// whether the entry was found.
func (m *Map[K, V, H]) Lookup(k K) (K, V, bool) {
	if e := m.find(k); e != nil {
		return e.key, e.value, true
	}
	return *new(K), *new(V), false
}

// Contains reports whether the map holds an entry for k.
func (m *Map[K, V, H]) Contains(k K) bool {
	return m.find(k) != nil
}

// Set sets the value for k to v. It returns the previous value
// and true if k was already present, in which case the map is
// not structurally modified.
func (m *Map[K, V, H]) Set(k K, v V) (prev V, replaced bool) {
	if m == nil {
		panic("(*Map).Set called on nil *Map")
	}
	e, added := m.put(k, v, false)
	if added {
		return prev, false
	}
	prev, e.value = e.value, v
	return prev, true
}

// Put is a synonym for [Map.Set].
func (m *Map[K, V, H]) Put(k K, v V) (prev V, replaced bool) {
	return m.Set(k, v)
}

// SetIfAbsent sets the value for k to v only if k is not present.
// It returns the value now associated with k and reports whether
// it was already there.
func (m *Map[K, V, H]) SetIfAbsent(k K, v V) (actual V, loaded bool) {
	if m == nil {
		panic("(*Map).SetIfAbsent called on nil *Map")
	}
	e, added := m.put(k, v, true)
	return e.value, !added
}

// put finds the node for k, adding a new node holding v if there
// is none. It reports whether the node was added. When onlyIfAbsent
// is false, the caller is responsible for updating the value of
// an existing node.
func (m *Map[K, V, H]) put(k K, v V, onlyIfAbsent bool) (e *node[K, V], added bool) {
	m.init()
	if m.table == nil {
		m.resize()
	}
	h := m.hashKey(k)
	i := m.index(h)
	b := &m.table[i]
	switch {
	case b.head == nil:
		e = m.newNode(h, k, v)
		b.push(e, false)
	case b.head.hash == h && m.hasher.Equal(b.head.key, k):
		return b.head, false
	case b.isTree():
		if found := m.findTree(b.root, h, k); found != nil {
			return found, false
		}
		e = m.newNode(h, k, v)
		b.push(e, true)
		m.treeInsert(b, e)
	default:
		p := b.head
		for ; p.next != nil; p = p.next {
			if q := p.next; q.hash == h && m.hasher.Equal(q.key, k) {
				return q, false
			}
		}
		e = m.newNode(h, k, v)
		b.push(e, false)
		if b.n >= m.cfg.treeifyThreshold {
			m.treeifyBin(i)
		}
	}
	m.length++
	m.mods.Bump()
	if m.length > m.threshold {
		m.resize()
	}
	return e, true
}

func (m *Map[K, V, H]) newNode(h uint64, k K, v V) *node[K, V] {
	m.seq++
	return &node[K, V]{
		hash:  h,
		key:   k,
		value: v,
		seq:   m.seq,
	}
}

// Delete removes the entry with key k, if present, and reports whether it was found.
func (m *Map[K, V, H]) Delete(k K) (old V, deleted bool) {
	if m == nil || len(m.table) == 0 {
		return *new(V), false
	}
	h := m.hashKey(k)
	b := &m.table[m.index(h)]
	var e *node[K, V]
	if b.isTree() {
		e = m.findTree(b.root, h, k)
	} else {
		for p := b.head; p != nil; p = p.next {
			if p.hash == h && m.hasher.Equal(p.key, k) {
				e = p
				break
			}
		}
	}
	if e == nil {
		return *new(V), false
	}
	m.removeNode(b, e)
	return e.value, true
}

// Remove is a synonym for [Map.Delete].
func (m *Map[K, V, H]) Remove(k K) (old V, deleted bool) {
	return m.Delete(k)
}

// removeNode unlinks e, which must be in b.
func (m *Map[K, V, H]) removeNode(b *bin[K, V], e *node[K, V]) {
	if b.isTree() {
		m.removeTree(b, e)
	} else {
		var prev *node[K, V]
		for p := b.head; p != e; p = p.next {
			prev = p
		}
		if prev == nil {
			b.head = e.next
		} else {
			prev.next = e.next
		}
		if b.tail == e {
			b.tail = prev
		}
		e.next = nil
		b.n--
	}
	m.length--
	m.mods.Bump()
}

// Clear removes all entries from the map, keeping the
// allocated table.
func (m *Map[K, V, H]) Clear() {
	if m == nil {
		return
	}
	m.mods.Bump()
	if m.length > 0 {
		clear(m.table)
		m.length = 0
	}
}

// Grow makes sure that the map can hold at least n entries
// without growing its table.
func (m *Map[K, V, H]) Grow(n int) {
	if m == nil {
		panic("(*Map).Grow called on nil *Map")
	}
	m.init()
	if n <= 0 {
		return
	}
	if m.table == nil {
		want := m.cfg.maxCapacity
		if size := float64(n)/m.cfg.loadFactor + 1; size < float64(want) {
			want = tableSizeFor(int(size), want)
		}
		if want > m.cfg.capacity {
			m.cfg.capacity = want
		}
		m.resize()
	}
	for n > m.threshold && m.resize() {
	}
}

// Clone returns a copy of m with the same hasher and configuration.
// Iterating over the clone visits entries in the same relative
// order as iterating over m.
func (m *Map[K, V, H]) Clone() *Map[K, V, H] {
	if m == nil {
		return nil
	}
	m.init()
	m1 := &Map[K, V, H]{
		hasher:  m.hasher,
		code:    m.code,
		compare: m.compare,
		seed:    m.seed,
		cfg:     m.cfg,
		ready:   true,
	}
	if len(m.table) > 0 {
		m1.cfg.capacity = len(m.table)
	}
	for k, v := range m.All() {
		m1.Set(k, v)
	}
	return m1
}

// String returns a string representation of the map
// in the same form as fmt uses for Go maps.
func (m *Map[K, V, H]) String() string {
	var sb strings.Builder
	sb.WriteString("map[")
	first := true
	for k, v := range m.All() {
		if !first {
			sb.WriteByte(' ')
		}
		first = false
		fmt.Fprintf(&sb, "%v:%v", k, v)
	}
	sb.WriteString("]")
	return sb.String()
}
