package anyhash_test

import (
	"fmt"
	"maps"
	"math"
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/rogpeppe/hashtab/anyhash"
)

func TestSpread(t *testing.T) {
	// Hash codes that differ only in their high bits
	// must still land in different slots.
	for _, shift := range []uint{0, 40, 48, 56} {
		t.Run(fmt.Sprint(shift), func(t *testing.T) {
			seen := make(map[uint64]bool)
			for i := range uint64(16) {
				seen[anyhash.Spread(i<<shift)&15] = true
			}
			qt.Assert(t, qt.HasLen(seen, 16))
		})
	}
	qt.Assert(t, qt.Equals(anyhash.Spread(0), 0))
	qt.Assert(t, qt.Equals(anyhash.Spread(200), 200))
}

func TestResizeAtThreshold(t *testing.T) {
	m := anyhash.NewMap[string, int](anyhash.ComparableHasher[string]{},
		anyhash.WithCapacity(16),
		anyhash.WithLoadFactor(0.75),
	)
	want := make(map[string]int)
	for i := range 12 {
		k := fmt.Sprint("key", i)
		m.Set(k, i)
		want[k] = i
	}
	s := m.Stats()
	qt.Assert(t, qt.Equals(s.Capacity, 16))
	qt.Assert(t, qt.Equals(s.Threshold, 12))
	before := maps.Collect(m.All())
	qt.Assert(t, qt.DeepEquals(before, want))

	mods := anyhash.ModCount(m)
	m.Set("key12", 12)
	want["key12"] = 12
	s = m.Stats()
	qt.Assert(t, qt.Equals(s.Capacity, 32))
	qt.Assert(t, qt.Equals(s.Threshold, 24))
	qt.Assert(t, qt.Equals(s.Growths, 1))
	// One for the insertion and one for the resize.
	qt.Assert(t, qt.Equals(anyhash.ModCount(m), mods+2))
	qt.Assert(t, qt.IsNil(anyhash.CheckInvariants(m)))
	qt.Assert(t, qt.DeepEquals(maps.Collect(m.All()), want))
	for k, v := range want {
		qt.Assert(t, qt.Equals(m.At(k), v))
	}
}

func TestResizeKeepsChainOrder(t *testing.T) {
	m := anyhash.NewMap[ckey, int](codeHasher{}, anyhash.WithCapacity(16))
	// Codes 3 and 19 share slot 3 of 16; 19 moves to slot 19 of 32.
	var keys, lo, hi []ckey
	for i := range 6 {
		a := ckey{Code: 3, Name: fmt.Sprint("a", i)}
		b := ckey{Code: 19, Name: fmt.Sprint("b", i)}
		keys = append(keys, a, b)
		lo = append(lo, a)
		hi = append(hi, b)
	}
	// Five chained entries, well below the treeify threshold.
	for _, k := range keys[:5] {
		m.Set(k, 0)
	}
	qt.Assert(t, qt.DeepEquals(anyhash.BinKeys(m, keys[0]), keys[:5]))

	m.Grow(13)
	qt.Assert(t, qt.Equals(m.Cap(), 32))
	qt.Assert(t, qt.DeepEquals(anyhash.BinKeys(m, lo[0]), lo[:3]))
	qt.Assert(t, qt.DeepEquals(anyhash.BinKeys(m, hi[0]), hi[:2]))
	qt.Assert(t, qt.IsNil(anyhash.CheckInvariants(m)))
}

func TestGrow(t *testing.T) {
	m := newStringMap()
	m.Grow(100)
	// 100/0.75 rounded up to a power of two.
	qt.Assert(t, qt.Equals(m.Cap(), 256))
	qt.Assert(t, qt.Equals(m.Len(), 0))
	for i := range 100 {
		m.Set(fmt.Sprint(i), i)
	}
	qt.Assert(t, qt.Equals(m.Stats().Growths, 0))

	// Growing to a size that already fits does nothing.
	m.Grow(10)
	qt.Assert(t, qt.Equals(m.Cap(), 256))

	m.Grow(1000)
	qt.Assert(t, qt.Equals(m.Cap(), 2048))
	qt.Assert(t, qt.Equals(m.Len(), 100))
	qt.Assert(t, qt.IsNil(anyhash.CheckInvariants(m)))
}

func TestGrowHuge(t *testing.T) {
	m := newStringMap(anyhash.WithMaxCapacity(64))
	m.Grow(math.MaxInt)
	// The table is allocated at its maximum length straight away.
	s := m.Stats()
	qt.Assert(t, qt.Equals(s.Capacity, 64))
	qt.Assert(t, qt.Equals(s.Growths, 0))
	qt.Assert(t, qt.Equals(s.Threshold, math.MaxInt))
	m.Set("a", 1)
	qt.Assert(t, qt.Equals(m.Cap(), 64))
}

func TestCapacityRoundsUp(t *testing.T) {
	m := newStringMap(anyhash.WithCapacity(20))
	m.Set("a", 1)
	qt.Assert(t, qt.Equals(m.Cap(), 32))
	qt.Assert(t, qt.Equals(m.Stats().Threshold, 24))
}

func TestMaxCapacityPinsThreshold(t *testing.T) {
	m := anyhash.NewMap[int, int](anyhash.ComparableHasher[int]{}, anyhash.WithMaxCapacity(32))
	for i := range 200 {
		m.Set(i, i)
	}
	s := m.Stats()
	qt.Assert(t, qt.Equals(s.Capacity, 32))
	qt.Assert(t, qt.Equals(s.Threshold, math.MaxInt))
	qt.Assert(t, qt.Equals(s.Size, 200))
	qt.Assert(t, qt.IsNil(anyhash.CheckInvariants(m)))
	for i := range 200 {
		qt.Assert(t, qt.Equals(m.At(i), i))
	}

	// Further growth requests are ignored.
	m.Grow(10000)
	qt.Assert(t, qt.Equals(m.Cap(), 32))
}

func TestMaxCapacityTreeifiesInsteadOfGrowing(t *testing.T) {
	m := anyhash.NewMap[ckey, int](codeHasher{}, anyhash.WithMaxCapacity(16))
	keys := ckeys(4, "k", 12)
	for i, k := range keys {
		m.Set(k, i)
	}
	// The table cannot reach the minimum treeify capacity,
	// so the long chain is treeified in place.
	qt.Assert(t, qt.Equals(m.Cap(), 16))
	qt.Assert(t, qt.Equals(anyhash.BinKind(m, keys[0]), "tree"))
	qt.Assert(t, qt.IsNil(anyhash.CheckInvariants(m)))
}
