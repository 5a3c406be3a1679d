package anyhash_test

import (
	"fmt"
	"testing"

	"github.com/rogpeppe/hashtab/anyhash"
)

func BenchmarkSet(b *testing.B) {
	for range b.N {
		m := anyhash.NewMap[int, int](anyhash.ComparableHasher[int]{})
		for i := range 1000 {
			m.Set(i, i)
		}
	}
}

func BenchmarkGoMapSet(b *testing.B) {
	for range b.N {
		m := make(map[int]int)
		for i := range 1000 {
			m[i] = i
		}
	}
}

func BenchmarkGet(b *testing.B) {
	m := anyhash.NewMap[int, int](anyhash.ComparableHasher[int]{})
	for i := range 1000 {
		m.Set(i, i)
	}
	b.ResetTimer()
	for i := range b.N {
		if _, ok := m.Get(i % 1000); !ok {
			b.Fatal("missing key")
		}
	}
}

// BenchmarkCollidingGet measures lookups when every key lands in
// the same slot, with and without treeification.
func BenchmarkCollidingGet(b *testing.B) {
	for _, n := range []int{7, 64, 512} {
		keys := ckeys(3, "k", n)
		b.Run(fmt.Sprintf("tree-%d", n), func(b *testing.B) {
			benchmarkGet(b, anyhash.NewMap[ckey, int](orderedCodeHasher{}, anyhash.WithCapacity(64)), keys)
		})
		b.Run(fmt.Sprintf("chain-%d", n), func(b *testing.B) {
			m := anyhash.NewMap[ckey, int](orderedCodeHasher{}, anyhash.WithTreeifyThreshold(1<<20))
			benchmarkGet(b, m, keys)
		})
	}
}

func benchmarkGet[H anyhash.Hasher[ckey]](b *testing.B, m *anyhash.Map[ckey, int, H], keys []ckey) {
	for i, k := range keys {
		m.Set(k, i)
	}
	b.ResetTimer()
	for i := range b.N {
		if !m.Contains(keys[i%len(keys)]) {
			b.Fatal("missing key")
		}
	}
}
