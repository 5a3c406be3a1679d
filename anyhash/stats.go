package anyhash

import (
	"fmt"
	"strings"
)

// Stats returns statistics on the layout of the map. It is an O(N)
// operation, intended for diagnostics and tests.
func (m *Map[K, V, H]) Stats() Stats {
	var s Stats
	if m == nil {
		return s
	}
	s.Capacity = len(m.table)
	s.Size = m.length
	s.Threshold = m.threshold
	s.Growths = m.growths
	for i := range m.table {
		b := &m.table[i]
		switch {
		case b.head == nil:
			s.EmptyBins++
		case b.isTree():
			s.TreeBins++
		default:
			s.ChainBins++
		}
		s.LongestBin = max(s.LongestBin, b.n)
	}
	return s
}

// Stats describes the layout of a Map.
//
// It is intended for diagnostic purposes; fields
// may be added in later versions.
type Stats struct {
	// Capacity holds the length of the table.
	Capacity int
	// Size holds the number of entries.
	Size int
	// Threshold holds the size above which the table grows.
	Threshold int
	// EmptyBins, ChainBins and TreeBins count the table slots
	// by representation.
	EmptyBins int
	ChainBins int
	TreeBins  int
	// LongestBin holds the number of entries in the most
	// populated slot.
	LongestBin int
	// Growths holds the number of times the table has doubled.
	Growths int
}

func (s Stats) String() string {
	var sb strings.Builder
	sb.WriteString("Stats{\n")
	fmt.Fprintf(&sb, "Capacity:   %d\n", s.Capacity)
	fmt.Fprintf(&sb, "Size:       %d\n", s.Size)
	fmt.Fprintf(&sb, "Threshold:  %d\n", s.Threshold)
	fmt.Fprintf(&sb, "EmptyBins:  %d\n", s.EmptyBins)
	fmt.Fprintf(&sb, "ChainBins:  %d\n", s.ChainBins)
	fmt.Fprintf(&sb, "TreeBins:   %d\n", s.TreeBins)
	fmt.Fprintf(&sb, "LongestBin: %d\n", s.LongestBin)
	fmt.Fprintf(&sb, "Growths:    %d\n", s.Growths)
	sb.WriteString("}\n")
	return sb.String()
}
