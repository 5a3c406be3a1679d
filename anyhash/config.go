package anyhash

import (
	"fmt"
	"math"
	"math/bits"
)

const (
	// defaultCapacity is the table length allocated on first insert
	// when no capacity has been configured.
	defaultCapacity = 16

	// maxCapacity bounds the table length. Once the table has reached
	// it, the map stops growing and lets the load factor rise instead.
	maxCapacity = 1 << 30

	defaultLoadFactor         = 0.75
	defaultTreeifyThreshold   = 8
	defaultUntreeifyThreshold = 6
	defaultMinTreeifyCapacity = 64
)

// Config holds the options for a [Map]. It is
// modified by the option functions passed to [NewMap].
type Config struct {
	capacity           int
	loadFactor         float64
	treeifyThreshold   int
	untreeifyThreshold int
	minTreeifyCapacity int
	maxCapacity        int
}

func defaultConfig() Config {
	return Config{
		loadFactor:         defaultLoadFactor,
		treeifyThreshold:   defaultTreeifyThreshold,
		untreeifyThreshold: defaultUntreeifyThreshold,
		minTreeifyCapacity: defaultMinTreeifyCapacity,
		maxCapacity:        maxCapacity,
	}
}

// WithCapacity configures the initial table length. It is rounded up
// to a power of two. The table is still allocated lazily
// on first insert. If n is zero, the default is used.
func WithCapacity(n int) func(*Config) {
	return func(c *Config) {
		c.capacity = n
	}
}

// WithLoadFactor configures the ratio of entries to table length
// above which the table doubles. The default is 0.75.
func WithLoadFactor(f float64) func(*Config) {
	return func(c *Config) {
		c.loadFactor = f
	}
}

// WithTreeifyThreshold configures the slot length at which a chain
// is converted into a tree. The default is 8.
func WithTreeifyThreshold(n int) func(*Config) {
	return func(c *Config) {
		c.treeifyThreshold = n
	}
}

// WithUntreeifyThreshold configures the slot length at or below
// which a tree is converted back into a chain. It must be
// less than the treeify threshold. The default is 6.
func WithUntreeifyThreshold(n int) func(*Config) {
	return func(c *Config) {
		c.untreeifyThreshold = n
	}
}

// WithMinTreeifyCapacity configures the smallest table length for
// which long chains are treeified. Below it, the table is grown
// instead. The default is 64.
func WithMinTreeifyCapacity(n int) func(*Config) {
	return func(c *Config) {
		c.minTreeifyCapacity = n
	}
}

// check panics if the configuration cannot be used.
func (c *Config) check() {
	switch {
	case c.capacity < 0:
		panic(fmt.Sprintf("anyhash: negative capacity %d", c.capacity))
	case c.loadFactor <= 0 || math.IsNaN(c.loadFactor) || math.IsInf(c.loadFactor, 0):
		panic(fmt.Sprintf("anyhash: invalid load factor %v", c.loadFactor))
	case c.treeifyThreshold < 2:
		panic(fmt.Sprintf("anyhash: treeify threshold %d is less than 2", c.treeifyThreshold))
	case c.untreeifyThreshold < 0 || c.untreeifyThreshold >= c.treeifyThreshold:
		panic(fmt.Sprintf("anyhash: untreeify threshold %d not in [0, %d)", c.untreeifyThreshold, c.treeifyThreshold))
	case c.minTreeifyCapacity < 0:
		panic(fmt.Sprintf("anyhash: negative minimum treeify capacity %d", c.minTreeifyCapacity))
	}
}

// tableSizeFor returns the smallest power of two >= n,
// clamped to [1, max].
func tableSizeFor(n, max int) int {
	if n <= 1 {
		return 1
	}
	if n >= max {
		return max
	}
	return 1 << bits.Len(uint(n-1))
}

// thresholdFor returns the resize threshold for a table of length n.
func (c *Config) thresholdFor(n int) int {
	ft := float64(n) * c.loadFactor
	if n >= c.maxCapacity || ft >= float64(c.maxCapacity) {
		return math.MaxInt
	}
	return int(ft)
}
