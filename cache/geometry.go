// Package cache models the placement behavior of a memory cache. It tracks
// which lines are resident and counts hits and misses; it stores no data.
package cache

// Geometry describes the shape of a cache.
type Geometry struct {
	// SetCount is the total number of slots in the grid.
	SetCount int
	// LineSize is the number of addressable words in a line.
	LineSize int
	// Associativity is the number of slots per group (1 for direct-mapped).
	Associativity int
}

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// Validate checks that every dimension is a power of two and that the
// associativity divides the set count.
func (g Geometry) Validate() error {
	if !IsPowerOfTwo(g.SetCount) {
		return &ConfigError{
			Field:  "set count",
			Value:  g.SetCount,
			Reason: "is not a power of 2",
		}
	}

	if !IsPowerOfTwo(g.LineSize) {
		return &ConfigError{
			Field:  "line size",
			Value:  g.LineSize,
			Reason: "is not a power of 2",
		}
	}

	if !IsPowerOfTwo(g.Associativity) {
		return &ConfigError{
			Field:  "associativity",
			Value:  g.Associativity,
			Reason: "is not a power of 2",
		}
	}

	if g.SetCount%g.Associativity != 0 {
		return &ConfigError{
			Field:  "associativity",
			Value:  g.Associativity,
			Reason: "does not divide the set count",
		}
	}

	return nil
}

// GroupCount returns the number of independent groups in the grid.
func (g Geometry) GroupCount() int {
	return g.SetCount / g.Associativity
}

// DirectMapped reports whether every group holds a single slot.
func (g Geometry) DirectMapped() bool {
	return g.Associativity == 1
}
