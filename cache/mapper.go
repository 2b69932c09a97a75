package cache

import "iter"

// Position returns the set index and the word offset of an address.
func (g Geometry) Position(address uint64) (set int, word int) {
	lineSize := uint64(g.LineSize)

	set = int((address / lineSize) % uint64(g.SetCount))
	word = int(address % lineSize)

	return set, word
}

// GroupBase returns the first slot of the group that can hold the address,
// together with the word offset. For a direct-mapped geometry the group base
// is the set index itself.
func (g Geometry) GroupBase(address uint64) (base int, word int) {
	set, word := g.Position(address)
	if g.DirectMapped() {
		return set, word
	}

	return (set / g.Associativity) * g.Associativity, word
}

// LineBase returns the first address of the line that holds the address.
func LineBase(address uint64, word int) uint64 {
	return address - uint64(word)
}

// LineAddresses yields every address of the line the address belongs to, in
// increasing order. The sequence can be iterated more than once.
func LineAddresses(address uint64, word int, lineSize int) iter.Seq[uint64] {
	base := LineBase(address, word)

	return func(yield func(uint64) bool) {
		for i := 0; i < lineSize; i++ {
			if !yield(base + uint64(i)) {
				return
			}
		}
	}
}
