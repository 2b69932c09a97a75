package cache

import "iter"

// Slot is one storage unit of the grid. A slot is either empty or holds a
// single line, identified by the address of its first word.
type Slot struct {
	resident bool
	base     uint64
}

// EmptySlot returns a slot that holds no line.
func EmptySlot() Slot {
	return Slot{}
}

// ResidentSlot returns a slot holding the line that starts at base.
func ResidentSlot(base uint64) Slot {
	return Slot{resident: true, base: base}
}

// Empty reports whether the slot holds no line.
func (s Slot) Empty() bool {
	return !s.resident
}

// Base returns the first address of the resident line. The second value is
// false when the slot is empty.
func (s Slot) Base() (uint64, bool) {
	return s.base, s.resident
}

// Holds reports whether the word at the given offset of the resident line is
// the address.
func (s Slot) Holds(address uint64, word int) bool {
	return s.resident && s.base+uint64(word) == address
}

// Words yields the addresses of the resident line. An empty slot yields
// nothing.
func (s Slot) Words(lineSize int) iter.Seq[uint64] {
	if !s.resident {
		return func(func(uint64) bool) {}
	}

	return LineAddresses(s.base, 0, lineSize)
}

// Group is the window of slots eligible to hold an address.
type Group struct {
	// Base is the grid index of the first slot in the group.
	Base int
	// Slots are the slots of the group, in grid order.
	Slots []Slot
}

// Find returns the grid index of the slot that holds the address.
func (g Group) Find(address uint64, word int) (int, bool) {
	for i, s := range g.Slots {
		if s.Holds(address, word) {
			return g.Base + i, true
		}
	}

	return 0, false
}

// FirstEmpty returns the grid index of the lowest empty slot in the group.
func (g Group) FirstEmpty() (int, bool) {
	for i, s := range g.Slots {
		if s.Empty() {
			return g.Base + i, true
		}
	}

	return 0, false
}

// Contains reports whether a grid index falls inside the group.
func (g Group) Contains(index int) bool {
	return index >= g.Base && index < g.Base+len(g.Slots)
}
