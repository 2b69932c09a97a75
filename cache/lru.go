package cache

import "sort"

// LRUPolicy evicts the least recently used slot of a full group.
//
// Every slot carries the clock value of its last touch. A zero stamp means
// the slot was never touched. Stamps are global to the grid, so they order
// touches across all groups, but eviction only compares the slots of the
// requesting group.
type LRUPolicy struct {
	clock uint64
	stamp []uint64
}

// NewLRUPolicy creates an LRU policy for a grid with slotCount slots.
func NewLRUPolicy(slotCount int) *LRUPolicy {
	return &LRUPolicy{
		stamp: make([]uint64, slotCount),
	}
}

// Choose implements ReplacementPolicy.
func (p *LRUPolicy) Choose(
	group Group,
	address uint64,
	word int,
) (int, bool) {
	if slot, ok := group.Find(address, word); ok {
		p.touch(slot)
		return 0, false
	}

	if slot, ok := group.FirstEmpty(); ok {
		p.touch(slot)
		return slot, true
	}

	victim := group.Base
	for i := group.Base + 1; i < group.Base+len(group.Slots); i++ {
		if p.stamp[i] < p.stamp[victim] {
			victim = i
		}
	}

	p.touch(victim)

	return victim, true
}

func (p *LRUPolicy) touch(slot int) {
	p.clock++
	p.stamp[slot] = p.clock
}

// Order returns the grid indices of every touched slot, least recently used
// first.
func (p *LRUPolicy) Order() []int {
	order := make([]int, 0, len(p.stamp))
	for i, s := range p.stamp {
		if s != 0 {
			order = append(order, i)
		}
	}

	sort.Slice(order, func(a, b int) bool {
		return p.stamp[order[a]] < p.stamp[order[b]]
	})

	return order
}
