package cache

// A ReplacementPolicy decides which slot of a group receives a line.
type ReplacementPolicy interface {
	// Choose returns the grid index of the slot to fill. It returns false
	// when the address is already resident and no slot needs to change.
	Choose(group Group, address uint64, word int) (slot int, fill bool)
}

// RandSource provides the randomness of the random policy.
type RandSource interface {
	// Intn returns a value in [0, n).
	Intn(n int) int
}

func newPolicy(
	org Organization,
	g Geometry,
	src RandSource,
) ReplacementPolicy {
	switch org.Replacement {
	case RandomReplacement:
		return NewRandomPolicy(src)
	case LRUReplacement:
		return NewLRUPolicy(g.SetCount)
	default:
		return nil
	}
}
