package cache

import "math/rand/v2"

// RandomPolicy fills empty slots in order and evicts a random slot once the
// group is full.
type RandomPolicy struct {
	src RandSource
}

// NewRandomPolicy creates a random policy drawing from src.
func NewRandomPolicy(src RandSource) *RandomPolicy {
	return &RandomPolicy{src: src}
}

// Choose implements ReplacementPolicy.
func (p *RandomPolicy) Choose(
	group Group,
	address uint64,
	word int,
) (int, bool) {
	if _, ok := group.Find(address, word); ok {
		return 0, false
	}

	if slot, ok := group.FirstEmpty(); ok {
		return slot, true
	}

	return group.Base + p.src.Intn(len(group.Slots)), true
}

type pcgSource struct {
	rng *rand.Rand
}

// NewSeededSource returns a deterministic RandSource.
func NewSeededSource(seed uint64) RandSource {
	return &pcgSource{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *pcgSource) Intn(n int) int {
	return s.rng.IntN(n)
}

type globalSource struct{}

func (globalSource) Intn(n int) int {
	return rand.IntN(n)
}
