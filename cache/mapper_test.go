package cache_test

import (
	"slices"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/cachesim/cache"
)

var _ = Describe("Address mapping", func() {
	Describe("Position", func() {
		It("should split an address into set and word", func() {
			g := cache.Geometry{SetCount: 4, LineSize: 4, Associativity: 1}

			set, word := g.Position(0)
			Expect(set).To(Equal(0))
			Expect(word).To(Equal(0))

			set, word = g.Position(7)
			Expect(set).To(Equal(1))
			Expect(word).To(Equal(3))

			// 16 / 4 = 4, wraps around to set 0
			set, word = g.Position(16)
			Expect(set).To(Equal(0))
			Expect(word).To(Equal(0))
		})
	})

	Describe("GroupBase", func() {
		It("should return the set index for direct-mapped caches", func() {
			g := cache.Geometry{SetCount: 8, LineSize: 2, Associativity: 1}

			base, word := g.GroupBase(7)
			Expect(base).To(Equal(3))
			Expect(word).To(Equal(1))
		})

		It("should round the set index down to its group", func() {
			g := cache.Geometry{SetCount: 8, LineSize: 4, Associativity: 4}

			base, _ := g.GroupBase(4 * 3) // set 3
			Expect(base).To(Equal(0))

			base, _ = g.GroupBase(4 * 6) // set 6
			Expect(base).To(Equal(4))
		})
	})

	Describe("LineAddresses", func() {
		It("should cover the whole line", func() {
			line := slices.Collect(cache.LineAddresses(10, 2, 4))
			Expect(line).To(Equal([]uint64{8, 9, 10, 11}))
		})

		It("should be restartable", func() {
			seq := cache.LineAddresses(5, 1, 2)
			Expect(slices.Collect(seq)).To(Equal([]uint64{4, 5}))
			Expect(slices.Collect(seq)).To(Equal([]uint64{4, 5}))
		})

		It("should stop when the consumer stops", func() {
			var seen []uint64
			for addr := range cache.LineAddresses(0, 0, 8) {
				seen = append(seen, addr)
				if len(seen) == 3 {
					break
				}
			}
			Expect(seen).To(Equal([]uint64{0, 1, 2}))
		})
	})

	Describe("Geometry validation", func() {
		It("should accept power-of-two dimensions", func() {
			g := cache.Geometry{SetCount: 16, LineSize: 4, Associativity: 4}
			Expect(g.Validate()).To(Succeed())
			Expect(g.GroupCount()).To(Equal(4))
		})

		It("should reject a set count that is not a power of two", func() {
			g := cache.Geometry{SetCount: 12, LineSize: 4, Associativity: 1}

			err := g.Validate()
			var cfgErr *cache.ConfigError
			Expect(err).To(BeAssignableToTypeOf(cfgErr))
			Expect(err.Error()).To(ContainSubstring("set count 12"))
		})

		It("should reject a zero line size", func() {
			g := cache.Geometry{SetCount: 4, LineSize: 0, Associativity: 1}
			Expect(g.Validate()).To(MatchError(ContainSubstring("line size")))
		})

		It("should reject an associativity larger than the set count", func() {
			g := cache.Geometry{SetCount: 2, LineSize: 4, Associativity: 4}
			Expect(g.Validate()).To(MatchError(
				ContainSubstring("does not divide the set count")))
		})
	})
})
