package cache_test

import (
	"bytes"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/cachesim/cache"
)

func mustOrganization(code string) cache.Organization {
	org, err := cache.ParseOrganization(code)
	Expect(err).NotTo(HaveOccurred())
	return org
}

func hits(results ...cache.AccessResult) []bool {
	out := make([]bool, len(results))
	for i, r := range results {
		out[i] = r.Hit
	}
	return out
}

var _ = Describe("Engine", func() {
	var out *bytes.Buffer

	BeforeEach(func() {
		out = new(bytes.Buffer)
	})

	newEngine := func(sets, lineSize int, code string, opts ...cache.Option) *cache.Engine {
		opts = append([]cache.Option{cache.WithOutput(out), cache.WithSeed(1)}, opts...)
		e, err := cache.New(sets, lineSize, mustOrganization(code), opts...)
		Expect(err).NotTo(HaveOccurred())
		return e
	}

	It("should reject an invalid geometry at construction", func() {
		_, err := cache.New(6, 4, mustOrganization("1"))
		Expect(err).To(MatchError(ContainSubstring("set count 6")))

		_, err = cache.New(2, 4, mustOrganization("4l"))
		Expect(err).To(HaveOccurred())
	})

	It("should reject a replacement that does not fit the associativity", func() {
		_, err := cache.New(4, 4, cache.Organization{
			Associativity: 2,
			Replacement:   cache.DirectMapped,
		})
		Expect(err).To(MatchError("associativity 2 is not 1 for a direct-mapped cache"))

		_, err = cache.New(4, 4, cache.Organization{
			Associativity: 1,
			Replacement:   cache.LRUReplacement,
		})
		var cfgErr *cache.ConfigError
		Expect(errors.As(err, &cfgErr)).To(BeTrue())
		Expect(cfgErr.Field).To(Equal("associativity"))
	})

	Describe("Direct-mapped", func() {
		var e *cache.Engine

		BeforeEach(func() {
			e = newEngine(4, 4, "1")
		})

		It("should miss then hit on the same address", func() {
			Expect(hits(e.Load(5), e.Load(5))).To(Equal([]bool{false, true}))
		})

		It("should hit on any word of a resident line", func() {
			e.Load(0)
			Expect(e.Load(3).Hit).To(BeTrue())
			Expect(e.Store(2).Hit).To(BeTrue())
		})

		It("should evict conflicting lines on every access", func() {
			results := hits(e.Load(0), e.Load(16), e.Load(0), e.Load(16))
			Expect(results).To(Equal([]bool{false, false, false, false}))

			stats := e.Stats()
			Expect(stats.Accesses).To(Equal(uint64(4)))
			Expect(stats.Hits).To(Equal(uint64(0)))
			Expect(stats.Evictions).To(Equal(uint64(3)))
		})

		It("should refill the slot on a hit without evicting", func() {
			e.Load(4)
			result := e.Load(4)

			Expect(result.Hit).To(BeTrue())
			Expect(result.Filled()).To(BeTrue())
			Expect(result.Slot).To(Equal(1))
			Expect(result.Evicted).To(BeFalse())

			base, ok := e.Slots()[1].Base()
			Expect(ok).To(BeTrue())
			Expect(base).To(Equal(uint64(4)))
		})

		It("should report the evicted line", func() {
			e.Load(1)
			result := e.Load(17)

			Expect(result.Evicted).To(BeTrue())
			Expect(result.EvictedBase).To(Equal(uint64(0)))
		})
	})

	for _, code := range []string{"2r", "2l"} {
		code := code

		Describe("2-way associative "+code, func() {
			It("should use the free slot of the group", func() {
				e := newEngine(4, 4, code)

				first := e.Load(0)
				second := e.Load(4)
				third := e.Load(0)

				Expect(hits(first, second, third)).To(Equal([]bool{false, false, true}))
				Expect(first.GroupBase).To(Equal(0))
				Expect(second.GroupBase).To(Equal(0))
				Expect(first.Slot).To(Equal(0))
				Expect(second.Slot).To(Equal(1))
				Expect(third.Filled()).To(BeFalse())
			})
		})
	}

	Describe("LRU replacement", func() {
		var e *cache.Engine

		BeforeEach(func() {
			e = newEngine(4, 4, "2l")
		})

		It("should evict the least recently touched slot", func() {
			e.Load(0)  // A, slot 0
			e.Load(4)  // B, slot 1
			c := e.Load(16)

			Expect(c.Hit).To(BeFalse())
			Expect(c.Slot).To(Equal(0))
			Expect(c.EvictedBase).To(Equal(uint64(0)))
			Expect(e.Load(4).Hit).To(BeTrue())
			Expect(e.Load(0).Hit).To(BeFalse())
		})

		It("should refresh recency on a hit", func() {
			e.Load(0)
			e.Load(4)
			e.Load(0) // A becomes most recent
			c := e.Load(16)

			Expect(c.Slot).To(Equal(1))
			Expect(e.Load(0).Hit).To(BeTrue())
		})

		It("should keep the recency order across groups", func() {
			e.Load(0)  // slot 0
			e.Load(8)  // group 2, slot 2
			e.Load(4)  // slot 1
			e.Load(0)  // hit, slot 0

			lru, ok := e.Policy().(*cache.LRUPolicy)
			Expect(ok).To(BeTrue())
			Expect(lru.Order()).To(Equal([]int{2, 1, 0}))
		})
	})

	Describe("Random replacement", func() {
		var (
			mockCtrl *gomock.Controller
			src      *MockRandSource
		)

		BeforeEach(func() {
			mockCtrl = gomock.NewController(GinkgoT())
			src = NewMockRandSource(mockCtrl)
		})

		AfterEach(func() {
			mockCtrl.Finish()
		})

		It("should not draw while the group has an empty slot", func() {
			e := newEngine(8, 1, "4r", cache.WithRandSource(src))

			for addr := uint64(0); addr < 4; addr++ {
				Expect(e.Load(addr).Slot).To(Equal(int(addr)))
			}
		})

		It("should evict the drawn slot of a full group", func() {
			e := newEngine(8, 1, "4r", cache.WithRandSource(src))
			for addr := uint64(4); addr < 8; addr++ {
				e.Load(addr)
			}

			src.EXPECT().Intn(4).Return(2)
			result := e.Load(12)

			Expect(result.Slot).To(Equal(6))
			Expect(result.EvictedBase).To(Equal(uint64(6)))
		})

		It("should ignore a nil source", func() {
			e := newEngine(4, 1, "4r", cache.WithRandSource(nil))
			for addr := uint64(0); addr < 4; addr++ {
				e.Load(addr)
			}

			result := e.Load(4)
			Expect(result.Slot).To(BeNumerically("<", 4))
			Expect(result.Evicted).To(BeTrue())
		})

		It("should never place a line outside its group", func() {
			e := newEngine(16, 2, "4r")

			for i := uint64(0); i < 500; i++ {
				addr := (i * 37) % 256
				r := e.Load(addr)
				if r.Filled() {
					Expect(r.Slot).To(BeNumerically(">=", r.GroupBase))
					Expect(r.Slot).To(BeNumerically("<", r.GroupBase+4))
				}
			}
		})
	})

	Describe("Statistics", func() {
		It("should count every access exactly once", func() {
			e := newEngine(4, 2, "4l")

			for i := uint64(0); i < 40; i++ {
				before := e.Stats()
				if i%3 == 0 {
					e.Store(i % 11)
				} else {
					e.Load(i % 11)
				}
				after := e.Stats()

				Expect(after.Accesses).To(Equal(before.Accesses + 1))
				Expect(after.Hits).To(BeNumerically("<=", after.Accesses))
				Expect(after.Hits + after.Misses).To(Equal(after.Accesses))
			}

			stats := e.Stats()
			Expect(stats.Loads + stats.Stores).To(Equal(stats.Accesses))
		})

		It("should report no accesses instead of a rate", func() {
			e := newEngine(4, 4, "1")

			_, err := e.HitRate()
			Expect(err).To(MatchError(cache.ErrNoAccesses))

			Expect(e.WriteHitRate(out)).To(MatchError(cache.ErrNoAccesses))
			Expect(out.String()).To(BeEmpty())
		})

		It("should print the hit rate as a percentage", func() {
			e := newEngine(4, 4, "1")
			e.Load(0)
			e.Load(1)

			Expect(e.WriteHitRate(out)).To(Succeed())
			Expect(out.String()).To(Equal("\nHit rate: 50.000000%\n"))
		})
	})

	Describe("Printing", func() {
		It("should print every slot without changing state", func() {
			e := newEngine(2, 2, "1")
			e.Load(3)

			slots := e.Slots()
			stats := e.Stats()

			Expect(e.WriteState(out)).To(Succeed())
			Expect(out.String()).To(Equal(
				"\nCache Contents:\n[ -- -- ]\n[ 2 3 ]\n"))

			Expect(e.WriteHitRate(out)).To(Succeed())
			Expect(e.Slots()).To(Equal(slots))
			Expect(e.Stats()).To(Equal(stats))
		})
	})

	Describe("Verbose mode", func() {
		It("should describe direct-mapped accesses", func() {
			e := newEngine(4, 4, "1")
			e.ToggleVerbose()

			e.Load(5)
			e.Store(5)

			Expect(out.String()).To(Equal(
				"A read to address 5 looked for word 1 in block 1 and was a miss.\n" +
					"A write to address 5 looked for word 1 in block 1 and was a hit.\n"))
		})

		It("should describe associative accesses by set", func() {
			e := newEngine(4, 4, "2l")
			e.SetVerbose(true)

			e.Load(4)

			Expect(out.String()).To(Equal(
				"A read to address 4 looked for word 0 in the set starting " +
					"with block 0 and was a miss.\n"))
		})

		It("should stay quiet when verbose is off", func() {
			e := newEngine(4, 4, "1")
			e.Load(5)
			Expect(e.Verbose()).To(BeFalse())
			Expect(out.String()).To(BeEmpty())
		})
	})

	Describe("Hooks", func() {
		It("should notify every hook after each access", func() {
			mockCtrl := gomock.NewController(GinkgoT())
			hook := NewMockAccessHook(mockCtrl)

			e := newEngine(4, 4, "1", cache.WithHook(hook))

			hook.EXPECT().OnAccess(gomock.Any()).Do(func(r cache.AccessResult) {
				Expect(r.Op).To(Equal(cache.OpStore))
				Expect(r.Address).To(Equal(uint64(9)))
				Expect(r.Hit).To(BeFalse())
			})
			e.Store(9)

			var seen []cache.AccessResult
			e.AddHook(cache.HookFunc(func(r cache.AccessResult) {
				seen = append(seen, r)
			}))
			hook.EXPECT().OnAccess(gomock.Any())
			e.Load(9)

			Expect(seen).To(HaveLen(1))
			Expect(seen[0].Hit).To(BeTrue())
			mockCtrl.Finish()
		})
	})
})
