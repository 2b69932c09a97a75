package cache

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Statistics holds the access counters of an engine.
type Statistics struct {
	Accesses  uint64
	Hits      uint64
	Misses    uint64
	Loads     uint64
	Stores    uint64
	Evictions uint64
}

// HitRate returns the percentage of accesses that hit.
func (s Statistics) HitRate() (float64, error) {
	if s.Accesses == 0 {
		return 0, ErrNoAccesses
	}

	return 100 * float64(s.Hits) / float64(s.Accesses), nil
}

// Option configures an Engine.
type Option func(*Engine)

// WithRandSource sets the randomness used by the random policy. A nil
// source is ignored.
func WithRandSource(src RandSource) Option {
	return func(e *Engine) {
		if src != nil {
			e.src = src
		}
	}
}

// WithSeed makes the random policy deterministic.
func WithSeed(seed uint64) Option {
	return func(e *Engine) {
		e.src = NewSeededSource(seed)
	}
}

// WithOutput sets where verbose lines are written. Default: os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(e *Engine) {
		e.out = w
	}
}

// WithHook registers a hook that observes every access.
func WithHook(h AccessHook) Option {
	return func(e *Engine) {
		e.hooks = append(e.hooks, h)
	}
}

// Engine simulates a cache grid. It is not safe for concurrent use.
type Engine struct {
	geometry Geometry
	org      Organization
	slots    []Slot
	policy   ReplacementPolicy
	src      RandSource
	stats    Statistics
	verbose  bool
	out      io.Writer
	hooks    []AccessHook
}

// New creates an engine with the given set count, line size and
// organization. The geometry is validated once here; accesses never fail.
func New(
	setCount, lineSize int,
	org Organization,
	opts ...Option,
) (*Engine, error) {
	g := org.Geometry(setCount, lineSize)
	if err := g.Validate(); err != nil {
		return nil, err
	}

	if err := org.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		geometry: g,
		org:      org,
		slots:    make([]Slot, g.SetCount),
		src:      globalSource{},
		out:      os.Stdout,
	}

	for _, opt := range opts {
		opt(e)
	}

	e.policy = newPolicy(org, g, e.src)

	return e, nil
}

// Geometry returns the geometry of the engine.
func (e *Engine) Geometry() Geometry {
	return e.geometry
}

// Organization returns the organization of the engine.
func (e *Engine) Organization() Organization {
	return e.org
}

// Policy returns the replacement policy, or nil for a direct-mapped cache.
func (e *Engine) Policy() ReplacementPolicy {
	return e.policy
}

// Stats returns a copy of the access counters.
func (e *Engine) Stats() Statistics {
	return e.stats
}

// Slots returns a copy of the grid.
func (e *Engine) Slots() []Slot {
	slots := make([]Slot, len(e.slots))
	copy(slots, e.slots)

	return slots
}

// AddHook registers a hook after construction.
func (e *Engine) AddHook(h AccessHook) {
	e.hooks = append(e.hooks, h)
}

// Verbose reports whether accesses are described on the output.
func (e *Engine) Verbose() bool {
	return e.verbose
}

// SetVerbose turns the access descriptions on or off.
func (e *Engine) SetVerbose(v bool) {
	e.verbose = v
}

// ToggleVerbose flips the verbose flag.
func (e *Engine) ToggleVerbose() {
	e.verbose = !e.verbose
}

// Load performs a read access.
func (e *Engine) Load(address uint64) AccessResult {
	e.stats.Loads++
	return e.access(OpLoad, address)
}

// Store performs a write access. It has the same effect on the grid as
// Load.
func (e *Engine) Store(address uint64) AccessResult {
	e.stats.Stores++
	return e.access(OpStore, address)
}

func (e *Engine) access(op Op, address uint64) AccessResult {
	base, word := e.geometry.GroupBase(address)
	group := e.group(base)

	e.stats.Accesses++

	_, hit := group.Find(address, word)
	if hit {
		e.stats.Hits++
	} else {
		e.stats.Misses++
	}

	result := AccessResult{
		Op:        op,
		Address:   address,
		GroupBase: base,
		Word:      word,
		Hit:       hit,
		Slot:      -1,
	}

	if slot, fill := e.choose(group, address, word); fill {
		e.fill(&result, slot)
	}

	if e.verbose {
		_, _ = fmt.Fprintln(e.out, result.Describe(e.geometry.DirectMapped()))
	}

	for _, h := range e.hooks {
		h.OnAccess(result)
	}

	return result
}

// choose returns the slot to fill. A direct-mapped cache always refills its
// single slot, even on a hit.
func (e *Engine) choose(group Group, address uint64, word int) (int, bool) {
	if e.policy == nil {
		return group.Base, true
	}

	return e.policy.Choose(group, address, word)
}

func (e *Engine) fill(result *AccessResult, slot int) {
	newBase := LineBase(result.Address, result.Word)

	if oldBase, resident := e.slots[slot].Base(); resident && oldBase != newBase {
		result.Evicted = true
		result.EvictedBase = oldBase
		e.stats.Evictions++
	}

	e.slots[slot] = ResidentSlot(newBase)
	result.Slot = slot
}

func (e *Engine) group(base int) Group {
	return Group{
		Base:  base,
		Slots: e.slots[base : base+e.geometry.Associativity],
	}
}

// HitRate returns the percentage of accesses that hit, or ErrNoAccesses.
func (e *Engine) HitRate() (float64, error) {
	return e.stats.HitRate()
}

// WriteHitRate prints the hit rate. It returns ErrNoAccesses, and writes
// nothing, when no access has been made.
func (e *Engine) WriteHitRate(w io.Writer) error {
	rate, err := e.HitRate()
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, "\nHit rate: %f%%\n", rate)

	return err
}

// WriteState prints the contents of every slot, one line per slot. Empty
// words are shown as "--".
func (e *Engine) WriteState(w io.Writer) error {
	var b strings.Builder

	b.WriteString("\nCache Contents:\n")

	for _, s := range e.slots {
		b.WriteString("[ ")

		if s.Empty() {
			b.WriteString(strings.Repeat("-- ", e.geometry.LineSize))
		}

		for addr := range s.Words(e.geometry.LineSize) {
			fmt.Fprintf(&b, "%d ", addr)
		}

		b.WriteString("]\n")
	}

	_, err := io.WriteString(w, b.String())

	return err
}
