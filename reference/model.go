// Package reference provides a baseline cache model built on Akita's tag
// directory. It runs beside the engine and offers a second opinion on the hit
// rate of a trace.
package reference

import (
	akitacache "github.com/sarchlab/akita/v4/mem/cache"

	"github.com/sarchlab/cachesim/cache"
)

// Config holds reference model configuration parameters.
type Config struct {
	// NumSets is the number of sets in the directory.
	NumSets int
	// Associativity (number of ways)
	Associativity int
	// BlockSize is the line size in addressable words.
	BlockSize int
}

// ConfigFromGeometry derives a reference configuration holding the same
// number of lines as the geometry.
func ConfigFromGeometry(g cache.Geometry) Config {
	return Config{
		NumSets:       g.SetCount / g.Associativity,
		Associativity: g.Associativity,
		BlockSize:     g.LineSize,
	}
}

// Statistics holds reference model statistics.
type Statistics struct {
	Accesses  uint64
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// HitRate returns the percentage of accesses that hit.
func (s Statistics) HitRate() (float64, error) {
	if s.Accesses == 0 {
		return 0, cache.ErrNoAccesses
	}

	return 100 * float64(s.Hits) / float64(s.Accesses), nil
}

// Model is an LRU set-associative cache backed by an Akita directory.
//
// Akita maps a line to set (line / BlockSize) % NumSets, so conflicts differ
// from the engine's group mapping for associative geometries.
type Model struct {
	config    Config
	directory *akitacache.DirectoryImpl
	stats     Statistics
}

// New creates a reference model with the given configuration.
func New(config Config) *Model {
	return &Model{
		config: config,
		directory: akitacache.NewDirectory(
			config.NumSets,
			config.Associativity,
			config.BlockSize,
			akitacache.NewLRUVictimFinder(),
		),
	}
}

// Config returns the model configuration.
func (m *Model) Config() Config {
	return m.config
}

// Stats returns model statistics.
func (m *Model) Stats() Statistics {
	return m.stats
}

// Access looks up an address, installing its line on a miss. It returns
// whether the access hit.
func (m *Model) Access(addr uint64) bool {
	m.stats.Accesses++

	// Compute block-aligned address for lookup
	blockSize := uint64(m.config.BlockSize)
	blockAddr := (addr / blockSize) * blockSize

	block := m.directory.Lookup(0, blockAddr) // PID=0
	if block != nil && block.IsValid {
		m.stats.Hits++
		m.directory.Visit(block) // Update LRU
		return true
	}

	m.stats.Misses++

	victim := m.directory.FindVictim(blockAddr)
	if victim == nil {
		return false
	}

	if victim.IsValid {
		m.stats.Evictions++
	}

	victim.Tag = blockAddr
	victim.IsValid = true
	victim.IsDirty = false

	m.directory.Visit(victim)

	return false
}

// OnAccess feeds the model the address stream of an engine.
func (m *Model) OnAccess(result cache.AccessResult) {
	m.Access(result.Address)
}

// Reset invalidates all lines and clears statistics.
func (m *Model) Reset() {
	m.directory.Reset()
	m.stats = Statistics{}
}
