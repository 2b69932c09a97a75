package benchmarks

import (
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/sarchlab/cachesim/cache"
)

// DefaultLoops are the loop sizes swept when none are configured.
var DefaultLoops = []int{10, 20, 30, 50, 80, 100, 150, 200, 250, 300}

// SweepConfig describes the cache under study and the loop sizes to sweep.
type SweepConfig struct {
	// SetCount is the number of slots in the cache. Default: 16.
	SetCount int `yaml:"set_count" json:"set_count"`

	// LineSize is the number of words per line. Default: 4.
	LineSize int `yaml:"line_size" json:"line_size"`

	// Organization is one of 1, 2r, 2l, 4r, 4l. Default: 1.
	Organization string `yaml:"organization" json:"organization"`

	// Loops are the loop sizes of the generated traces.
	Loops []int `yaml:"loops" json:"loops"`

	// Seed makes random replacement reproducible across runs.
	Seed uint64 `yaml:"seed" json:"seed"`

	// Reference also runs the Akita reference model on every trace.
	Reference bool `yaml:"reference" json:"reference"`
}

// DefaultSweepConfig returns a small direct-mapped cache swept over
// DefaultLoops.
func DefaultSweepConfig() *SweepConfig {
	return &SweepConfig{
		SetCount:     16,
		LineSize:     4,
		Organization: "1",
		Loops:        slices.Clone(DefaultLoops),
		Seed:         1,
	}
}

// LoadSweepConfig loads a SweepConfig from a YAML file. Fields missing from
// the file keep their default values.
func LoadSweepConfig(path string) (*SweepConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sweep config file: %w", err)
	}

	config := DefaultSweepConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse sweep config: %w", err)
	}

	return config, nil
}

// Save writes the SweepConfig to a YAML file.
func (c *SweepConfig) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to serialize sweep config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write sweep config file: %w", err)
	}

	return nil
}

// Validate checks that the cache can be built and the loop sizes are usable.
func (c *SweepConfig) Validate() error {
	org, err := cache.ParseOrganization(c.Organization)
	if err != nil {
		return err
	}

	if err := org.Geometry(c.SetCount, c.LineSize).Validate(); err != nil {
		return err
	}

	if len(c.Loops) == 0 {
		return fmt.Errorf("loops must not be empty")
	}

	for _, loop := range c.Loops {
		if loop <= 0 {
			return fmt.Errorf("loop size %d must be > 0", loop)
		}
	}

	return nil
}

// Clone returns a deep copy of the SweepConfig.
func (c *SweepConfig) Clone() *SweepConfig {
	clone := *c
	clone.Loops = slices.Clone(c.Loops)

	return &clone
}
