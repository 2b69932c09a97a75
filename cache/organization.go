package cache

import "fmt"

// Replacement identifies how a full group picks the slot to evict.
type Replacement int

const (
	// DirectMapped has one slot per group, so there is nothing to choose.
	DirectMapped Replacement = iota
	// RandomReplacement evicts a uniformly random slot of the group.
	RandomReplacement
	// LRUReplacement evicts the least recently used slot of the group.
	LRUReplacement
)

func (r Replacement) String() string {
	switch r {
	case DirectMapped:
		return "direct-mapped"
	case RandomReplacement:
		return "random"
	case LRUReplacement:
		return "lru"
	default:
		return fmt.Sprintf("Replacement(%d)", int(r))
	}
}

// Organization is one of the supported cache organizations.
type Organization struct {
	Associativity int
	Replacement   Replacement
}

var organizations = map[string]Organization{
	"1":  {Associativity: 1, Replacement: DirectMapped},
	"2r": {Associativity: 2, Replacement: RandomReplacement},
	"2l": {Associativity: 2, Replacement: LRUReplacement},
	"4r": {Associativity: 4, Replacement: RandomReplacement},
	"4l": {Associativity: 4, Replacement: LRUReplacement},
}

// OrganizationCodes lists the codes accepted by ParseOrganization.
var OrganizationCodes = []string{"1", "2r", "2l", "4r", "4l"}

// ParseOrganization converts an organization code (1, 2r, 2l, 4r, 4l) into
// an Organization.
func ParseOrganization(code string) (Organization, error) {
	org, ok := organizations[code]
	if !ok {
		return Organization{}, &UnknownOrganizationError{Code: code}
	}

	return org, nil
}

// String returns the organization code.
func (o Organization) String() string {
	switch o.Replacement {
	case DirectMapped:
		return "1"
	case RandomReplacement:
		return fmt.Sprintf("%dr", o.Associativity)
	case LRUReplacement:
		return fmt.Sprintf("%dl", o.Associativity)
	default:
		return "?"
	}
}

// Validate checks that the replacement fits the associativity. Only groups
// of a single slot are direct-mapped, and only those have no policy.
func (o Organization) Validate() error {
	switch o.Replacement {
	case DirectMapped:
		if o.Associativity != 1 {
			return &ConfigError{
				Field:  "associativity",
				Value:  o.Associativity,
				Reason: "is not 1 for a direct-mapped cache",
			}
		}
	case RandomReplacement, LRUReplacement:
		if o.Associativity < 2 {
			return &ConfigError{
				Field:  "associativity",
				Value:  o.Associativity,
				Reason: "needs at least 2 slots for " + o.Replacement.String() + " replacement",
			}
		}
	default:
		return &ConfigError{
			Field:  "replacement",
			Value:  int(o.Replacement),
			Reason: "is not a known policy",
		}
	}

	return nil
}

// Geometry combines the organization with a set count and a line size.
func (o Organization) Geometry(setCount, lineSize int) Geometry {
	return Geometry{
		SetCount:      setCount,
		LineSize:      lineSize,
		Associativity: o.Associativity,
	}
}
