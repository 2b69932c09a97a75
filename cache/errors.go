package cache

import (
	"errors"
	"fmt"
)

// ErrNoAccesses is returned when a hit rate is requested before any access
// has been recorded.
var ErrNoAccesses = errors.New("no accesses yet")

// ConfigError reports a geometry that cannot be simulated.
type ConfigError struct {
	Field  string
	Value  int
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s %d %s", e.Field, e.Value, e.Reason)
}

// UnknownOrganizationError reports an organization code outside the
// supported set.
type UnknownOrganizationError struct {
	Code string
}

func (e *UnknownOrganizationError) Error() string {
	return fmt.Sprintf("invalid cache type: %q", e.Code)
}
