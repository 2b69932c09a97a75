package cache

import "fmt"

// Op distinguishes loads from stores.
type Op int

const (
	// OpLoad is a read access.
	OpLoad Op = iota
	// OpStore is a write access.
	OpStore
)

func (o Op) String() string {
	if o == OpStore {
		return "store"
	}

	return "load"
}

// verb is the word used in verbose descriptions.
func (o Op) verb() string {
	if o == OpStore {
		return "write"
	}

	return "read"
}

// AccessResult describes the outcome of a single load or store.
type AccessResult struct {
	Op      Op
	Address uint64
	// GroupBase is the first slot of the group the address maps to.
	GroupBase int
	// Word is the offset of the address inside its line.
	Word int
	Hit  bool
	// Slot is the slot that was (re)filled, or -1 if no slot changed.
	Slot int
	// Evicted is true when the fill replaced a different line.
	Evicted     bool
	EvictedBase uint64
}

// Filled reports whether the access wrote a line into a slot.
func (r AccessResult) Filled() bool {
	return r.Slot >= 0
}

// Outcome returns "hit" or "miss".
func (r AccessResult) Outcome() string {
	if r.Hit {
		return "hit"
	}

	return "miss"
}

// Describe formats the access the way verbose mode prints it.
func (r AccessResult) Describe(directMapped bool) string {
	if directMapped {
		return fmt.Sprintf(
			"A %s to address %d looked for word %d in block %d and was a %s.",
			r.Op.verb(), r.Address, r.Word, r.GroupBase, r.Outcome())
	}

	return fmt.Sprintf(
		"A %s to address %d looked for word %d in the set starting with "+
			"block %d and was a %s.",
		r.Op.verb(), r.Address, r.Word, r.GroupBase, r.Outcome())
}

// AccessHook observes every access performed by an Engine.
type AccessHook interface {
	OnAccess(result AccessResult)
}

// HookFunc adapts a function to the AccessHook interface.
type HookFunc func(result AccessResult)

// OnAccess calls f.
func (f HookFunc) OnAccess(result AccessResult) {
	f(result)
}
