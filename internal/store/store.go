// Package store implements the Entries Storage: a per-file deduplicating
// collector that keeps, for each distinct declaration identity, whichever
// candidate carries the most information. DWARF frequently emits the same
// class more than once (once per translation unit that includes its
// header); only the richest copy should survive into the rendered output.
package store

import "github.com/adikso/dwarfdecl/internal/utils"

// Entry is implemented by the renderer's wrapper types (CPPClass,
// CPPStruct, CPPUnion, ...), never by the raw model types — classes are
// deduplicated after being converted to their rendered form, matching how
// the conversion step itself decides which nested members to keep.
type Entry interface {
	// ID identifies what this entry represents, independent of how
	// completely it was filled in. Two entries with the same ID are
	// considered the same declaration.
	ID() string

	// FillValue ranks how complete this entry is; given two entries
	// with equal ID, Storage keeps whichever has the larger FillValue.
	FillValue() int
}

// Storage keeps one entry per ID, in first-seen order, replacing the kept
// entry only when a later candidate strictly outranks it.
type Storage[T Entry] struct {
	order []string
	byID  map[string]T
}

// New creates an empty Storage.
func New[T Entry]() *Storage[T] {
	return &Storage[T]{byID: make(map[string]T)}
}

// Send offers entry to the storage. It is kept if no prior entry shares its
// ID, or discarded in favor of whichever of the two has the higher
// FillValue.
func (s *Storage[T]) Send(entry T) {
	id := entry.ID()

	prev, exists := s.byID[id]
	if !exists {
		s.byID[id] = entry
		s.order = append(s.order, id)
		return
	}

	if prev.FillValue() < entry.FillValue() {
		s.byID[id] = entry
	}
}

// Len reports how many distinct entries are stored.
func (s *Storage[T]) Len() int {
	return len(s.order)
}

// Entries returns the stored entries in the order their IDs were first
// seen.
func (s *Storage[T]) Entries() []T {
	return utils.Map(s.order, func(id string) T { return s.byID[id] })
}
