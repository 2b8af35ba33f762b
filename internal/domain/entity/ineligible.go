package entity

import (
	"sort"

	"coffer_scanner/internal/domain/value"
)

// IneligibilitySet holds normalized item names and item IDs that must never
// be published.
type IneligibilitySet struct {
	names map[string]struct{}
	ids   map[int64]struct{}
}

func NewIneligibilitySet() IneligibilitySet {
	return IneligibilitySet{
		names: make(map[string]struct{}),
		ids:   make(map[int64]struct{}),
	}
}

func (s IneligibilitySet) AddName(name string) {
	s.names[value.NormalizeName(name)] = struct{}{}
}

func (s IneligibilitySet) AddID(id int64) {
	s.ids[id] = struct{}{}
}

func (s IneligibilitySet) HasName(name string) bool {
	_, ok := s.names[value.NormalizeName(name)]
	return ok
}

func (s IneligibilitySet) HasID(id int64) bool {
	_, ok := s.ids[id]
	return ok
}

// Excludes reports whether the item is ineligible by ID or by name.
func (s IneligibilitySet) Excludes(item Item) bool {
	return s.HasID(item.ID) || s.HasName(item.Name)
}

// Names returns the normalized names in lexical order.
func (s IneligibilitySet) Names() []string {
	out := make([]string, 0, len(s.names))
	for n := range s.names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func (s IneligibilitySet) IDs() []int64 {
	out := make([]int64, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Len is the number of excluded names.
func (s IneligibilitySet) Len() int {
	return len(s.names)
}
