package event

import "strings"

// NormalizeName collapses whitespace runs, trims and lower-cases a name.
// Two events are the same event when their normalized names are equal.
func NormalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// NameSet is a set of normalized event names
type NameSet map[string]struct{}

// NewNameSet creates a set holding the normalized form of each non-empty name
func NewNameSet(names ...string) NameSet {
	set := make(NameSet, len(names))
	for _, n := range names {
		set.Add(n)
	}
	return set
}

// Add normalizes name and inserts it. Empty names are ignored.
// Returns false if the name was already present or empty.
func (s NameSet) Add(name string) bool {
	key := NormalizeName(name)
	if key == "" {
		return false
	}
	if _, exists := s[key]; exists {
		return false
	}
	s[key] = struct{}{}
	return true
}

// Contains reports whether the normalized form of name is in the set
func (s NameSet) Contains(name string) bool {
	if s == nil {
		return false
	}
	_, ok := s[NormalizeName(name)]
	return ok
}
