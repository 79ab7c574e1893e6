package domain

import (
	"slices"
	"strings"
)

// DependencySet is an immutable, canonical set of source fragment identifiers.
// Identifiers are kept sorted and unique so that equal sets always encode identically.
type DependencySet struct {
	ids []string
}

// NewDependencySet creates a canonical set from the given identifiers.
// Empty identifiers are dropped.
func NewDependencySet(ids ...string) DependencySet {
	return DependencySet{ids: canonicalize(ids)}
}

// UnionDependencies returns the union of all given sets.
// It is order independent and idempotent, and never drops an identifier present in any operand.
func UnionDependencies(sets ...DependencySet) DependencySet {
	total := 0
	for _, s := range sets {
		total += len(s.ids)
	}
	merged := make([]string, 0, total)
	for _, s := range sets {
		merged = append(merged, s.ids...)
	}
	return DependencySet{ids: canonicalize(merged)}
}

// Union returns the union of the set with others.
func (d DependencySet) Union(others ...DependencySet) DependencySet {
	return UnionDependencies(append([]DependencySet{d}, others...)...)
}

// IDs returns a copy of the sorted identifiers.
func (d DependencySet) IDs() []string {
	return slices.Clone(d.ids)
}

// Len returns the number of identifiers.
func (d DependencySet) Len() int {
	return len(d.ids)
}

// Empty reports whether the set has no identifiers.
func (d DependencySet) Empty() bool {
	return len(d.ids) == 0
}

// Contains reports whether id is in the set.
func (d DependencySet) Contains(id string) bool {
	_, found := slices.BinarySearch(d.ids, id)
	return found
}

// ContainsAll reports whether every identifier of other is in the set.
func (d DependencySet) ContainsAll(other DependencySet) bool {
	for _, id := range other.ids {
		if !d.Contains(id) {
			return false
		}
	}
	return true
}

// Missing returns the identifiers of required that are not in the set.
func (d DependencySet) Missing(required DependencySet) []string {
	var missing []string
	for _, id := range required.ids {
		if !d.Contains(id) {
			missing = append(missing, id)
		}
	}
	return missing
}

// Equal reports whether both sets hold the same identifiers.
func (d DependencySet) Equal(other DependencySet) bool {
	return slices.Equal(d.ids, other.ids)
}

// String renders the set as a comma separated list.
func (d DependencySet) String() string {
	return strings.Join(d.ids, ",")
}

func canonicalize(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}

	sorted := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id != "" {
			sorted = append(sorted, id)
		}
	}
	slices.Sort(sorted)
	return slices.Compact(sorted)
}
