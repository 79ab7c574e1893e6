package domain

import "unique"

// CanonicalName is an interned canonical type name.
// Two names are equal with == exactly when their strings are equal, so descriptor
// comparison never touches the string bytes.
type CanonicalName struct {
	h unique.Handle[string]
}

// NewCanonicalName interns s.
func NewCanonicalName(s string) CanonicalName {
	return CanonicalName{h: unique.Make(s)}
}

// String returns the name, or "" for the zero value.
func (n CanonicalName) String() string {
	if n.IsZero() {
		return ""
	}
	return n.h.Value()
}

// IsZero reports whether the name was never set.
func (n CanonicalName) IsZero() bool {
	return n == CanonicalName{}
}
