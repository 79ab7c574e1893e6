package domain

import "strings"

// ScalarKind is the field type stored in every block entry.
type ScalarKind uint8

const (
	// ScalarDefault is the unset value and resolves to ScalarFloat64.
	ScalarDefault ScalarKind = iota
	// ScalarFloat64 stores double precision entries.
	ScalarFloat64
	// ScalarFloat32 stores single precision entries.
	ScalarFloat32
)

// Normalize maps ScalarDefault to the concrete default kind.
func (s ScalarKind) Normalize() ScalarKind {
	if s == ScalarDefault {
		return ScalarFloat64
	}
	return s
}

// Valid reports whether the kind is known.
func (s ScalarKind) Valid() bool {
	return s <= ScalarFloat32
}

// String returns the name used inside descriptors.
func (s ScalarKind) String() string {
	switch s {
	case ScalarDefault:
		return "default"
	case ScalarFloat64:
		return "float64"
	case ScalarFloat32:
		return "float32"
	default:
		return "unknown"
	}
}

// ParseScalarKind parses a scalar name as accepted by the CLI.
// An empty string yields ScalarDefault.
func ParseScalarKind(s string) (ScalarKind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "default":
		return ScalarDefault, true
	case "float64", "double", "f64":
		return ScalarFloat64, true
	case "float32", "float", "f32":
		return ScalarFloat32, true
	default:
		return ScalarDefault, false
	}
}
