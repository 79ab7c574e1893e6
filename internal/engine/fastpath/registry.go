// Package fastpath holds the table of pre-built artifacts for the scalar default shapes.
package fastpath

import (
	"sync"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

// Registry maps each role to its pre-built scalar artifact.
// There is at most one entry per role, for 1x1 blocks and the default scalar kind.
type Registry struct {
	mu      sync.RWMutex
	entries map[domain.Role]ports.Artifact
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[domain.Role]ports.Artifact)}
}

// Register adds a pre-built artifact. Its descriptor must denote the scalar default shape.
func (r *Registry) Register(artifact ports.Artifact) error {
	desc := artifact.Descriptor()
	if !isScalarDefault(desc) {
		return zerr.With(zerr.Wrap(domain.ErrInvalidArgument, "fast path entries must use 1x1 blocks and the default scalar"),
			"descriptor", desc.String())
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.entries[desc.Role]; ok {
		err := zerr.With(zerr.Wrap(domain.ErrDuplicateFastPath, "role already has a fast path"), "role", desc.Role.String())
		return zerr.With(err, "existing", existing.Key().String())
	}
	r.entries[desc.Role] = artifact
	return nil
}

// Lookup returns the pre-built artifact serving req, if any.
// It applies the same normalisation as the resolver, so an explicit 1x1 request and the default both match.
func (r *Registry) Lookup(req domain.Request) (ports.Artifact, bool) {
	if req == nil {
		return nil, false
	}

	r.mu.RLock()
	entry, ok := r.entries[req.Role()]
	r.mu.RUnlock()
	if !ok {
		return nil, false
	}

	switch req := req.(type) {
	case domain.MatrixRequest:
		req = req.Normalize()
		ok = req.Shape() == domain.ScalarBlock && req.Scalar == domain.ScalarFloat64
	case domain.VectorRequest:
		req = req.Normalize()
		ok = req.BlockSize == 1 && req.Scalar == domain.ScalarFloat64
	case domain.OperatorRequest:
		ok = operandsMatch(entry.Descriptor(), req.Matrix, req.Domain, req.RangeOrDomain())
	case domain.SolverFactoryRequest:
		ok = req.Operator != nil && req.Extra.Empty() && operandsMatch(entry.Descriptor(), *req.Operator)
	default:
		ok = false
	}

	if !ok {
		return nil, false
	}
	return entry, true
}

// Len returns the number of registered entries.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

func operandsMatch(desc domain.TypeDescriptor, operands ...domain.TypeDescriptor) bool {
	if len(desc.Operands) != len(operands) {
		return false
	}
	for i, want := range desc.Operands {
		got := operands[i]
		if got.Role != want.Role || !got.SameType(want) || !got.Dependencies.Equal(want.Dependencies) {
			return false
		}
	}
	return true
}

func isScalarDefault(desc domain.TypeDescriptor) bool {
	return desc.Block == domain.ScalarBlock && desc.Scalar == domain.ScalarFloat64
}
