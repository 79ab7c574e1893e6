package native

import (
	"io"
	"strconv"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

// Artifact is a loaded instantiation for one descriptor.
type Artifact struct {
	key       domain.CacheKey
	desc      domain.TypeDescriptor
	construct func(args ...any) (any, error)
}

var _ ports.Artifact = (*Artifact)(nil)

// Key returns the cache key the artifact was built for.
func (a *Artifact) Key() domain.CacheKey { return a.key }

// Descriptor returns the descriptor including its aggregated dependencies.
func (a *Artifact) Descriptor() domain.TypeDescriptor { return a.desc }

// Construct creates a new, independent instance.
//
//   - matrix: no arguments, or one domain.MatrixLayout
//   - block vector: block count and optional initial scalars ([]float64)
//   - operator: the ports.Matrix to share
//   - solver factory: no arguments
//   - index set: block rows and block columns
func (a *Artifact) Construct(args ...any) (any, error) {
	return a.construct(args...)
}

// instantiate loads the generic implementation matching the plan's scalar kind.
func instantiate(plan domain.BuildPlan, out io.Writer) (*Artifact, error) {
	switch plan.Descriptor.Scalar.Normalize() {
	case domain.ScalarFloat32:
		return instantiateFor[float32](plan, out)
	default:
		return instantiateFor[float64](plan, out)
	}
}

func instantiateFor[T Float](plan domain.BuildPlan, out io.Writer) (*Artifact, error) {
	desc := plan.Descriptor
	a := &Artifact{key: plan.Key, desc: desc}

	switch desc.Role {
	case domain.RoleMatrix:
		a.construct = func(args ...any) (any, error) { return constructMatrix[T](desc, args) }
	case domain.RoleBlockVector:
		a.construct = func(args ...any) (any, error) { return constructVector[T](desc, args) }
	case domain.RoleOperator:
		a.construct = func(args ...any) (any, error) {
			if len(args) != 1 {
				return nil, argCountError(desc, len(args), "1")
			}
			m, ok := args[0].(ports.Matrix)
			if !ok {
				return nil, argTypeError(desc, 0, "ports.Matrix")
			}
			return newMatrixAdapter[T](desc, m)
		}
	case domain.RoleSolverFactory:
		a.construct = func(args ...any) (any, error) {
			if len(args) != 0 {
				return nil, argCountError(desc, len(args), "0")
			}
			return &SolverFactory[T]{desc: desc, out: out}, nil
		}
	case domain.RoleIndexSet:
		a.construct = func(args ...any) (any, error) {
			if len(args) != 2 {
				return nil, argCountError(desc, len(args), "2")
			}
			rows, ok := args[0].(int)
			if !ok {
				return nil, argTypeError(desc, 0, "int")
			}
			cols, ok := args[1].(int)
			if !ok {
				return nil, argTypeError(desc, 1, "int")
			}
			return newIndexSet(desc, rows, cols)
		}
	default:
		return nil, zerr.With(zerr.Wrap(domain.ErrUnknownRole, "cannot instantiate descriptor"), "role", desc.Role.String())
	}
	return a, nil
}

func constructMatrix[T Float](desc domain.TypeDescriptor, args []any) (*BCRSMatrix[T], error) {
	m := newBCRSMatrix[T](desc)
	switch len(args) {
	case 0:
		return m, nil
	case 1:
		layout, ok := args[0].(domain.MatrixLayout)
		if !ok {
			return nil, argTypeError(desc, 0, "domain.MatrixLayout")
		}
		avg := layout.AvgNonZeros
		if avg == 0 {
			avg = domain.DefaultAvgNonZeros
		}
		if err := m.SetImplicitBuildModeParameters(avg, layout.Overflow); err != nil {
			return nil, err
		}
		if err := m.SetSize(layout.Rows, layout.Cols); err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, argCountError(desc, len(args), "0 or 1")
	}
}

func constructVector[T Float](desc domain.TypeDescriptor, args []any) (*BlockVector[T], error) {
	if len(args) == 0 || len(args) > 2 {
		return nil, argCountError(desc, len(args), "1 or 2")
	}
	size, ok := args[0].(int)
	if !ok {
		return nil, argTypeError(desc, 0, "int")
	}
	if size < 0 {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidArgument, "vector size must not be negative"), "size", size)
	}

	v := newBlockVector[T](desc, size)
	if len(args) == 1 || args[1] == nil {
		return v, nil
	}
	initial, ok := args[1].([]float64)
	if !ok {
		return nil, argTypeError(desc, 1, "[]float64")
	}
	if len(initial) == 0 {
		return v, nil
	}
	if len(initial) != len(v.data) {
		return nil, sizeError(len(initial), len(v.data))
	}
	for i, x := range initial {
		v.data[i] = T(x)
	}
	return v, nil
}

func argCountError(desc domain.TypeDescriptor, got int, want string) error {
	err := zerr.Wrap(domain.ErrInvalidArgument, "expected "+want+" construction arguments, got "+strconv.Itoa(got))
	return zerr.With(err, "descriptor", desc.String())
}

func argTypeError(desc domain.TypeDescriptor, i int, want string) error {
	err := zerr.Wrap(domain.ErrInvalidArgument, "argument "+strconv.Itoa(i)+" must be "+want)
	return zerr.With(err, "descriptor", desc.String())
}
