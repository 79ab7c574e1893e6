package native

import (
	"io"
	"maps"
	"slices"
	"strings"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

// SolverFactory creates inverse operators for one operator type.
// The configuration is read on every call, so one factory serves any number of configurations.
type SolverFactory[T Float] struct {
	desc domain.TypeDescriptor
	out  io.Writer
}

var _ ports.SolverFactory = (*SolverFactory[float64])(nil)

// Descriptor implements ports.Typed.
func (f *SolverFactory[T]) Descriptor() domain.TypeDescriptor { return f.desc }

// Get creates the inverse operator described by config for op.
// Unrecognized keys are ignored.
func (f *SolverFactory[T]) Get(op ports.LinearOperator, config domain.SolverConfig) (ports.InverseOperator, error) {
	adapter, ok := op.(*MatrixAdapter[T])
	if !ok || adapter == nil {
		return nil, zerr.Wrap(domain.ErrInvalidArgument, "solver factory requires an operator of its own scalar type")
	}
	if want, ok := f.desc.Operand(0); ok && !adapter.Descriptor().SameType(want) {
		err := zerr.Wrap(domain.ErrInvalidArgument, "operator type does not match the solver factory")
		return nil, zerr.With(zerr.With(err, "operator", adapter.Descriptor().String()), "want", want.String())
	}

	typ, err := config.RequiredType()
	if err != nil {
		return nil, err
	}
	run, ok := methods[T]()[typ]
	if !ok {
		err := zerr.With(zerr.Wrap(domain.ErrUnknownSolver, "cannot create solver"), "type", typ)
		return nil, zerr.With(err, "known", strings.Join(SolverTypes(), ","))
	}

	reduction, err := config.Reduction()
	if err != nil {
		return nil, err
	}
	maxit, err := config.MaxIterations()
	if err != nil {
		return nil, err
	}
	verbose, err := config.Verbose()
	if err != nil {
		return nil, err
	}
	restart, err := config.Int(domain.KeyRestart, DefaultRestart)
	if err != nil {
		return nil, err
	}
	if restart <= 0 {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidSolverConfig, "restart must be positive"), "restart", restart)
	}

	precConfig, hasPrec := config.Sub(domain.KeyPreconditioner)
	if config.Has(domain.KeyPreconditioner) && !hasPrec {
		return nil, zerr.Wrap(domain.ErrInvalidSolverConfig, "preconditioner must be a nested configuration")
	}
	prec, err := newPreconditioner(adapter.matrix, precConfig)
	if err != nil {
		return nil, err
	}

	out := f.out
	if out == nil {
		out = io.Discard
	}
	return &InverseOperator[T]{
		desc:      f.desc,
		name:      typ,
		op:        adapter,
		prec:      prec,
		run:       run,
		reduction: reduction,
		maxit:     maxit,
		verbose:   verbose,
		restart:   restart,
		out:       out,
	}, nil
}

// SolverTypes returns the accepted solver type names in sorted order.
func SolverTypes() []string {
	return slices.Sorted(maps.Keys(methods[float64]()))
}

// PreconditionerTypes returns the accepted preconditioner type names in sorted order.
func PreconditionerTypes() []string {
	return []string{PrecGaussSeidel, PrecJacobi, PrecRichardson, PrecSOR, PrecSSOR}
}
