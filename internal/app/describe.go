package app

import (
	"context"
	"strings"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/engine/dispatcher"
	"go.trai.ch/zerr"
)

// Roles accepted by Describe.
const (
	RoleMatrix   = "matrix"
	RoleVector   = "vector"
	RoleOperator = "operator"
	RoleSolver   = "solver"
	RoleIndexSet = "indexset"
)

// DescribeOptions configuration for the Describe method.
type DescribeOptions struct {
	// Block is "RxC" or "N" for NxN. Vectors use the row count.
	Block string
	// Scalar is float64, float32 or empty for the default.
	Scalar string
	// Extra lists caller supplied dependencies of a solver factory.
	Extra []string
	// NoFastPath reports the generic path even for pre-built types.
	NoFastPath bool
}

// Describe prints how a request for role would be served, without building anything.
func (a *App) Describe(ctx context.Context, role string, opts DescribeOptions) (dispatcher.Plan, error) {
	d := a.dispatcher
	if opts.NoFastPath {
		d = d.WithoutFastPath()
	}

	req, err := a.request(ctx, d, role, opts)
	if err != nil {
		return dispatcher.Plan{}, err
	}

	plan, err := d.Describe(ctx, req)
	if err != nil {
		return dispatcher.Plan{}, err
	}

	a.printFields([][2]string{
		{"descriptor", plan.Descriptor.String()},
		{"role", plan.Descriptor.Role.String()},
		{"key", plan.Key.String()},
		{"fast path", yesNo(plan.FastPath)},
		{"cached", yesNo(plan.Cached)},
	})
	a.printList("dependencies", plan.Descriptor.Dependencies.IDs())
	a.printList("extra", plan.Extra.IDs())
	return plan, nil
}

// request builds the request for role. Operator and solver requests are derived from
// the descriptors of their operands, which are planned without building.
func (a *App) request(
	ctx context.Context,
	d *dispatcher.Dispatcher,
	role string,
	opts DescribeOptions,
) (domain.Request, error) {
	block := domain.ScalarBlock
	if opts.Block != "" {
		shape, err := domain.ParseBlockShape(opts.Block)
		if err != nil {
			return nil, err
		}
		block = shape
	}
	scalar, ok := domain.ParseScalarKind(opts.Scalar)
	if !ok {
		return nil, domain.NewUnsupportedShape(domain.RoleMatrix, "unknown scalar kind "+opts.Scalar)
	}

	matrix := domain.MatrixRequest{Block: &block, Scalar: scalar}
	switch strings.ToLower(role) {
	case RoleMatrix:
		return matrix, nil
	case RoleVector:
		return domain.VectorRequest{BlockSize: block.Rows, Scalar: scalar}, nil
	case RoleIndexSet:
		return domain.IndexSetRequest{}, nil
	case RoleOperator:
		return a.operatorRequest(ctx, d, matrix)
	case RoleSolver:
		op, err := a.operatorRequest(ctx, d, matrix)
		if err != nil {
			return nil, err
		}
		plan, err := d.Describe(ctx, op)
		if err != nil {
			return nil, err
		}
		return domain.SolverFactoryRequest{Operator: &plan.Descriptor, Extra: parseExtra(opts.Extra)}, nil
	default:
		err := zerr.With(zerr.Wrap(domain.ErrUnknownRole, "cannot describe"), "role", role)
		return nil, zerr.With(err, "known", strings.Join([]string{RoleMatrix, RoleVector, RoleOperator, RoleSolver, RoleIndexSet}, ","))
	}
}

func (a *App) operatorRequest(
	ctx context.Context,
	d *dispatcher.Dispatcher,
	matrix domain.MatrixRequest,
) (domain.OperatorRequest, error) {
	block := matrix.Shape()
	m, err := d.Describe(ctx, matrix)
	if err != nil {
		return domain.OperatorRequest{}, err
	}
	dom, err := d.Describe(ctx, domain.VectorRequest{BlockSize: block.Cols, Scalar: matrix.Scalar})
	if err != nil {
		return domain.OperatorRequest{}, err
	}
	req := domain.OperatorRequest{Matrix: m.Descriptor, Domain: dom.Descriptor}
	if block.Rows != block.Cols {
		rng, err := d.Describe(ctx, domain.VectorRequest{BlockSize: block.Rows, Scalar: matrix.Scalar})
		if err != nil {
			return domain.OperatorRequest{}, err
		}
		req.Range = &rng.Descriptor
	}
	return req, nil
}
