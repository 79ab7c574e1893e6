// Package resolver maps semantic requests to canonical type descriptors.
package resolver

import (
	"strconv"

	"go.trai.ch/forge/internal/core/domain"
)

// Resolution is the outcome of resolving one request.
type Resolution struct {
	// Descriptor carries the minimal dependency set of its own role.
	Descriptor domain.TypeDescriptor
	// Operands holds the dependency sets contributed by the request's operands.
	Operands []domain.DependencySet
	// Extra holds caller supplied dependencies that change the compiled shape.
	Extra domain.DependencySet
}

// Resolver turns requests into descriptors. It is stateless.
type Resolver struct{}

// New creates a new Resolver.
func New() *Resolver {
	return &Resolver{}
}

// Resolve canonicalizes req. Every failure is a *domain.UnsupportedShapeError
// and happens before any build is attempted.
func (r *Resolver) Resolve(req domain.Request) (Resolution, error) {
	switch req := req.(type) {
	case domain.MatrixRequest:
		return resolveMatrix(req)
	case domain.VectorRequest:
		return resolveVector(req)
	case domain.OperatorRequest:
		return resolveOperator(req)
	case domain.SolverFactoryRequest:
		return resolveSolverFactory(req)
	case domain.IndexSetRequest:
		return resolveIndexSet()
	case nil:
		return Resolution{}, domain.NewUnsupportedShape(0, "nil request")
	default:
		return Resolution{}, domain.NewUnsupportedShape(req.Role(), "unknown request type")
	}
}

// Plan resolves req and aggregates the dependency sets of the descriptor and its operands
// into a build plan with a derived cache key.
func (r *Resolver) Plan(req domain.Request) (domain.BuildPlan, error) {
	res, err := r.Resolve(req)
	if err != nil {
		return domain.BuildPlan{}, err
	}
	deps := domain.UnionDependencies(append(res.Operands, res.Descriptor.Dependencies)...)
	return domain.NewBuildPlan(res.Descriptor.WithDependencies(deps), res.Extra), nil
}

func resolveMatrix(req domain.MatrixRequest) (Resolution, error) {
	req = req.Normalize()
	shape := req.Shape()
	if !shape.Positive() {
		return Resolution{}, domain.NewUnsupportedShape(domain.RoleMatrix,
			"block dimensions must be positive, got "+shape.String())
	}
	if !req.Scalar.Valid() {
		return Resolution{}, domain.NewUnsupportedShape(domain.RoleMatrix, "unknown scalar kind "+req.Scalar.String())
	}

	return Resolution{
		Descriptor: domain.TypeDescriptor{
			Role:         domain.RoleMatrix,
			Name:         domain.NewCanonicalName(domain.MatrixTypeName(shape, req.Scalar)),
			Block:        shape,
			Scalar:       req.Scalar,
			Dependencies: domain.BaseDependencies(domain.RoleMatrix),
		},
	}, nil
}

func resolveVector(req domain.VectorRequest) (Resolution, error) {
	req = req.Normalize()
	if req.BlockSize <= 0 {
		return Resolution{}, domain.NewUnsupportedShape(domain.RoleBlockVector,
			"block size must be positive, got "+strconv.Itoa(req.BlockSize))
	}
	if !req.Scalar.Valid() {
		return Resolution{}, domain.NewUnsupportedShape(domain.RoleBlockVector, "unknown scalar kind "+req.Scalar.String())
	}

	return Resolution{
		Descriptor: domain.TypeDescriptor{
			Role:         domain.RoleBlockVector,
			Name:         domain.NewCanonicalName(domain.VectorTypeName(req.BlockSize, req.Scalar)),
			Block:        domain.BlockShape{Rows: req.BlockSize, Cols: 1},
			Scalar:       req.Scalar,
			Dependencies: domain.BaseDependencies(domain.RoleBlockVector),
		},
	}, nil
}

func resolveOperator(req domain.OperatorRequest) (Resolution, error) {
	matrix, domainVec, rangeVec := req.Matrix, req.Domain, req.RangeOrDomain()

	switch {
	case matrix.Role != domain.RoleMatrix:
		return Resolution{}, domain.NewUnsupportedShape(domain.RoleOperator, "operand is not a matrix")
	case domainVec.Role != domain.RoleBlockVector:
		return Resolution{}, domain.NewUnsupportedShape(domain.RoleOperator, "domain is not a block vector")
	case rangeVec.Role != domain.RoleBlockVector:
		return Resolution{}, domain.NewUnsupportedShape(domain.RoleOperator, "range is not a block vector")
	case matrix.Block.Cols != domainVec.Block.Rows:
		return Resolution{}, domain.NewUnsupportedShape(domain.RoleOperator,
			"matrix block columns "+strconv.Itoa(matrix.Block.Cols)+
				" do not match domain block size "+strconv.Itoa(domainVec.Block.Rows))
	case matrix.Block.Rows != rangeVec.Block.Rows:
		return Resolution{}, domain.NewUnsupportedShape(domain.RoleOperator,
			"matrix block rows "+strconv.Itoa(matrix.Block.Rows)+
				" do not match range block size "+strconv.Itoa(rangeVec.Block.Rows))
	case matrix.Scalar != domainVec.Scalar || matrix.Scalar != rangeVec.Scalar:
		return Resolution{}, domain.NewUnsupportedShape(domain.RoleOperator, "operands mix scalar kinds")
	}

	return Resolution{
		Descriptor: domain.TypeDescriptor{
			Role:         domain.RoleOperator,
			Name:         domain.NewCanonicalName(domain.OperatorTypeName(matrix.String(), domainVec.String(), rangeVec.String())),
			Block:        matrix.Block,
			Scalar:       matrix.Scalar,
			Operands:     []domain.TypeDescriptor{matrix, domainVec, rangeVec},
			Dependencies: domain.BaseDependencies(domain.RoleOperator),
		},
		Operands: []domain.DependencySet{matrix.Dependencies, domainVec.Dependencies, rangeVec.Dependencies},
	}, nil
}

func resolveSolverFactory(req domain.SolverFactoryRequest) (Resolution, error) {
	if req.Operator == nil || req.Operator.IsZero() {
		return Resolution{}, domain.NewUnsupportedShape(domain.RoleSolverFactory, "an operator is required")
	}
	op := *req.Operator
	if op.Role != domain.RoleOperator {
		return Resolution{}, domain.NewUnsupportedShape(domain.RoleSolverFactory,
			"operand is a "+op.Role.String()+", not an operator")
	}
	if !op.Block.Square() {
		return Resolution{}, domain.NewUnsupportedShape(domain.RoleSolverFactory,
			"operator blocks must be square, got "+op.Block.String())
	}

	return Resolution{
		Descriptor: domain.TypeDescriptor{
			Role:         domain.RoleSolverFactory,
			Name:         domain.NewCanonicalName(domain.SolverFactoryTypeName(op.String())),
			Block:        op.Block,
			Scalar:       op.Scalar,
			Operands:     []domain.TypeDescriptor{op},
			Dependencies: domain.BaseDependencies(domain.RoleSolverFactory),
		},
		Operands: []domain.DependencySet{op.Dependencies},
		Extra:    req.Extra,
	}, nil
}

func resolveIndexSet() (Resolution, error) {
	return Resolution{
		Descriptor: domain.TypeDescriptor{
			Role:         domain.RoleIndexSet,
			Name:         domain.NewCanonicalName(domain.IndexSetTypeName),
			Dependencies: domain.BaseDependencies(domain.RoleIndexSet),
		},
	}, nil
}
