package domain

// Request is the sealed set of semantic parameter shapes a caller can ask for.
// Each role has exactly one request type.
type Request interface {
	Role() Role
	isRequest()
}

// MatrixRequest asks for a sparse block matrix type.
// A nil Block means the scalar 1x1 default.
type MatrixRequest struct {
	Block  *BlockShape
	Scalar ScalarKind
}

// Role implements Request.
func (MatrixRequest) Role() Role { return RoleMatrix }
func (MatrixRequest) isRequest() {}

// Normalize resolves defaults so every scalar request follows the same path.
func (r MatrixRequest) Normalize() MatrixRequest {
	block := ScalarBlock
	if r.Block != nil {
		block = *r.Block
	}
	return MatrixRequest{Block: &block, Scalar: r.Scalar.Normalize()}
}

// Shape returns the block shape, defaulting to 1x1.
func (r MatrixRequest) Shape() BlockShape {
	if r.Block == nil {
		return ScalarBlock
	}
	return *r.Block
}

// VectorRequest asks for a block vector type.
type VectorRequest struct {
	BlockSize int
	Scalar    ScalarKind
}

// Role implements Request.
func (VectorRequest) Role() Role { return RoleBlockVector }
func (VectorRequest) isRequest() {}

// Normalize resolves the default scalar kind.
func (r VectorRequest) Normalize() VectorRequest {
	return VectorRequest{BlockSize: r.BlockSize, Scalar: r.Scalar.Normalize()}
}

// OperatorRequest asks for a linear operator over an assembled matrix.
// Range defaults to Domain when nil.
type OperatorRequest struct {
	Matrix TypeDescriptor
	Domain TypeDescriptor
	Range  *TypeDescriptor
}

// Role implements Request.
func (OperatorRequest) Role() Role { return RoleOperator }
func (OperatorRequest) isRequest() {}

// RangeOrDomain returns the range descriptor, falling back to the domain.
func (r OperatorRequest) RangeOrDomain() TypeDescriptor {
	if r.Range == nil {
		return r.Domain
	}
	return *r.Range
}

// SolverFactoryRequest asks for a solver factory bound to an operator type.
// Extra names caller supplied source fragments that change the compiled factory.
type SolverFactoryRequest struct {
	Operator *TypeDescriptor
	Extra    DependencySet
}

// Role implements Request.
func (SolverFactoryRequest) Role() Role { return RoleSolverFactory }
func (SolverFactoryRequest) isRequest() {}

// IndexSetRequest asks for the sparsity pattern builder.
type IndexSetRequest struct{}

// Role implements Request.
func (IndexSetRequest) Role() Role { return RoleIndexSet }
func (IndexSetRequest) isRequest() {}
