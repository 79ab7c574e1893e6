package domain

// Role identifies which kind of native object a descriptor instantiates.
type Role uint8

const (
	// RoleMatrix is a block compressed row storage sparse matrix.
	RoleMatrix Role = iota + 1
	// RoleBlockVector is a vector of fixed-size blocks.
	RoleBlockVector
	// RoleOperator is a linear operator wrapping an assembled matrix.
	RoleOperator
	// RoleSolverFactory creates inverse operators for one operator type.
	RoleSolverFactory
	// RoleIndexSet collects a sparsity pattern before a matrix is allocated.
	RoleIndexSet
)

// String returns the role name used in logs and CLI output.
func (r Role) String() string {
	switch r {
	case RoleMatrix:
		return "matrix"
	case RoleBlockVector:
		return "block-vector"
	case RoleOperator:
		return "operator"
	case RoleSolverFactory:
		return "solver-factory"
	case RoleIndexSet:
		return "index-set"
	default:
		return "unknown"
	}
}

// keyPrefix is the stable cache key prefix for the role.
func (r Role) keyPrefix() string {
	switch r {
	case RoleMatrix:
		return "bcrsmatrix"
	case RoleBlockVector:
		return "blockvector"
	case RoleOperator:
		return "matrixadapter"
	case RoleSolverFactory:
		return "solverfactory"
	case RoleIndexSet:
		return "matrixindexset"
	default:
		return "unknown"
	}
}
