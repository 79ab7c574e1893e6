package domain

import (
	"strconv"
	"strings"
)

// Source fragments a descriptor can depend on.
const (
	DepBCRSMatrix      = "istl/bcrsmatrix"
	DepFieldMatrix     = "common/fmatrix"
	DepBlockVector     = "istl/bvector"
	DepFieldVector     = "common/fvector"
	DepOperators       = "istl/operators"
	DepSolverFactory   = "istl/solverfactory"
	DepSolvers         = "istl/solvers"
	DepPreconditioners = "istl/preconditioners"
	DepMatrixIndexSet  = "istl/matrixindexset"
)

// TypeDescriptor canonically identifies one native type.
// Name is produced from a fixed template per role, so equal shapes always yield identical names.
type TypeDescriptor struct {
	Role   Role
	Name   CanonicalName
	Block  BlockShape
	Scalar ScalarKind
	// Operands holds the descriptors a composite type is parameterized on:
	// matrix, domain and range for operators, the operator for solver factories.
	Operands     []TypeDescriptor
	Dependencies DependencySet
}

// String returns the canonical name.
func (d TypeDescriptor) String() string {
	return d.Name.String()
}

// IsZero reports whether the descriptor is unset.
func (d TypeDescriptor) IsZero() bool {
	return d.Role == 0 && d.Name.IsZero()
}

// SameType reports whether both descriptors name the same native type.
func (d TypeDescriptor) SameType(other TypeDescriptor) bool {
	return d.Name == other.Name
}

// WithDependencies returns a copy carrying deps.
func (d TypeDescriptor) WithDependencies(deps DependencySet) TypeDescriptor {
	d.Dependencies = deps
	return d
}

// Operand returns the i-th operand descriptor, or false if absent.
func (d TypeDescriptor) Operand(i int) (TypeDescriptor, bool) {
	if i < 0 || i >= len(d.Operands) {
		return TypeDescriptor{}, false
	}
	return d.Operands[i], true
}

// MatrixTypeName renders the canonical matrix type name.
func MatrixTypeName(block BlockShape, scalar ScalarKind) string {
	var b strings.Builder
	b.WriteString("bcrs_matrix<field_matrix<")
	b.WriteString(scalar.Normalize().String())
	b.WriteString(",")
	b.WriteString(strconv.Itoa(block.Rows))
	b.WriteString(",")
	b.WriteString(strconv.Itoa(block.Cols))
	b.WriteString(">>")
	return b.String()
}

// VectorTypeName renders the canonical block vector type name.
func VectorTypeName(blockSize int, scalar ScalarKind) string {
	var b strings.Builder
	b.WriteString("block_vector<field_vector<")
	b.WriteString(scalar.Normalize().String())
	b.WriteString(",")
	b.WriteString(strconv.Itoa(blockSize))
	b.WriteString(">>")
	return b.String()
}

// OperatorTypeName renders the canonical matrix adapter name from its operand names.
func OperatorTypeName(matrix, domain, rng string) string {
	return "matrix_adapter<" + matrix + "," + domain + "," + rng + ">"
}

// SolverFactoryTypeName renders the canonical solver factory name from its operator name.
func SolverFactoryTypeName(operator string) string {
	return "solver_factory<" + operator + ">"
}

// IndexSetTypeName is the canonical name of the sparsity pattern builder.
const IndexSetTypeName = "matrix_index_set"

// BaseDependencies returns the minimal dependency set a role requires on its own,
// excluding anything contributed by operands.
func BaseDependencies(role Role) DependencySet {
	switch role {
	case RoleMatrix:
		return NewDependencySet(DepBCRSMatrix, DepFieldMatrix)
	case RoleBlockVector:
		return NewDependencySet(DepBlockVector, DepFieldVector)
	case RoleOperator:
		return NewDependencySet(DepOperators)
	case RoleSolverFactory:
		return NewDependencySet(DepSolverFactory, DepSolvers, DepPreconditioners)
	case RoleIndexSet:
		return NewDependencySet(DepMatrixIndexSet)
	default:
		return DependencySet{}
	}
}
