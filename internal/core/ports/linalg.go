package ports

import "go.trai.ch/forge/internal/core/domain"

// Typed is implemented by every instance an artifact constructs.
// The descriptor replaces any need to probe instances for type information.
type Typed interface {
	Descriptor() domain.TypeDescriptor
}

// BlockVector is a vector of fixed-size blocks.
// Scalar indices address the flattened vector.
type BlockVector interface {
	Typed
	// N returns the number of blocks.
	N() int
	// BlockSize returns the number of scalars per block.
	BlockSize() int
	// Dim returns the number of scalars.
	Dim() int
	// At returns the scalar at index i.
	At(i int) float64
	// SetAt sets the scalar at index i.
	SetAt(i int, v float64) error
	// Block returns a copy of block i.
	Block(i int) []float64
	// SetBlock overwrites block i.
	SetBlock(i int, values []float64) error
	// Values returns a copy of all scalars.
	Values() []float64
	// Fill sets every scalar to v.
	Fill(v float64)
	// Scale multiplies every scalar by alpha.
	Scale(alpha float64)
	// Axpy computes v += alpha*x.
	Axpy(alpha float64, x BlockVector) error
	// Dot returns the scalar product with x.
	Dot(x BlockVector) (float64, error)
	// TwoNorm returns the Euclidean norm.
	TwoNorm() float64
	// InfinityNorm returns the largest absolute scalar.
	InfinityNorm() float64
	// Copy returns an independent vector of the same type.
	Copy() BlockVector
}

// Matrix is a block compressed row storage sparse matrix.
// Scalar indices address the flattened matrix.
type Matrix interface {
	Typed
	// N returns the number of block rows.
	N() int
	// M returns the number of block columns.
	M() int
	// BlockShape returns the shape of one block.
	BlockShape() domain.BlockShape
	// NonZeroes returns the number of stored blocks.
	NonZeroes() int
	// SetSize resizes an unbuilt matrix.
	SetSize(rows, cols int) error
	// SetImplicitBuildModeParameters configures implicit build mode on an unbuilt matrix.
	SetImplicitBuildModeParameters(avg int, overflow float64) error
	// Set writes a scalar entry. Before compression it creates the enclosing block.
	Set(i, j int, v float64) error
	// Add adds to a scalar entry. Before compression it creates the enclosing block.
	Add(i, j int, v float64) error
	// Get returns a scalar entry, zero if the enclosing block is not stored.
	Get(i, j int) float64
	// Exists reports whether block (i, j) is stored.
	Exists(i, j int) bool
	// Block returns a copy of block (i, j) in row-major order.
	Block(i, j int) ([]float64, bool)
	// Compress finishes implicit build mode.
	Compress() (domain.CompressionStatistics, error)
	// Compressed reports whether the matrix left build mode.
	Compressed() bool
	// Mv computes y = A x.
	Mv(x, y BlockVector) error
	// UsMv computes y += alpha A x.
	UsMv(alpha float64, x, y BlockVector) error
	// FrobeniusNorm returns the Frobenius norm.
	FrobeniusNorm() float64
	// InfinityNorm returns the maximum absolute row sum.
	InfinityNorm() float64
}

// MatrixIndexSet collects a sparsity pattern before a matrix is allocated.
type MatrixIndexSet interface {
	Typed
	// Rows returns the number of block rows.
	Rows() int
	// Cols returns the number of block columns.
	Cols() int
	// Add inserts block index (i, j).
	Add(i, j int) error
	// Contains reports whether (i, j) was added.
	Contains(i, j int) bool
	// RowSize returns the number of indices in row i.
	RowSize(i int) int
	// Size returns the total number of indices.
	Size() int
	// ExportIdx sizes m to the pattern and leaves it compressed with zero blocks.
	ExportIdx(m Matrix) error
}

// LinearOperator applies a matrix to vectors.
type LinearOperator interface {
	Typed
	// Apply computes y = A x.
	Apply(x, y BlockVector) error
	// ApplyScaleAdd computes y += alpha A x.
	ApplyScaleAdd(alpha float64, x, y BlockVector) error
	// Matrix returns the shared matrix.
	Matrix() Matrix
}

// InverseOperator solves A x = b for one operator.
type InverseOperator interface {
	Typed
	// Apply solves for x starting from its current value.
	// b is used as workspace and holds the final defect on return.
	Apply(x, b BlockVector) (domain.InverseOperatorResult, error)
	// Category names the solver algorithm.
	Category() string
}

// SolverFactory creates inverse operators from a configuration at call time.
type SolverFactory interface {
	Typed
	// Get creates an inverse operator for op configured by config.
	Get(op LinearOperator, config domain.SolverConfig) (InverseOperator, error)
}
