package native

import (
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

// MatrixAdapter is a linear operator over an assembled matrix it shares with its creator.
type MatrixAdapter[T Float] struct {
	desc   domain.TypeDescriptor
	matrix *BCRSMatrix[T]
}

var _ ports.LinearOperator = (*MatrixAdapter[float64])(nil)

func newMatrixAdapter[T Float](desc domain.TypeDescriptor, m ports.Matrix) (*MatrixAdapter[T], error) {
	matrix, ok := m.(*BCRSMatrix[T])
	if !ok || matrix == nil {
		return nil, zerr.Wrap(domain.ErrInvalidArgument, "operator requires a matrix of its own scalar type")
	}
	if want, ok := desc.Operand(0); ok && !matrix.Descriptor().SameType(want) {
		err := zerr.Wrap(domain.ErrInvalidArgument, "matrix type does not match the operator")
		return nil, zerr.With(zerr.With(err, "matrix", matrix.Descriptor().String()), "want", want.String())
	}
	return &MatrixAdapter[T]{desc: desc, matrix: matrix}, nil
}

// Descriptor implements ports.Typed.
func (o *MatrixAdapter[T]) Descriptor() domain.TypeDescriptor { return o.desc }

// Apply computes y = A x.
func (o *MatrixAdapter[T]) Apply(x, y ports.BlockVector) error {
	return o.matrix.Mv(x, y)
}

// ApplyScaleAdd computes y += alpha A x.
func (o *MatrixAdapter[T]) ApplyScaleAdd(alpha float64, x, y ports.BlockVector) error {
	return o.matrix.UsMv(alpha, x, y)
}

// Matrix returns the shared matrix.
func (o *MatrixAdapter[T]) Matrix() ports.Matrix {
	return o.matrix
}
