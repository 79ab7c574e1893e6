package native

import (
	"math"
	"strconv"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

// Float is the set of scalar types blocks can hold.
type Float interface {
	~float32 | ~float64
}

// BlockVector is a contiguous vector of fixed-size blocks.
type BlockVector[T Float] struct {
	desc domain.TypeDescriptor
	bs   int
	data []T
}

var _ ports.BlockVector = (*BlockVector[float64])(nil)

func newBlockVector[T Float](desc domain.TypeDescriptor, blocks int) *BlockVector[T] {
	bs := desc.Block.Rows
	return &BlockVector[T]{desc: desc, bs: bs, data: make([]T, blocks*bs)}
}

// Descriptor implements ports.Typed.
func (v *BlockVector[T]) Descriptor() domain.TypeDescriptor { return v.desc }

// N returns the number of blocks.
func (v *BlockVector[T]) N() int { return len(v.data) / v.bs }

// BlockSize returns the number of scalars per block.
func (v *BlockVector[T]) BlockSize() int { return v.bs }

// Dim returns the number of scalars.
func (v *BlockVector[T]) Dim() int { return len(v.data) }

// At returns the scalar at index i. Out of range indices read as zero.
func (v *BlockVector[T]) At(i int) float64 {
	if i < 0 || i >= len(v.data) {
		return 0
	}
	return float64(v.data[i])
}

// SetAt sets the scalar at index i.
func (v *BlockVector[T]) SetAt(i int, x float64) error {
	if i < 0 || i >= len(v.data) {
		return indexError(i, len(v.data))
	}
	v.data[i] = T(x)
	return nil
}

// Block returns a copy of block i, or nil if i is out of range.
func (v *BlockVector[T]) Block(i int) []float64 {
	if i < 0 || i >= v.N() {
		return nil
	}
	out := make([]float64, v.bs)
	for k := range out {
		out[k] = float64(v.data[i*v.bs+k])
	}
	return out
}

// SetBlock overwrites block i.
func (v *BlockVector[T]) SetBlock(i int, values []float64) error {
	if i < 0 || i >= v.N() {
		return indexError(i, v.N())
	}
	if len(values) != v.bs {
		return sizeError(len(values), v.bs)
	}
	for k, x := range values {
		v.data[i*v.bs+k] = T(x)
	}
	return nil
}

// Values returns a copy of all scalars.
func (v *BlockVector[T]) Values() []float64 {
	out := make([]float64, len(v.data))
	for i, x := range v.data {
		out[i] = float64(x)
	}
	return out
}

// Fill sets every scalar to x.
func (v *BlockVector[T]) Fill(x float64) {
	for i := range v.data {
		v.data[i] = T(x)
	}
}

// Scale multiplies every scalar by alpha.
func (v *BlockVector[T]) Scale(alpha float64) {
	a := T(alpha)
	for i := range v.data {
		v.data[i] *= a
	}
}

// Axpy computes v += alpha*x.
func (v *BlockVector[T]) Axpy(alpha float64, x ports.BlockVector) error {
	other, err := sameVector(v, x)
	if err != nil {
		return err
	}
	v.axpy(alpha, other)
	return nil
}

// Dot returns the scalar product with x, accumulated in float64.
func (v *BlockVector[T]) Dot(x ports.BlockVector) (float64, error) {
	other, err := sameVector(v, x)
	if err != nil {
		return 0, err
	}
	return v.dot(other), nil
}

// TwoNorm returns the Euclidean norm.
func (v *BlockVector[T]) TwoNorm() float64 {
	var sum float64
	for _, x := range v.data {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

// InfinityNorm returns the largest absolute scalar.
func (v *BlockVector[T]) InfinityNorm() float64 {
	var norm float64
	for _, x := range v.data {
		norm = math.Max(norm, math.Abs(float64(x)))
	}
	return norm
}

// Copy returns an independent vector of the same type.
func (v *BlockVector[T]) Copy() ports.BlockVector {
	return v.clone()
}

func (v *BlockVector[T]) axpy(alpha float64, x *BlockVector[T]) {
	a := T(alpha)
	for i, xi := range x.data {
		v.data[i] += a * xi
	}
}

func (v *BlockVector[T]) dot(x *BlockVector[T]) float64 {
	var sum float64
	for i, vi := range v.data {
		sum += float64(vi) * float64(x.data[i])
	}
	return sum
}

func (v *BlockVector[T]) copyFrom(x *BlockVector[T]) {
	copy(v.data, x.data)
}

func (v *BlockVector[T]) clone() *BlockVector[T] {
	return &BlockVector[T]{desc: v.desc, bs: v.bs, data: append([]T(nil), v.data...)}
}

func (v *BlockVector[T]) zeroLike() *BlockVector[T] {
	return &BlockVector[T]{desc: v.desc, bs: v.bs, data: make([]T, len(v.data))}
}

// sameVector checks that x has the concrete type and dimension of v.
func sameVector[T Float](v *BlockVector[T], x ports.BlockVector) (*BlockVector[T], error) {
	other, err := asVector[T](x)
	if err != nil {
		return nil, err
	}
	if len(other.data) != len(v.data) {
		return nil, sizeError(len(other.data), len(v.data))
	}
	return other, nil
}

func asVector[T Float](x ports.BlockVector) (*BlockVector[T], error) {
	v, ok := x.(*BlockVector[T])
	if !ok || v == nil {
		desc := "<nil>"
		if x != nil {
			desc = x.Descriptor().String()
		}
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidArgument, "vector has a different scalar type"), "vector", desc)
	}
	return v, nil
}

func indexError(i, n int) error {
	err := zerr.Wrap(domain.ErrIndexOutOfRange, "index "+strconv.Itoa(i)+" outside [0,"+strconv.Itoa(n)+")")
	return zerr.With(err, "index", i)
}

func sizeError(got, want int) error {
	err := zerr.Wrap(domain.ErrDimensionMismatch, "got "+strconv.Itoa(got)+" scalars, want "+strconv.Itoa(want))
	return zerr.With(zerr.With(err, "got", got), "want", want)
}
