package native

import (
	"math"
	"strconv"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/zerr"
)

// Preconditioner type names accepted under the preconditioner key.
const (
	PrecRichardson  = "richardson"
	PrecJacobi      = "jacobi"
	PrecGaussSeidel = "gaussseidel"
	PrecSOR         = "sor"
	PrecSSOR        = "ssor"
)

// pivotTolerance is the smallest pivot magnitude accepted when inverting a diagonal block.
const pivotTolerance = 1e-300

// preconditioner approximately solves M v = d for v.
type preconditioner[T Float] interface {
	apply(v, d *BlockVector[T])
	category() string
}

// newPreconditioner builds the preconditioner described by cfg for matrix a.
// A nil cfg yields the identity.
func newPreconditioner[T Float](a *BCRSMatrix[T], cfg domain.SolverConfig) (preconditioner[T], error) {
	if cfg == nil {
		return identity[T]{}, nil
	}

	typ, err := cfg.RequiredType()
	if err != nil {
		return nil, err
	}
	iterations, err := cfg.Int(domain.KeyIterations, 1)
	if err != nil {
		return nil, err
	}
	if iterations <= 0 {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidSolverConfig, "iterations must be positive"), "iterations", iterations)
	}
	relaxation, err := cfg.Float(domain.KeyRelaxation, 1)
	if err != nil {
		return nil, err
	}
	if relaxation <= 0 {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidSolverConfig, "relaxation must be positive"), "relaxation", relaxation)
	}

	if typ == PrecRichardson {
		return richardson[T]{w: relaxation}, nil
	}

	var sweeps []bool
	switch typ {
	case PrecJacobi:
		diag, err := invertDiagonal(a)
		if err != nil {
			return nil, err
		}
		return &jacobi[T]{a: a, diag: diag, w: relaxation, iterations: iterations}, nil
	case PrecGaussSeidel, PrecSOR:
		sweeps = []bool{false}
	case PrecSSOR:
		sweeps = []bool{false, true}
	default:
		return nil, zerr.With(zerr.Wrap(domain.ErrUnknownPreconditioner, "cannot create preconditioner"), "type", typ)
	}

	diag, err := invertDiagonal(a)
	if err != nil {
		return nil, err
	}
	return &sweeper[T]{
		name:       typ,
		a:          a,
		diag:       diag,
		w:          relaxation,
		iterations: iterations,
		sweeps:     sweeps,
	}, nil
}

type identity[T Float] struct{}

func (identity[T]) apply(v, d *BlockVector[T]) { v.copyFrom(d) }
func (identity[T]) category() string           { return "identity" }

type richardson[T Float] struct {
	w float64
}

func (p richardson[T]) apply(v, d *BlockVector[T]) {
	v.copyFrom(d)
	v.Scale(p.w)
}

func (richardson[T]) category() string { return PrecRichardson }

// jacobi runs damped block Jacobi steps starting from v = 0.
type jacobi[T Float] struct {
	a          *BCRSMatrix[T]
	diag       [][]float64
	w          float64
	iterations int
}

func (p *jacobi[T]) apply(v, d *BlockVector[T]) {
	clear(v.data)
	next := v.zeroLike()
	res := make([]float64, p.a.r)
	for range p.iterations {
		for i := range p.a.n {
			blockDefect(p.a, i, v, d, res)
			out := next.data[i*p.a.r : (i+1)*p.a.r]
			copy(out, v.data[i*p.a.r:(i+1)*p.a.r])
			applyInverse(p.diag[i], res, out, p.w)
		}
		v.copyFrom(next)
	}
}

func (*jacobi[T]) category() string { return PrecJacobi }

// sweeper runs block Gauss-Seidel style sweeps starting from v = 0.
// One forward sweep is Gauss-Seidel or SOR, a forward and a backward sweep is SSOR.
type sweeper[T Float] struct {
	name       string
	a          *BCRSMatrix[T]
	diag       [][]float64
	w          float64
	iterations int
	sweeps     []bool
}

func (p *sweeper[T]) apply(v, d *BlockVector[T]) {
	clear(v.data)
	res := make([]float64, p.a.r)
	update := func(i int) {
		blockDefect(p.a, i, v, d, res)
		applyInverse(p.diag[i], res, v.data[i*p.a.r:(i+1)*p.a.r], p.w)
	}
	for range p.iterations {
		for _, backward := range p.sweeps {
			if backward {
				for i := p.a.n - 1; i >= 0; i-- {
					update(i)
				}
				continue
			}
			for i := range p.a.n {
				update(i)
			}
		}
	}
}

func (p *sweeper[T]) category() string { return p.name }

// blockDefect computes res = d_i - sum_j A_ij v_j for block row i.
func blockDefect[T Float](a *BCRSMatrix[T], i int, v, d *BlockVector[T], res []float64) {
	for r := range a.r {
		res[r] = float64(d.data[i*a.r+r])
	}
	a.eachRowBlock(i, func(col int, block []T) {
		vj := v.data[col*a.c : (col+1)*a.c]
		for r := range a.r {
			var sum float64
			for c := range a.c {
				sum += float64(block[r*a.c+c]) * float64(vj[c])
			}
			res[r] -= sum
		}
	})
}

// applyInverse computes out += w * inv * res for a dense row-major block inverse.
func applyInverse[T Float](inv, res []float64, out []T, w float64) {
	n := len(res)
	for r := range n {
		var sum float64
		for c := range n {
			sum += inv[r*n+c] * res[c]
		}
		out[r] += T(w * sum)
	}
}

// invertDiagonal inverts every diagonal block of a compressed square matrix.
func invertDiagonal[T Float](a *BCRSMatrix[T]) ([][]float64, error) {
	if !a.compressed {
		return nil, zerr.Wrap(domain.ErrMatrixNotCompressed, "preconditioner requires a compressed matrix")
	}
	if a.n != a.m || a.r != a.c {
		err := zerr.Wrap(domain.ErrInvalidArgument, "preconditioner requires a square matrix with square blocks")
		return nil, zerr.With(err, "shape", strconv.Itoa(a.n)+"x"+strconv.Itoa(a.m)+" blocks of "+a.BlockShape().String())
	}

	inv := make([][]float64, a.n)
	for i := range a.n {
		block := a.diagonalBlock(i)
		if block == nil {
			return nil, zerr.With(zerr.Wrap(domain.ErrSingularBlock, "diagonal block is not stored"), "row", i)
		}
		m := make([]float64, len(block))
		for k, x := range block {
			m[k] = float64(x)
		}
		out, ok := invertDense(m, a.r)
		if !ok {
			return nil, zerr.With(zerr.Wrap(domain.ErrSingularBlock, "diagonal block cannot be inverted"), "row", i)
		}
		inv[i] = out
	}
	return inv, nil
}

// invertDense inverts an n by n row-major matrix by Gauss-Jordan elimination with partial pivoting.
func invertDense(m []float64, n int) ([]float64, bool) {
	inv := make([]float64, n*n)
	for i := range n {
		inv[i*n+i] = 1
	}

	for col := range n {
		pivot := col
		for r := col + 1; r < n; r++ {
			if math.Abs(m[r*n+col]) > math.Abs(m[pivot*n+col]) {
				pivot = r
			}
		}
		if math.Abs(m[pivot*n+col]) < pivotTolerance {
			return nil, false
		}
		if pivot != col {
			for c := range n {
				m[col*n+c], m[pivot*n+c] = m[pivot*n+c], m[col*n+c]
				inv[col*n+c], inv[pivot*n+c] = inv[pivot*n+c], inv[col*n+c]
			}
		}

		scale := 1 / m[col*n+col]
		for c := range n {
			m[col*n+c] *= scale
			inv[col*n+c] *= scale
		}
		for r := range n {
			if r == col {
				continue
			}
			f := m[r*n+col]
			if f == 0 {
				continue
			}
			for c := range n {
				m[r*n+c] -= f * m[col*n+c]
				inv[r*n+c] -= f * inv[col*n+c]
			}
		}
	}
	return inv, true
}
