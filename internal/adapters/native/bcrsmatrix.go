package native

import (
	"math"
	"slices"
	"strconv"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

// DefaultOverflow is the overflow fraction used when a matrix is sized without build parameters.
const DefaultOverflow = 0.1

// overflowReserve is the number of overflow slots per average row granted on top of the overflow fraction.
const overflowReserve = 4

// BCRSMatrix is a block compressed row storage matrix.
//
// A matrix starts in implicit build mode: writing an entry creates its block. Each row owns
// avg slots and entries beyond that are counted against a shared overflow budget of
// floor(overflow*n*avg) + 4*avg. Compress sorts the pattern into compressed rows, after which
// only existing blocks can be written.
type BCRSMatrix[T Float] struct {
	desc       domain.TypeDescriptor
	r, c       int
	n, m       int
	avg        int
	overflow   float64
	sized      bool
	compressed bool

	// build mode
	rows [][]buildEntry[T]

	// compressed mode
	rowPtr []int
	colIdx []int
	values []T
}

type buildEntry[T Float] struct {
	col   int
	block []T
}

var _ ports.Matrix = (*BCRSMatrix[float64])(nil)

func newBCRSMatrix[T Float](desc domain.TypeDescriptor) *BCRSMatrix[T] {
	return &BCRSMatrix[T]{
		desc:     desc,
		r:        desc.Block.Rows,
		c:        desc.Block.Cols,
		avg:      domain.DefaultAvgNonZeros,
		overflow: DefaultOverflow,
	}
}

// Descriptor implements ports.Typed.
func (a *BCRSMatrix[T]) Descriptor() domain.TypeDescriptor { return a.desc }

// N returns the number of block rows.
func (a *BCRSMatrix[T]) N() int { return a.n }

// M returns the number of block columns.
func (a *BCRSMatrix[T]) M() int { return a.m }

// BlockShape returns the shape of one block.
func (a *BCRSMatrix[T]) BlockShape() domain.BlockShape { return domain.BlockShape{Rows: a.r, Cols: a.c} }

// Compressed reports whether the matrix left build mode.
func (a *BCRSMatrix[T]) Compressed() bool { return a.compressed }

// NonZeroes returns the number of stored blocks.
func (a *BCRSMatrix[T]) NonZeroes() int {
	if a.compressed {
		return len(a.colIdx)
	}
	nnz := 0
	for _, row := range a.rows {
		nnz += len(row)
	}
	return nnz
}

// SetImplicitBuildModeParameters sets the expected blocks per row and the overflow fraction.
// It is only allowed before the matrix is sized.
func (a *BCRSMatrix[T]) SetImplicitBuildModeParameters(avg int, overflow float64) error {
	if a.sized || a.compressed {
		return zerr.Wrap(domain.ErrMatrixAlreadyBuilt, "build mode parameters must be set before the matrix is sized")
	}
	if err := validateBuildParameters(avg, overflow); err != nil {
		return err
	}
	a.avg = avg
	a.overflow = overflow
	return nil
}

// SetSize sizes the matrix to rows by cols blocks and discards pending entries.
func (a *BCRSMatrix[T]) SetSize(rows, cols int) error {
	if a.compressed {
		return zerr.Wrap(domain.ErrMatrixAlreadyBuilt, "cannot resize a compressed matrix")
	}
	if rows < 0 || cols < 0 {
		err := zerr.Wrap(domain.ErrInvalidArgument, "matrix size must not be negative")
		return zerr.With(zerr.With(err, "rows", rows), "cols", cols)
	}
	a.n, a.m = rows, cols
	a.rows = make([][]buildEntry[T], rows)
	a.sized = true
	return nil
}

// Set writes the scalar entry (i, j).
func (a *BCRSMatrix[T]) Set(i, j int, v float64) error {
	p, err := a.entry(i, j)
	if err != nil {
		return err
	}
	*p = T(v)
	return nil
}

// Add adds v to the scalar entry (i, j).
func (a *BCRSMatrix[T]) Add(i, j int, v float64) error {
	p, err := a.entry(i, j)
	if err != nil {
		return err
	}
	*p += T(v)
	return nil
}

// Get returns the scalar entry (i, j), zero if its block is not stored.
func (a *BCRSMatrix[T]) Get(i, j int) float64 {
	bi, bj := i/a.r, j/a.c
	if i < 0 || j < 0 || bi >= a.n || bj >= a.m {
		return 0
	}
	block := a.find(bi, bj)
	if block == nil {
		return 0
	}
	return float64(block[(i%a.r)*a.c+j%a.c])
}

// Exists reports whether block (i, j) is stored.
func (a *BCRSMatrix[T]) Exists(i, j int) bool {
	if i < 0 || j < 0 || i >= a.n || j >= a.m {
		return false
	}
	return a.find(i, j) != nil
}

// Block returns a copy of block (i, j) in row-major order.
func (a *BCRSMatrix[T]) Block(i, j int) ([]float64, bool) {
	if !a.Exists(i, j) {
		return nil, false
	}
	block := a.find(i, j)
	out := make([]float64, len(block))
	for k, x := range block {
		out[k] = float64(x)
	}
	return out, true
}

// Compress leaves build mode and reports how the pattern used the reserved slots.
// It fails with domain.ErrImplicitOverflowExhausted, leaving the matrix in build mode,
// when more entries overflowed their rows than the budget allows.
func (a *BCRSMatrix[T]) Compress() (domain.CompressionStatistics, error) {
	if a.compressed {
		return domain.CompressionStatistics{}, zerr.Wrap(domain.ErrMatrixAlreadyBuilt, "matrix is already compressed")
	}

	var stats domain.CompressionStatistics
	nnz := 0
	for _, row := range a.rows {
		nnz += len(row)
		stats.Maximum = max(stats.Maximum, len(row))
		stats.OverflowTotal += max(0, len(row)-a.avg)
	}

	budget := a.overflowBudget()
	if stats.OverflowTotal > budget {
		err := zerr.Wrap(domain.ErrImplicitOverflowExhausted, "too many entries exceed the average row size")
		return domain.CompressionStatistics{}, zerr.With(zerr.With(err, "overflow", stats.OverflowTotal), "budget", budget)
	}

	if a.n > 0 {
		stats.Avg = float64(nnz) / float64(a.n)
	}
	if slots := a.n*a.avg + budget; slots > 0 {
		stats.MemUtilisation = float64(nnz) / float64(slots)
	}

	bs := a.r * a.c
	a.rowPtr = make([]int, a.n+1)
	a.colIdx = make([]int, 0, nnz)
	a.values = make([]T, 0, nnz*bs)
	for i, row := range a.rows {
		slices.SortFunc(row, func(x, y buildEntry[T]) int { return x.col - y.col })
		for _, e := range row {
			a.colIdx = append(a.colIdx, e.col)
			a.values = append(a.values, e.block...)
		}
		a.rowPtr[i+1] = len(a.colIdx)
	}
	a.rows = nil
	a.compressed = true
	return stats, nil
}

// Mv computes y = A x.
func (a *BCRSMatrix[T]) Mv(x, y ports.BlockVector) error {
	yv, err := asVector[T](y)
	if err != nil {
		return err
	}
	if err := a.checkOperands(x, yv); err != nil {
		return err
	}
	clear(yv.data)
	return a.usmv(1, x.(*BlockVector[T]), yv)
}

// UsMv computes y += alpha A x.
func (a *BCRSMatrix[T]) UsMv(alpha float64, x, y ports.BlockVector) error {
	yv, err := asVector[T](y)
	if err != nil {
		return err
	}
	if err := a.checkOperands(x, yv); err != nil {
		return err
	}
	return a.usmv(T(alpha), x.(*BlockVector[T]), yv)
}

func (a *BCRSMatrix[T]) usmv(alpha T, x, y *BlockVector[T]) error {
	bs := a.r * a.c
	for i := range a.n {
		yi := y.data[i*a.r : (i+1)*a.r]
		for k := a.rowPtr[i]; k < a.rowPtr[i+1]; k++ {
			block := a.values[k*bs : (k+1)*bs]
			xj := x.data[a.colIdx[k]*a.c : (a.colIdx[k]+1)*a.c]
			for r := range a.r {
				var sum T
				for c := range a.c {
					sum += block[r*a.c+c] * xj[c]
				}
				yi[r] += alpha * sum
			}
		}
	}
	return nil
}

// FrobeniusNorm returns the Frobenius norm.
func (a *BCRSMatrix[T]) FrobeniusNorm() float64 {
	var sum float64
	a.eachValue(func(x T) { sum += float64(x) * float64(x) })
	return math.Sqrt(sum)
}

// InfinityNorm returns the maximum absolute scalar row sum.
func (a *BCRSMatrix[T]) InfinityNorm() float64 {
	var norm float64
	for i := range a.n {
		for r := range a.r {
			var sum float64
			a.eachRowBlock(i, func(_ int, block []T) {
				for c := range a.c {
					sum += math.Abs(float64(block[r*a.c+c]))
				}
			})
			norm = math.Max(norm, sum)
		}
	}
	return norm
}

func (a *BCRSMatrix[T]) overflowBudget() int {
	return int(math.Floor(a.overflow*float64(a.n)*float64(a.avg))) + overflowReserve*a.avg
}

// entry returns a pointer to scalar (i, j), creating its block in build mode.
func (a *BCRSMatrix[T]) entry(i, j int) (*T, error) {
	if !a.sized {
		return nil, zerr.Wrap(domain.ErrInvalidArgument, "matrix has no size")
	}
	bi, bj := i/a.r, j/a.c
	if i < 0 || bi >= a.n {
		return nil, indexError(i, a.n*a.r)
	}
	if j < 0 || bj >= a.m {
		return nil, indexError(j, a.m*a.c)
	}
	offset := (i%a.r)*a.c + j%a.c

	if a.compressed {
		block := a.find(bi, bj)
		if block == nil {
			err := zerr.Wrap(domain.ErrEntryNotInPattern, "block ("+strconv.Itoa(bi)+","+strconv.Itoa(bj)+") is not stored")
			return nil, zerr.With(zerr.With(err, "row", bi), "col", bj)
		}
		return &block[offset], nil
	}

	row := a.rows[bi]
	for k := range row {
		if row[k].col == bj {
			return &row[k].block[offset], nil
		}
	}
	block := make([]T, a.r*a.c)
	a.rows[bi] = append(row, buildEntry[T]{col: bj, block: block})
	return &block[offset], nil
}

func (a *BCRSMatrix[T]) find(i, j int) []T {
	if !a.compressed {
		if i >= len(a.rows) {
			return nil
		}
		for _, e := range a.rows[i] {
			if e.col == j {
				return e.block
			}
		}
		return nil
	}
	cols := a.colIdx[a.rowPtr[i]:a.rowPtr[i+1]]
	k, found := slices.BinarySearch(cols, j)
	if !found {
		return nil
	}
	bs := a.r * a.c
	start := (a.rowPtr[i] + k) * bs
	return a.values[start : start+bs]
}

func (a *BCRSMatrix[T]) eachRowBlock(i int, fn func(col int, block []T)) {
	if !a.compressed {
		for _, e := range a.rows[i] {
			fn(e.col, e.block)
		}
		return
	}
	bs := a.r * a.c
	for k := a.rowPtr[i]; k < a.rowPtr[i+1]; k++ {
		fn(a.colIdx[k], a.values[k*bs:(k+1)*bs])
	}
}

func (a *BCRSMatrix[T]) eachValue(fn func(T)) {
	for i := range a.n {
		a.eachRowBlock(i, func(_ int, block []T) {
			for _, x := range block {
				fn(x)
			}
		})
	}
}

func (a *BCRSMatrix[T]) checkOperands(x ports.BlockVector, y *BlockVector[T]) error {
	if !a.compressed {
		return zerr.Wrap(domain.ErrMatrixNotCompressed, "matrix vector product requires a compressed matrix")
	}
	xv, err := asVector[T](x)
	if err != nil {
		return err
	}
	if len(xv.data) != a.m*a.c {
		return sizeError(len(xv.data), a.m*a.c)
	}
	if len(y.data) != a.n*a.r {
		return sizeError(len(y.data), a.n*a.r)
	}
	return nil
}

// installPattern replaces the matrix with a compressed, zero-valued pattern.
func (a *BCRSMatrix[T]) installPattern(rows, cols int, pattern [][]int) error {
	if a == nil {
		return zerr.Wrap(domain.ErrInvalidArgument, "cannot install a sparsity pattern into a nil matrix")
	}
	bs := a.r * a.c
	a.n, a.m = rows, cols
	a.rows = nil
	a.sized = true
	a.rowPtr = make([]int, rows+1)
	a.colIdx = a.colIdx[:0]
	for i, row := range pattern {
		a.colIdx = append(a.colIdx, row...)
		a.rowPtr[i+1] = len(a.colIdx)
	}
	a.values = make([]T, len(a.colIdx)*bs)
	a.compressed = true
	return nil
}

// diagonalBlock returns block (i, i) of a compressed matrix.
func (a *BCRSMatrix[T]) diagonalBlock(i int) []T {
	return a.find(i, i)
}

func validateBuildParameters(avg int, overflow float64) error {
	if avg <= 0 {
		return zerr.With(zerr.Wrap(domain.ErrInvalidArgument, "average row size must be positive"), "avg", avg)
	}
	if overflow < 0 || math.IsNaN(overflow) {
		return zerr.With(zerr.Wrap(domain.ErrInvalidArgument, "overflow fraction must not be negative"), "overflow", overflow)
	}
	return nil
}
