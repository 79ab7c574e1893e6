package domain

import (
	"strconv"
	"strings"

	"go.trai.ch/zerr"
)

// BlockShape is the size of the dense sub-block stored per sparse entry.
type BlockShape struct {
	Rows int
	Cols int
}

// ScalarBlock is the 1x1 block shape every scalar request normalizes to.
var ScalarBlock = BlockShape{Rows: 1, Cols: 1}

// Positive reports whether both dimensions are strictly positive.
func (b BlockShape) Positive() bool {
	return b.Rows > 0 && b.Cols > 0
}

// Square reports whether the block has as many rows as columns.
func (b BlockShape) Square() bool {
	return b.Rows == b.Cols
}

// Size returns the number of scalars in one block.
func (b BlockShape) Size() int {
	return b.Rows * b.Cols
}

// String renders the shape as RxC.
func (b BlockShape) String() string {
	return strconv.Itoa(b.Rows) + "x" + strconv.Itoa(b.Cols)
}

// ParseBlockShape parses "RxC" or a single "N" meaning NxN.
func ParseBlockShape(s string) (BlockShape, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	rows, cols, found := strings.Cut(s, "x")
	if !found {
		cols = rows
	}
	r, err := strconv.Atoi(rows)
	if err != nil {
		return BlockShape{}, zerr.With(zerr.Wrap(err, "invalid block shape"), "shape", s)
	}
	c, err := strconv.Atoi(cols)
	if err != nil {
		return BlockShape{}, zerr.With(zerr.Wrap(err, "invalid block shape"), "shape", s)
	}
	return BlockShape{Rows: r, Cols: c}, nil
}
