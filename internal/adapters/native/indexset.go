package native

import (
	"slices"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

// patternSink is implemented by matrices that can adopt a sparsity pattern.
type patternSink interface {
	installPattern(rows, cols int, pattern [][]int) error
}

// IndexSet collects block indices row by row before a matrix is allocated.
type IndexSet struct {
	desc       domain.TypeDescriptor
	rows, cols int
	pattern    [][]int
}

var _ ports.MatrixIndexSet = (*IndexSet)(nil)

func newIndexSet(desc domain.TypeDescriptor, rows, cols int) (*IndexSet, error) {
	if rows < 0 || cols < 0 {
		err := zerr.Wrap(domain.ErrInvalidArgument, "index set size must not be negative")
		return nil, zerr.With(zerr.With(err, "rows", rows), "cols", cols)
	}
	return &IndexSet{desc: desc, rows: rows, cols: cols, pattern: make([][]int, rows)}, nil
}

// Descriptor implements ports.Typed.
func (s *IndexSet) Descriptor() domain.TypeDescriptor { return s.desc }

// Rows returns the number of block rows.
func (s *IndexSet) Rows() int { return s.rows }

// Cols returns the number of block columns.
func (s *IndexSet) Cols() int { return s.cols }

// Add inserts block index (i, j). Adding an index twice is a no-op.
func (s *IndexSet) Add(i, j int) error {
	if i < 0 || i >= s.rows {
		return indexError(i, s.rows)
	}
	if j < 0 || j >= s.cols {
		return indexError(j, s.cols)
	}
	row := s.pattern[i]
	k, found := slices.BinarySearch(row, j)
	if !found {
		s.pattern[i] = slices.Insert(row, k, j)
	}
	return nil
}

// Contains reports whether (i, j) was added.
func (s *IndexSet) Contains(i, j int) bool {
	if i < 0 || i >= s.rows {
		return false
	}
	_, found := slices.BinarySearch(s.pattern[i], j)
	return found
}

// RowSize returns the number of indices in row i.
func (s *IndexSet) RowSize(i int) int {
	if i < 0 || i >= s.rows {
		return 0
	}
	return len(s.pattern[i])
}

// Size returns the total number of indices.
func (s *IndexSet) Size() int {
	n := 0
	for _, row := range s.pattern {
		n += len(row)
	}
	return n
}

// ExportIdx sizes m to the pattern and leaves it compressed with zero blocks.
func (s *IndexSet) ExportIdx(m ports.Matrix) error {
	if m == nil {
		return zerr.Wrap(domain.ErrInvalidArgument, "matrix cannot adopt a sparsity pattern")
	}
	sink, ok := m.(patternSink)
	if !ok {
		return zerr.Wrap(domain.ErrInvalidArgument, "matrix cannot adopt a sparsity pattern")
	}
	pattern := make([][]int, s.rows)
	for i, row := range s.pattern {
		pattern[i] = slices.Clone(row)
	}
	return sink.installPattern(s.rows, s.cols, pattern)
}
