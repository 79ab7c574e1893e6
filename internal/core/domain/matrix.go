package domain

// MatrixLayout sizes a matrix for implicit build mode.
// AvgNonZeros is the expected number of blocks per row and Overflow the fraction
// of additional slots reserved for rows that exceed it.
type MatrixLayout struct {
	Rows        int
	Cols        int
	AvgNonZeros int
	Overflow    float64
}

// DefaultAvgNonZeros is used when a layout leaves AvgNonZeros unset.
const DefaultAvgNonZeros = 3

// CompressionStatistics summarises the result of compressing an implicitly built matrix.
type CompressionStatistics struct {
	// Avg is the average number of blocks per row.
	Avg float64
	// Maximum is the largest number of blocks in any row.
	Maximum int
	// OverflowTotal counts the entries that did not fit into their row's slots.
	OverflowTotal int
	// MemUtilisation is the fraction of allocated slots that hold an entry.
	MemUtilisation float64
}
