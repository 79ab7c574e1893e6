package domain

import "time"

// InverseOperatorResult reports the outcome of one solve.
// Not converging within the iteration limit is reported here, it is not an error.
type InverseOperatorResult struct {
	Iterations int
	// Reduction is the achieved ratio of final to initial defect norm.
	Reduction float64
	// Residual is the two-norm of the final defect.
	Residual        float64
	Converged       bool
	ConvergenceRate float64
	Elapsed         time.Duration
}
