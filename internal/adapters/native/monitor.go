package native

import (
	"fmt"
	"io"
	"math"
	"time"

	"go.trai.ch/forge/internal/core/domain"
)

// monitor tracks the defect of an iterative method and decides when it has converged.
// With verbose set it prints the iteration history.
type monitor struct {
	name      string
	out       io.Writer
	verbose   int
	reduction float64
	maxit     int

	def0      float64
	def       float64
	it        int
	converged bool
	started   time.Time
}

// begin records the initial defect and reports whether no iteration is needed.
func (m *monitor) begin(def0 float64) bool {
	m.started = time.Now()
	m.def0, m.def = def0, def0
	if m.verbose > 0 {
		_, _ = fmt.Fprintf(m.out, "=== %s\n", m.name)
	}
	if m.verbose > 1 {
		_, _ = fmt.Fprintf(m.out, "%5s %15s %15s\n", "Iter", "Defect", "Rate")
		_, _ = fmt.Fprintf(m.out, "%5d %15.5e\n", 0, def0)
	}
	if def0 == 0 || math.IsNaN(def0) {
		m.converged = def0 == 0
		return true
	}
	return false
}

// reached reports whether def meets the reduction target.
func (m *monitor) reached(def float64) bool {
	return def < m.reduction*m.def0
}

// step records the defect after one iteration and reports whether to stop.
func (m *monitor) step(def float64) bool {
	m.it++
	if m.verbose > 1 {
		_, _ = fmt.Fprintf(m.out, "%5d %15.5e %15.5g\n", m.it, def, def/m.def)
	}
	m.def = def
	m.converged = m.reached(def)
	return m.converged || m.it >= m.maxit || math.IsNaN(def) || math.IsInf(def, 0)
}

func (m *monitor) result() domain.InverseOperatorResult {
	res := domain.InverseOperatorResult{
		Iterations: m.it,
		Residual:   m.def,
		Converged:  m.converged,
		Elapsed:    time.Since(m.started),
	}
	if m.def0 > 0 {
		res.Reduction = m.def / m.def0
	}
	if m.it > 0 && res.Reduction > 0 {
		res.ConvergenceRate = math.Pow(res.Reduction, 1/float64(m.it))
	}
	if m.verbose > 0 {
		_, _ = fmt.Fprintf(m.out, "=== rate=%g, T=%.3fs, TIT=%.3gs, IT=%d, converged=%t\n",
			res.ConvergenceRate, res.Elapsed.Seconds(), res.Elapsed.Seconds()/float64(max(1, m.it)), m.it, m.converged)
	}
	return res
}
