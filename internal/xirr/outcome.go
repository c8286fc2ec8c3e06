package xirr

// Kind classifies how the solver terminated.
type Kind int

const (
	// NoSolutionWithinTolerance: no bracket was found, the bracket collapsed, or the
	// iteration cap was reached before the tolerance.
	NoSolutionWithinTolerance Kind = iota
	// ApproximateSolution: the bracket half-width fell within the tolerance.
	ApproximateSolution
	// ExactSolution: the present value at the midpoint was exactly zero.
	ExactSolution
)

func (k Kind) String() string {
	switch k {
	case ExactSolution:
		return "exact"
	case ApproximateSolution:
		return "approximate"
	default:
		return "no_solution"
	}
}

// Converged reports whether the rate is a root within tolerance.
func (k Kind) Converged() bool {
	return k == ExactSolution || k == ApproximateSolution
}

// Outcome is the result of a root search. Rate is a fraction (0.10 = 10%).
type Outcome struct {
	Kind Kind
	Rate float64
}
