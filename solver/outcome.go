package solver

import "fmt"

// Tag identifies the kind of a solve outcome. The taxonomy is closed:
// every solve produces exactly one tag.
type Tag int

const (
	// TagOptimal means an optimal (or gap-optimal for integer models)
	// solution was found.
	TagOptimal Tag = iota
	// TagInfeasible means the model admits no feasible point.
	TagInfeasible
	// TagUnbounded means the objective can be improved without limit.
	TagUnbounded
	// TagTimedOut means the solve did not converge within its time limit.
	TagTimedOut
	// TagNumericalFailure means the solve broke down numerically or the
	// underlying capability reported a status this adapter does not know.
	TagNumericalFailure
)

// String returns the wire name of the tag.
func (t Tag) String() string {
	switch t {
	case TagOptimal:
		return "optimal"
	case TagInfeasible:
		return "infeasible"
	case TagUnbounded:
		return "unbounded"
	case TagTimedOut:
		return "timed_out"
	case TagNumericalFailure:
		return "numerical_failure"
	}
	return fmt.Sprintf("tag(%d)", int(t))
}

// Outcome is the structured result of one solve call.
type Outcome struct {
	Tag Tag

	// Objective is the objective value at the solution. Valid only when
	// Assignment is non-nil.
	Objective float64

	// Assignment is the dense solution vector in the model's declaration
	// order. Non-nil for Optimal, and for TimedOut when a feasible
	// incumbent was found before the limit hit.
	Assignment []float64

	// BestBound is the best proven bound on the objective, when one is
	// known. Set on TimedOut for integer models.
	BestBound *float64

	// Reason is the diagnostic for NumericalFailure.
	Reason string
}
