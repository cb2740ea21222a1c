package solver

import "fmt"

// ModelStatus is the raw termination status of the underlying solving
// capability, before it is folded into the outcome taxonomy.
type ModelStatus int

const (
	// ModelStatusNotSet means the solve never produced a status.
	ModelStatusNotSet ModelStatus = iota
	// ModelStatusOptimal means an optimal solution is available.
	ModelStatusOptimal
	// ModelStatusInfeasible means the model is proven infeasible.
	ModelStatusInfeasible
	// ModelStatusUnbounded means the model is proven unbounded.
	ModelStatusUnbounded
	// ModelStatusTimeLimit means the time limit interrupted the solve.
	ModelStatusTimeLimit
	// ModelStatusCancelled means the caller cancelled the solve.
	ModelStatusCancelled
	// ModelStatusNumericalError means the solve broke down numerically.
	ModelStatusNumericalError
)

// String returns a readable name for the status.
func (s ModelStatus) String() string {
	switch s {
	case ModelStatusNotSet:
		return "not_set"
	case ModelStatusOptimal:
		return "optimal"
	case ModelStatusInfeasible:
		return "infeasible"
	case ModelStatusUnbounded:
		return "unbounded"
	case ModelStatusTimeLimit:
		return "time_limit"
	case ModelStatusCancelled:
		return "cancelled"
	case ModelStatusNumericalError:
		return "numerical_error"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// rawResult is what the solving internals hand back before mapping.
type rawResult struct {
	status    ModelStatus
	objective float64
	x         []float64 // solution in original variable space
	bound     *float64  // best proven bound, if any
	reason    string    // diagnostic for numerical errors
}

// mapOutcome folds a raw result into the closed outcome taxonomy. The
// mapping is exhaustive: a status this switch does not recognize becomes
// a numerical failure rather than being dropped.
func mapOutcome(raw rawResult) Outcome {
	switch raw.status {
	case ModelStatusOptimal:
		return Outcome{
			Tag:        TagOptimal,
			Objective:  raw.objective,
			Assignment: raw.x,
		}
	case ModelStatusInfeasible:
		return Outcome{Tag: TagInfeasible}
	case ModelStatusUnbounded:
		return Outcome{Tag: TagUnbounded}
	case ModelStatusTimeLimit, ModelStatusCancelled:
		return Outcome{
			Tag:        TagTimedOut,
			Objective:  raw.objective,
			Assignment: raw.x,
			BestBound:  raw.bound,
		}
	case ModelStatusNumericalError:
		return Outcome{Tag: TagNumericalFailure, Reason: raw.reason}
	default:
		return Outcome{
			Tag:    TagNumericalFailure,
			Reason: fmt.Sprintf("unrecognized solver status: %s", raw.status),
		}
	}
}
